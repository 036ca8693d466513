package queue

import (
	"time"

	"github.com/google/uuid"
)

// QueueBookingCreated is the durable queue bookings are announced on.
const QueueBookingCreated = "booking.created"

// BookingCreatedEvent is the message published after a booking commits.
// EventID lets downstream consumers deduplicate redeliveries.
type BookingCreatedEvent struct {
	EventID      string  `json:"eventId"`
	BookingID    uint64  `json:"bookingId"`
	GuestID      uint64  `json:"guestId"`
	PropertyID   uint64  `json:"propertyId"`
	CheckInDate  string  `json:"checkInDate"`
	CheckOutDate string  `json:"checkOutDate"`
	TotalPrice   float64 `json:"totalPrice"`
	CreatedAt    string  `json:"createdAt"` // RFC3339 UTC
}

// NewBookingCreatedEvent stamps a fresh event with an ID and timestamp.
func NewBookingCreatedEvent(bookingID, guestID, propertyID uint64, checkIn, checkOut string, totalPrice float64) BookingCreatedEvent {
	return BookingCreatedEvent{
		EventID:      uuid.NewString(),
		BookingID:    bookingID,
		GuestID:      guestID,
		PropertyID:   propertyID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalPrice:   totalPrice,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
