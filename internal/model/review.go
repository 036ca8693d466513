package model

import "time"

// Review is a guest's rating of a property, tied to the completed booking
// that made the guest eligible.  The (booking, guest) pair is unique, so a
// guest reviews each qualifying stay at most once.  Reviews are immutable
// after creation.
type Review struct {
	ID         uint64    // reviews.id
	GuestID    uint64    // reviews.guest_id
	PropertyID uint64    // reviews.property_id
	BookingID  uint64    // reviews.booking_id
	Rating     uint8     // reviews.rating (1..5)
	Comment    string    // reviews.comment
	CreatedAt  time.Time // reviews.created_at
}
