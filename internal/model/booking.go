package model

import (
	"math"
	"time"
)

// Booking status values.  A booking is created as "confirmed" and moves to
// "completed" once the check-out date has passed; completed bookings unlock
// review eligibility.  Bookings are never deleted.
const (
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
)

// Booking records a guest's stay at a property.  Check-in/check-out are
// calendar dates; the pair forms the half-open interval [CheckIn, CheckOut)
// used for conflict detection, so one stay may end on the day another begins.
//
// Fields:
//
//	ID          – primary key identifier.
//	GuestID     – user who booked the stay.
//	PropertyID  – property being booked.
//	CheckIn     – first night (inclusive).
//	CheckOut    – departure date (exclusive); strictly after CheckIn.
//	TotalGuests – party size; at most the property's MaxGuests.
//	TotalPrice  – nights × nightly rate, computed at admission time.
//	Status      – "confirmed" or "completed".
//	CreatedAt   – creation timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	GuestID     uint64    // bookings.guest_id
	PropertyID  uint64    // bookings.property_id
	CheckIn     time.Time // bookings.check_in_date (DATE)
	CheckOut    time.Time // bookings.check_out_date (DATE)
	TotalGuests uint32    // bookings.total_guests
	TotalPrice  float64   // bookings.total_price (DECIMAL(10,2))
	Status      string    // bookings.status
	CreatedAt   time.Time // bookings.created_at
}

// RangesOverlap reports whether the half-open date intervals [aIn, aOut)
// and [bIn, bOut) share any span.  Touching endpoints do not overlap: a
// stay checking out on June 10 leaves the property free for a stay
// checking in on June 10.
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// Nights returns the number of nights between two calendar dates, rounding
// the raw duration to whole days.  Callers validate checkOut > checkIn
// before pricing, so the result is positive in practice.
func Nights(checkIn, checkOut time.Time) int {
	days := checkOut.Sub(checkIn).Hours() / 24
	return int(math.Round(math.Abs(days)))
}

// StayTotal prices a stay of n nights at the given nightly rate, rounded
// to cents to match the DECIMAL(10,2) column it is stored in.
func StayTotal(nights int, pricePerNight float64) float64 {
	return math.Round(float64(nights)*pricePerNight*100) / 100
}
