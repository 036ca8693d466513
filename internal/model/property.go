package model

import "time"

// Property represents a listing owned by a host.  Price and MaxGuests
// feed the booking admission engine; everything else is descriptive.
// A listing with IsAvailable=false is hidden from public browse; admission
// only cares that the listing exists and what it costs.
//
// Fields:
//
//	ID            – primary key identifier.
//	HostID        – user who owns the listing.
//	Title         – short display name.
//	Description   – free-text description.
//	City, Country – coarse location shown on cards.
//	PricePerNight – nightly rate; must be > 0.
//	MaxGuests     – capacity; must be >= 1.
//	IsAvailable   – host-togglable listing flag.
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Property struct {
	ID            uint64    // properties.id
	HostID        uint64    // properties.host_id
	Title         string    // properties.title
	Description   string    // properties.description
	City          string    // properties.city
	Country       string    // properties.country
	PricePerNight float64   // properties.price_per_night (DECIMAL(10,2))
	MaxGuests     uint32    // properties.max_guests
	IsAvailable   bool      // properties.is_available
	CreatedAt     time.Time // properties.created_at
	UpdatedAt     time.Time // properties.updated_at
}

// PropertyPatch carries an explicit partial update for a listing.  Nil
// fields are left untouched; non-nil fields overwrite the stored value.
// The repository applies the patch declaratively instead of string-building
// a SET clause from whatever the client happened to send.
type PropertyPatch struct {
	Title         *string
	Description   *string
	City          *string
	Country       *string
	PricePerNight *float64
	MaxGuests     *uint32
	IsAvailable   *bool
}
