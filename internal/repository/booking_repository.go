// Package repository contains data access logic for bookings. BookingRepo
// owns the admission-critical piece of the whole system: the overlap check
// and the insert run inside one transaction, with the conflict query taking
// row locks, so two concurrent requests for overlapping dates on the same
// property can never both commit.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/property-rental/internal/model"
)

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

const dateLayout = "2006-01-02"

// BookingRepo manages persistence for bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB {
	return r.db
}

// Create admits a booking: it checks for date conflicts and inserts the row
// as one atomic unit. The conflict query uses half-open interval semantics
// (existing.check_in < new.check_out AND existing.check_out > new.check_in)
// and locks the matching index range with FOR UPDATE, so a concurrent
// admission for overlapping dates blocks until this transaction commits and
// then sees the new row. Touching ranges, where one stay checks out the day
// another checks in, pass the check.
//
// On success the generated ID, default status and timestamps are populated
// on the given Booking. On a date collision it returns ErrDatesUnavailable
// and writes nothing.
//
// When the requested range matches no existing rows, two concurrent
// admissions take compatible gap locks in the conflict query and then
// deadlock on insert; InnoDB kills one of them with error 1213. That loser
// lost to a competing booking, not to an infrastructure fault, so the
// transaction is retried once — the re-run's conflict query sees the
// winner's committed row and reports the collision. A retry that hits lock
// contention again is treated as a collision outright.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	err := r.createOnce(ctx, b)
	if !isLockContention(err) {
		return err
	}
	if err := r.createOnce(ctx, b); !isLockContention(err) {
		return err
	}
	return ErrDatesUnavailable
}

// isLockContention reports whether err is an InnoDB deadlock (1213) or lock
// wait timeout (1205). Both mean another admission held locks on the same
// index range.
func isLockContention(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1213") || strings.Contains(msg, "1205")
}

func (r *BookingRepo) createOnce(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const conflictQ = `SELECT COUNT(*) FROM bookings
	                   WHERE property_id = ? AND check_in_date < ? AND check_out_date > ?
	                   FOR UPDATE`
	var overlapping int
	if err := tx.QueryRowContext(ctx, conflictQ, b.PropertyID,
		b.CheckOut.Format(dateLayout), b.CheckIn.Format(dateLayout)).Scan(&overlapping); err != nil {
		return err
	}
	if overlapping > 0 {
		return ErrDatesUnavailable
	}

	const insQ = `INSERT INTO bookings (guest_id, property_id, check_in_date, check_out_date, total_guests, total_price)
	              VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insQ, b.GuestID, b.PropertyID,
		b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), b.TotalGuests, b.TotalPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate the default status and timestamps.
	const sel = `SELECT id, guest_id, property_id, check_in_date, check_out_date, total_guests, total_price, status, created_at
	             FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.GuestID, &b.PropertyID, &b.CheckIn, &b.CheckOut,
		&b.TotalGuests, &b.TotalPrice, &b.Status, &b.CreatedAt,
	); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// TripDetail is a guest-facing booking row joined with the listing it was
// made against.
type TripDetail struct {
	BookingID     uint64  `json:"bookingId"`
	PropertyID    uint64  `json:"propertyId"`
	PropertyTitle string  `json:"propertyTitle"`
	City          string  `json:"city"`
	Country       string  `json:"country"`
	CheckInDate   string  `json:"checkInDate"`
	CheckOutDate  string  `json:"checkOutDate"`
	TotalGuests   uint32  `json:"totalGuests"`
	TotalPrice    float64 `json:"totalPrice"`
	Status        string  `json:"status"`
}

// ListByGuest returns the guest's bookings, newest first. When no bookings
// exist, an empty slice is returned.
func (r *BookingRepo) ListByGuest(ctx context.Context, guestID uint64) ([]TripDetail, error) {
	const q = `SELECT b.id, b.property_id, p.title, p.city, p.country,
	                  b.check_in_date, b.check_out_date, b.total_guests, b.total_price, b.status
	           FROM bookings b
	           JOIN properties p ON p.id = b.property_id
	           WHERE b.guest_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trips := make([]TripDetail, 0)
	for rows.Next() {
		var t TripDetail
		var in, out time.Time
		if err := rows.Scan(&t.BookingID, &t.PropertyID, &t.PropertyTitle, &t.City, &t.Country,
			&in, &out, &t.TotalGuests, &t.TotalPrice, &t.Status); err != nil {
			return nil, err
		}
		t.CheckInDate = in.Format(dateLayout)
		t.CheckOutDate = out.Format(dateLayout)
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// HostBookingDetail is the host-facing view of an incoming booking: the
// stay plus the guest who booked it and the listing it lands on.
type HostBookingDetail struct {
	BookingID      uint64  `json:"bookingId"`
	PropertyID     uint64  `json:"propertyId"`
	PropertyTitle  string  `json:"propertyTitle"`
	GuestID        uint64  `json:"guestId"`
	GuestFirstName string  `json:"guestFirstName"`
	GuestLastName  string  `json:"guestLastName"`
	CheckInDate    string  `json:"checkInDate"`
	CheckOutDate   string  `json:"checkOutDate"`
	TotalGuests    uint32  `json:"totalGuests"`
	TotalPrice     float64 `json:"totalPrice"`
	Status         string  `json:"status"`
}

// ListByHost returns every booking made against any of the host's
// listings, newest first.
func (r *BookingRepo) ListByHost(ctx context.Context, hostID uint64) ([]HostBookingDetail, error) {
	const q = `SELECT b.id, b.property_id, p.title, b.guest_id, u.first_name, u.last_name,
	                  b.check_in_date, b.check_out_date, b.total_guests, b.total_price, b.status
	           FROM bookings b
	           JOIN properties p ON p.id = b.property_id
	           JOIN users u ON u.id = b.guest_id
	           WHERE p.host_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]HostBookingDetail, 0)
	for rows.Next() {
		var d HostBookingDetail
		var in, out time.Time
		if err := rows.Scan(&d.BookingID, &d.PropertyID, &d.PropertyTitle, &d.GuestID,
			&d.GuestFirstName, &d.GuestLastName, &in, &out,
			&d.TotalGuests, &d.TotalPrice, &d.Status); err != nil {
			return nil, err
		}
		d.CheckInDate = in.Format(dateLayout)
		d.CheckOutDate = out.Format(dateLayout)
		items = append(items, d)
	}
	return items, rows.Err()
}

// MarkCompleted transitions confirmed bookings whose check-out date has
// passed into the completed state and returns how many rows changed. The
// comparison is against the current UTC date, so a stay becomes completed
// on the morning of its check-out day.
func (r *BookingRepo) MarkCompleted(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE status = ? AND check_out_date <= UTC_DATE()`,
		model.BookingCompleted, model.BookingConfirmed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CompletedBookingID returns the most recent completed booking this guest
// has for the property, or ErrBookingNotFound when none exists. Completed
// statuses are swept inline first so eligibility never waits on the
// background sweeper.
func (r *BookingRepo) CompletedBookingID(ctx context.Context, guestID, propertyID uint64) (uint64, error) {
	if _, err := r.MarkCompleted(ctx); err != nil {
		return 0, err
	}
	const q = `SELECT id FROM bookings
	           WHERE guest_id = ? AND property_id = ? AND status = ?
	           ORDER BY check_out_date DESC LIMIT 1`
	var id uint64
	err := r.db.QueryRowContext(ctx, q, guestID, propertyID, model.BookingCompleted).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrBookingNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// VerifyCompleted checks that a booking exists, targets the given property,
// belongs to the guest and has reached the completed state. It returns
// ErrBookingNotFound when no such booking (or property pairing) exists and
// ErrForbidden when the booking belongs to another guest. A
// confirmed-but-not-finished stay also reports ErrBookingNotFound: the
// guest is not eligible yet.
func (r *BookingRepo) VerifyCompleted(ctx context.Context, bookingID, guestID, propertyID uint64) error {
	if _, err := r.MarkCompleted(ctx); err != nil {
		return err
	}
	const q = `SELECT guest_id, status FROM bookings WHERE id = ? AND property_id = ?`
	var owner uint64
	var status string
	err := r.db.QueryRowContext(ctx, q, bookingID, propertyID).Scan(&owner, &status)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if owner != guestID {
		return ErrForbidden
	}
	if status != model.BookingCompleted {
		return ErrBookingNotFound
	}
	return nil
}

// RunCompletionSweeper periodically marks finished stays as completed so
// review eligibility stays current even for guests who never hit the
// eligibility endpoint. It never returns; run it on its own goroutine.
func RunCompletionSweeper(repo *BookingRepo) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := repo.MarkCompleted(ctx)
		cancel()
		if err != nil {
			log.Printf("completion-sweeper: %v", err)
		} else if n > 0 {
			log.Printf("completion-sweeper: marked %d bookings completed", n)
		}
		<-ticker.C
	}
}
