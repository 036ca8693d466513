package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/property-rental/internal/model"
)

// ErrReviewExists is returned when a guest tries to review the same
// booking twice. The UNIQUE(booking_id, guest_id) index enforces the
// constraint; this sentinel translates the duplicate-key failure.
var ErrReviewExists = errors.New("review already exists for this booking")

// ReviewRepo manages persistence for reviews.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo constructs a ReviewRepo with the given DB handle.
func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create inserts a review and assigns the generated ID and creation
// timestamp back to the struct. A duplicate (booking, guest) pair yields
// ErrReviewExists.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	const q = `INSERT INTO reviews (guest_id, property_id, booking_id, rating, comment)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rev.GuestID, rev.PropertyID, rev.BookingID, rev.Rating, rev.Comment)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrReviewExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	const sel = `SELECT created_at FROM reviews WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, rev.ID).Scan(&rev.CreatedAt)
}

// PropertyReview is the public projection of a review: rating, comment and
// the reviewer's first name.
type PropertyReview struct {
	ReviewID       uint64 `json:"reviewId"`
	Rating         uint8  `json:"rating"`
	Comment        string `json:"comment"`
	GuestFirstName string `json:"guestFirstName"`
	CreatedAt      string `json:"createdAt"`
}

// ListByProperty returns all reviews for a listing, newest first.
func (r *ReviewRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]PropertyReview, error) {
	const q = `SELECT r.id, r.rating, r.comment, u.first_name, r.created_at
	           FROM reviews r
	           JOIN users u ON u.id = r.guest_id
	           WHERE r.property_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]PropertyReview, 0)
	for rows.Next() {
		var pr PropertyReview
		var created sql.NullTime
		if err := rows.Scan(&pr.ReviewID, &pr.Rating, &pr.Comment, &pr.GuestFirstName, &created); err != nil {
			return nil, err
		}
		if created.Valid {
			pr.CreatedAt = created.Time.UTC().Format("2006-01-02 15:04:05")
		}
		items = append(items, pr)
	}
	return items, rows.Err()
}
