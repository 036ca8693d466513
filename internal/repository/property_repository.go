// Package repository contains the data access logic for property listings.
// PropertyRepo is the catalog side of the system: hosts create and manage
// rows here, the public browse endpoints read them, and the booking
// admission engine only ever asks it for a single listing's price,
// capacity and availability.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/property-rental/internal/model"
)

// ErrPropertyNotFound indicates that a listing was not located in the DB.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyRepo manages persistence for property listings.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo constructs a PropertyRepo with the given DB handle.
func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

const propertyCols = `id, host_id, title, description, city, country, price_per_night, max_guests, is_available, created_at, updated_at`

func scanProperty(row *sql.Row) (*model.Property, error) {
	var p model.Property
	err := row.Scan(&p.ID, &p.HostID, &p.Title, &p.Description, &p.City, &p.Country,
		&p.PricePerNight, &p.MaxGuests, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new listing and assigns the generated ID back to the
// struct. Status defaults (is_available, timestamps) are read back so the
// caller can return the full row.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	const q = `INSERT INTO properties (host_id, title, description, city, country, price_per_night, max_guests)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.HostID, p.Title, p.Description, p.City, p.Country, p.PricePerNight, p.MaxGuests)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + propertyCols + ` FROM properties WHERE id = ?`
	fresh, err := scanProperty(r.db.QueryRowContext(ctx, sel, p.ID))
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

// GetByID retrieves a listing by its ID. It returns ErrPropertyNotFound if
// there is no matching row.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	const q = `SELECT ` + propertyCols + ` FROM properties WHERE id = ?`
	return scanProperty(r.db.QueryRowContext(ctx, q, id))
}

// PropertyCard is the public browse projection of a listing: the row itself
// plus the host's display name. Unavailable listings never appear here.
type PropertyCard struct {
	ID            uint64  `json:"propertyId"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	City          string  `json:"city"`
	Country       string  `json:"country"`
	PricePerNight float64 `json:"pricePerNight"`
	MaxGuests     uint32  `json:"maxGuests"`
	HostFirstName string  `json:"hostFirstName"`
	HostLastName  string  `json:"hostLastName"`
}

// ListAvailable returns all listings with is_available = TRUE, newest
// first, joined with the owning host's name.
func (r *PropertyRepo) ListAvailable(ctx context.Context) ([]PropertyCard, error) {
	const q = `SELECT p.id, p.title, p.description, p.city, p.country, p.price_per_night, p.max_guests,
	                  u.first_name, u.last_name
	           FROM properties p
	           JOIN users u ON u.id = p.host_id
	           WHERE p.is_available = TRUE
	           ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cards := make([]PropertyCard, 0)
	for rows.Next() {
		var c PropertyCard
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.City, &c.Country,
			&c.PricePerNight, &c.MaxGuests, &c.HostFirstName, &c.HostLastName); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ListByHost returns every listing owned by the given host, including
// unavailable ones, newest first.
func (r *PropertyRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.Property, error) {
	const q = `SELECT ` + propertyCols + ` FROM properties WHERE host_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Property, 0)
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.HostID, &p.Title, &p.Description, &p.City, &p.Country,
			&p.PricePerNight, &p.MaxGuests, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// patchClauses assembles SET fragments and arguments for the fields present
// in the patch, in column order. The clause text comes from the typed patch
// struct only, never from raw request keys.
func patchClauses(patch model.PropertyPatch) ([]string, []interface{}) {
	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.City != nil {
		sets = append(sets, "city = ?")
		args = append(args, *patch.City)
	}
	if patch.Country != nil {
		sets = append(sets, "country = ?")
		args = append(args, *patch.Country)
	}
	if patch.PricePerNight != nil {
		sets = append(sets, "price_per_night = ?")
		args = append(args, *patch.PricePerNight)
	}
	if patch.MaxGuests != nil {
		sets = append(sets, "max_guests = ?")
		args = append(args, *patch.MaxGuests)
	}
	if patch.IsAvailable != nil {
		sets = append(sets, "is_available = ?")
		args = append(args, *patch.IsAvailable)
	}
	return sets, args
}

// ApplyPatch updates only the fields set in the patch. The ownership check
// and the UPDATE run in one transaction with the row locked, so the listing
// the host was shown is the listing that changes. It returns
// ErrPropertyNotFound when the listing does not exist and ErrForbidden when
// it belongs to a different host.
func (r *PropertyRepo) ApplyPatch(ctx context.Context, id, hostID uint64, patch model.PropertyPatch) (*model.Property, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT ` + propertyCols + ` FROM properties WHERE id = ? FOR UPDATE`
	cur, err := scanProperty(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return nil, err
	}
	if cur.HostID != hostID {
		return nil, ErrForbidden
	}

	sets, args := patchClauses(patch)
	if len(sets) > 0 {
		args = append(args, id)
		q := "UPDATE properties SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
		cur, err = scanProperty(tx.QueryRowContext(ctx, `SELECT `+propertyCols+` FROM properties WHERE id = ?`, id))
		if err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return cur, nil
}

// DeleteByIDAndHost removes a listing owned by the given host, with the
// ownership check and the DELETE in one transaction. It returns
// ErrPropertyNotFound when the listing does not exist and ErrForbidden
// when it exists but belongs to someone else.
func (r *PropertyRepo) DeleteByIDAndHost(ctx context.Context, id, hostID uint64) error {
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

	const sel = `SELECT ` + propertyCols + ` FROM properties WHERE id = ? FOR UPDATE`
	cur, err := scanProperty(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return err
	}
	if cur.HostID != hostID {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
