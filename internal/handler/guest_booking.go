// Booking admission lives here: a guest's request is validated, priced from
// the listing's nightly rate, and handed to the store whose transactional
// conflict check decides whether the dates are free. The handler never
// decides availability itself; it only translates store outcomes to HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/queue"
	"github.com/iliyamo/property-rental/internal/repository"
)

// PropertyStore is the slice of the catalog the booking flow needs: a single
// listing's price, capacity and existence.
type PropertyStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Property, error)
}

// BookingStore admits and queries bookings. Create must be atomic with its
// conflict check.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByGuest(ctx context.Context, guestID uint64) ([]repository.TripDetail, error)
	CompletedBookingID(ctx context.Context, guestID, propertyID uint64) (uint64, error)
	VerifyCompleted(ctx context.Context, bookingID, guestID, propertyID uint64) error
}

// ReviewStore persists guest reviews.
type ReviewStore interface {
	Create(ctx context.Context, rev *model.Review) error
}

// GuestHandler serves the guest-facing endpoints: booking a stay, listing
// trips, checking review eligibility and leaving reviews.
type GuestHandler struct {
	Properties PropertyStore
	Bookings   BookingStore
	Reviews    ReviewStore

	// Events, when set, is called after a booking commits. Failures are
	// logged by the publisher and never fail the request.
	Events func(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// NewGuestHandler wires the guest endpoints to their stores.
func NewGuestHandler(properties PropertyStore, bookings BookingStore, reviews ReviewStore) *GuestHandler {
	if properties == nil || bookings == nil || reviews == nil {
		panic("handler: NewGuestHandler requires non-nil stores")
	}
	return &GuestHandler{Properties: properties, Bookings: bookings, Reviews: reviews}
}

// createBookingReq is the typed request body for POST /bookings. Binding
// plus struct validation happens before anything touches the database.
type createBookingReq struct {
	PropertyID   uint64 `json:"propertyId" validate:"required"`
	CheckInDate  string `json:"checkInDate" validate:"required"`
	CheckOutDate string `json:"checkOutDate" validate:"required"`
	TotalGuests  uint32 `json:"totalGuests" validate:"required,gt=0"`
}

// bookingResp is the wire shape of an admitted booking.
type bookingResp struct {
	BookingID    uint64  `json:"bookingId"`
	GuestID      uint64  `json:"guestId"`
	PropertyID   uint64  `json:"propertyId"`
	CheckInDate  string  `json:"checkInDate"`
	CheckOutDate string  `json:"checkOutDate"`
	TotalGuests  uint32  `json:"totalGuests"`
	TotalPrice   float64 `json:"totalPrice"`
	Status       string  `json:"status"`
}

const wireDateLayout = "2006-01-02"

// CreateBooking handles POST /bookings. Validation failures are 400, a
// missing listing is 404 and a date collision is 409. The total price is
// always computed server-side: nights between the dates times the listing's
// nightly rate. Client-supplied prices are never accepted.
func (h *GuestHandler) CreateBooking(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "propertyId, checkInDate, checkOutDate and totalGuests are required"})
	}

	checkIn, err := time.Parse(wireDateLayout, req.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checkInDate, expected YYYY-MM-DD"})
	}
	checkOut, err := time.Parse(wireDateLayout, req.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checkOutDate, expected YYYY-MM-DD"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check-out date must be after check-in date"})
	}

	ctx := c.Request().Context()
	prop, err := h.Properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if err == repository.ErrPropertyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		c.Logger().Errorf("create booking: property lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}
	if req.TotalGuests > prop.MaxGuests {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "totalGuests exceeds the property's maximum capacity"})
	}

	nights := model.Nights(checkIn, checkOut)
	booking := &model.Booking{
		GuestID:     guestID,
		PropertyID:  prop.ID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		TotalGuests: req.TotalGuests,
		TotalPrice:  model.StayTotal(nights, prop.PricePerNight),
	}

	if err := h.Bookings.Create(ctx, booking); err != nil {
		if err == repository.ErrDatesUnavailable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "property is already booked for the selected dates"})
		}
		c.Logger().Errorf("create booking: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}

	resp := bookingResp{
		BookingID:    booking.ID,
		GuestID:      booking.GuestID,
		PropertyID:   booking.PropertyID,
		CheckInDate:  booking.CheckIn.Format(wireDateLayout),
		CheckOutDate: booking.CheckOut.Format(wireDateLayout),
		TotalGuests:  booking.TotalGuests,
		TotalPrice:   booking.TotalPrice,
		Status:       booking.Status,
	}

	if h.Events != nil {
		ev := queue.NewBookingCreatedEvent(booking.ID, booking.GuestID, booking.PropertyID,
			resp.CheckInDate, resp.CheckOutDate, booking.TotalPrice)
		_ = h.Events(ctx, ev) // best effort, publisher logs failures
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booking confirmed",
		"booking": resp,
	})
}

// ListTrips handles GET /bookings/my-trips: the guest's bookings joined with
// the listing each was made against, newest first.
func (h *GuestHandler) ListTrips(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	trips, err := h.Bookings.ListByGuest(c.Request().Context(), guestID)
	if err != nil {
		c.Logger().Errorf("list trips: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load trips"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": trips})
}

// CheckReviewEligibility handles GET /bookings/check-review-eligibility/:propertyId.
// It answers one question: does this guest have a completed stay at the
// property they have not necessarily reviewed yet? A hit returns the booking
// ID to attach the review to; no completed stay is a plain 404.
func (h *GuestHandler) CheckReviewEligibility(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	propertyID, err := pathID(c, "propertyId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	bookingID, err := h.Bookings.CompletedBookingID(c.Request().Context(), guestID, propertyID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no completed booking for this property"})
		}
		c.Logger().Errorf("check eligibility: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not check eligibility"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookingId": bookingID})
}
