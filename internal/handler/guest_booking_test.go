package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
)

// ---- mock stores -----------------------------------------------------------

type stubPropertyStore struct {
	props map[uint64]*model.Property
}

func (s *stubPropertyStore) GetByID(_ context.Context, id uint64) (*model.Property, error) {
	p, ok := s.props[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	return p, nil
}

// stubBookingStore mimics the transactional admission check in memory: an
// insert fails when any stored booking on the same property overlaps under
// half-open interval semantics.
type stubBookingStore struct {
	bookings []model.Booking
	nextID   uint64
}

func (s *stubBookingStore) Create(_ context.Context, b *model.Booking) error {
	for _, ex := range s.bookings {
		if ex.PropertyID == b.PropertyID &&
			model.RangesOverlap(ex.CheckIn, ex.CheckOut, b.CheckIn, b.CheckOut) {
			return repository.ErrDatesUnavailable
		}
	}
	s.nextID++
	b.ID = s.nextID
	b.Status = model.BookingConfirmed
	b.CreatedAt = time.Now().UTC()
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *stubBookingStore) ListByGuest(_ context.Context, guestID uint64) ([]repository.TripDetail, error) {
	trips := make([]repository.TripDetail, 0)
	for _, b := range s.bookings {
		if b.GuestID != guestID {
			continue
		}
		trips = append(trips, repository.TripDetail{
			BookingID:    b.ID,
			PropertyID:   b.PropertyID,
			CheckInDate:  b.CheckIn.Format("2006-01-02"),
			CheckOutDate: b.CheckOut.Format("2006-01-02"),
			TotalGuests:  b.TotalGuests,
			TotalPrice:   b.TotalPrice,
			Status:       b.Status,
		})
	}
	return trips, nil
}

func (s *stubBookingStore) CompletedBookingID(_ context.Context, guestID, propertyID uint64) (uint64, error) {
	var found uint64
	for _, b := range s.bookings {
		if b.GuestID == guestID && b.PropertyID == propertyID && b.Status == model.BookingCompleted {
			found = b.ID
		}
	}
	if found == 0 {
		return 0, repository.ErrBookingNotFound
	}
	return found, nil
}

func (s *stubBookingStore) VerifyCompleted(_ context.Context, bookingID, guestID, propertyID uint64) error {
	for _, b := range s.bookings {
		if b.ID != bookingID || b.PropertyID != propertyID {
			continue
		}
		if b.GuestID != guestID {
			return repository.ErrForbidden
		}
		if b.Status != model.BookingCompleted {
			return repository.ErrBookingNotFound
		}
		return nil
	}
	return repository.ErrBookingNotFound
}

type stubReviewStore struct {
	seen   map[string]bool
	nextID uint64
}

func (s *stubReviewStore) Create(_ context.Context, rev *model.Review) error {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	key := fmt.Sprintf("%d:%d", rev.BookingID, rev.GuestID)
	if s.seen[key] {
		return repository.ErrReviewExists
	}
	s.seen[key] = true
	s.nextID++
	rev.ID = s.nextID
	rev.CreatedAt = time.Now().UTC()
	return nil
}

// ---- helpers ---------------------------------------------------------------

func newTestHandler() (*GuestHandler, *stubBookingStore) {
	props := &stubPropertyStore{props: map[uint64]*model.Property{
		1: {ID: 1, HostID: 9, Title: "Canal loft", City: "Amsterdam", Country: "NL",
			PricePerNight: 2000, MaxGuests: 4, IsAvailable: true},
	}}
	bookings := &stubBookingStore{}
	return NewGuestHandler(props, bookings, &stubReviewStore{}), bookings
}

func doJSON(h echo.HandlerFunc, method, target, body string, guestID uint64, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", guestID)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

// ---- tests -----------------------------------------------------------------

func TestCreateBookingSuccess(t *testing.T) {
	h, _ := newTestHandler()
	body := `{"propertyId":1,"checkInDate":"2025-06-01","checkOutDate":"2025-06-05","totalGuests":2}`
	rec := doJSON(h.CreateBooking, http.MethodPost, "/bookings", body, 7)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	booking, ok := resp["booking"].(map[string]interface{})
	if !ok {
		t.Fatalf("response missing booking object: %v", resp)
	}
	// 4 nights at 2000 per night
	if got := booking["totalPrice"].(float64); got != 8000 {
		t.Errorf("totalPrice = %v, want 8000", got)
	}
	if got := booking["status"].(string); got != "confirmed" {
		t.Errorf("status = %q, want confirmed", got)
	}
	if booking["bookingId"].(float64) == 0 {
		t.Error("bookingId not assigned")
	}
	if got := booking["guestId"].(float64); got != 7 {
		t.Errorf("guestId = %v, want 7", got)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	h, _ := newTestHandler()
	first := `{"propertyId":1,"checkInDate":"2025-06-01","checkOutDate":"2025-06-05","totalGuests":2}`
	if rec := doJSON(h.CreateBooking, http.MethodPost, "/bookings", first, 7); rec.Code != http.StatusCreated {
		t.Fatalf("first booking: expected 201, got %d", rec.Code)
	}

	// overlapping request from another guest must be rejected
	second := `{"propertyId":1,"checkInDate":"2025-06-03","checkOutDate":"2025-06-08","totalGuests":2}`
	rec := doJSON(h.CreateBooking, http.MethodPost, "/bookings", second, 8)
	if rec.Code != http.StatusConflict {
		t.Fatalf("overlapping booking: expected 409, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestCreateBookingTouchingRangesBothSucceed(t *testing.T) {
	h, _ := newTestHandler()
	first := `{"propertyId":1,"checkInDate":"2025-06-01","checkOutDate":"2025-06-05","totalGuests":2}`
	if rec := doJSON(h.CreateBooking, http.MethodPost, "/bookings", first, 7); rec.Code != http.StatusCreated {
		t.Fatalf("first booking: expected 201, got %d", rec.Code)
	}
	// checks in on the day the first stay checks out
	second := `{"propertyId":1,"checkInDate":"2025-06-05","checkOutDate":"2025-06-08","totalGuests":2}`
	if rec := doJSON(h.CreateBooking, http.MethodPost, "/bookings", second, 8); rec.Code != http.StatusCreated {
		t.Fatalf("touching booking: expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestCreateBookingValidation(t *testing.T) {
	h, _ := newTestHandler()
	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing fields", `{"propertyId":1}`, http.StatusBadRequest},
		{"garbage date", `{"propertyId":1,"checkInDate":"June 1st","checkOutDate":"2025-06-05","totalGuests":2}`, http.StatusBadRequest},
		{"checkout equals checkin", `{"propertyId":1,"checkInDate":"2025-06-05","checkOutDate":"2025-06-05","totalGuests":2}`, http.StatusBadRequest},
		{"checkout before checkin", `{"propertyId":1,"checkInDate":"2025-06-05","checkOutDate":"2025-06-01","totalGuests":2}`, http.StatusBadRequest},
		{"too many guests", `{"propertyId":1,"checkInDate":"2025-06-01","checkOutDate":"2025-06-05","totalGuests":9}`, http.StatusBadRequest},
		{"zero guests", `{"propertyId":1,"checkInDate":"2025-06-01","checkOutDate":"2025-06-05","totalGuests":0}`, http.StatusBadRequest},
		{"unknown property", `{"propertyId":42,"checkInDate":"2025-06-01","checkOutDate":"2025-06-05","totalGuests":2}`, http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := doJSON(h.CreateBooking, http.MethodPost, "/bookings", c.body, 7)
			if rec.Code != c.code {
				t.Fatalf("expected %d, got %d (body %s)", c.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateBookingIgnoresClientPrice(t *testing.T) {
	h, _ := newTestHandler()
	// a totalPrice in the body must not survive; the server reprices
	body := `{"propertyId":1,"checkInDate":"2025-06-01","checkOutDate":"2025-06-04","totalGuests":2,"totalPrice":1}`
	rec := doJSON(h.CreateBooking, http.MethodPost, "/bookings", body, 7)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	booking := decodeBody(t, rec)["booking"].(map[string]interface{})
	if got := booking["totalPrice"].(float64); got != 6000 {
		t.Fatalf("totalPrice = %v, want 6000 (3 nights at 2000)", got)
	}
}

func TestListTrips(t *testing.T) {
	h, _ := newTestHandler()
	body := `{"propertyId":1,"checkInDate":"2025-06-01","checkOutDate":"2025-06-05","totalGuests":2}`
	if rec := doJSON(h.CreateBooking, http.MethodPost, "/bookings", body, 7); rec.Code != http.StatusCreated {
		t.Fatalf("seed booking: expected 201, got %d", rec.Code)
	}

	rec := doJSON(h.ListTrips, http.MethodGet, "/bookings/my-trips", "", 7)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items := decodeBody(t, rec)["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(items))
	}

	// another guest sees an empty list, not an error
	rec = doJSON(h.ListTrips, http.MethodGet, "/bookings/my-trips", "", 8)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for guest without trips, got %d", rec.Code)
	}
	if items := decodeBody(t, rec)["items"].([]interface{}); len(items) != 0 {
		t.Fatalf("expected no trips, got %d", len(items))
	}
}

func TestCheckReviewEligibility(t *testing.T) {
	h, bookings := newTestHandler()
	bookings.bookings = append(bookings.bookings, model.Booking{
		ID: 11, GuestID: 7, PropertyID: 1,
		CheckIn:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC),
		Status:   model.BookingCompleted,
	})

	rec := doJSON(h.CheckReviewEligibility, http.MethodGet, "/bookings/check-review-eligibility/1", "", 7, "propertyId", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["bookingId"].(float64); got != 11 {
		t.Fatalf("bookingId = %v, want 11", got)
	}

	// guest without a completed stay gets a plain 404
	rec = doJSON(h.CheckReviewEligibility, http.MethodGet, "/bookings/check-review-eligibility/1", "", 8, "propertyId", "1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	// a confirmed but unfinished stay is not eligible
	bookings.bookings = append(bookings.bookings, model.Booking{
		ID: 12, GuestID: 8, PropertyID: 1, Status: model.BookingConfirmed,
	})
	rec = doJSON(h.CheckReviewEligibility, http.MethodGet, "/bookings/check-review-eligibility/1", "", 8, "propertyId", "1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unfinished stay, got %d", rec.Code)
	}
}

func TestCreateReview(t *testing.T) {
	h, bookings := newTestHandler()
	bookings.bookings = append(bookings.bookings,
		model.Booking{ID: 11, GuestID: 7, PropertyID: 1, Status: model.BookingCompleted},
		model.Booking{ID: 12, GuestID: 7, PropertyID: 1, Status: model.BookingConfirmed},
	)

	ok := `{"propertyId":1,"bookingId":11,"rating":5,"comment":"great stay"}`
	rec := doJSON(h.CreateReview, http.MethodPost, "/reviews", ok, 7)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}

	// same booking reviewed twice
	rec = doJSON(h.CreateReview, http.MethodPost, "/reviews", ok, 7)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate review: expected 409, got %d", rec.Code)
	}

	// someone else's booking
	rec = doJSON(h.CreateReview, http.MethodPost, "/reviews", ok, 8)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign booking: expected 403, got %d", rec.Code)
	}

	// booking not completed yet
	notDone := `{"propertyId":1,"bookingId":12,"rating":4,"comment":"too early"}`
	rec = doJSON(h.CreateReview, http.MethodPost, "/reviews", notDone, 7)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unfinished booking: expected 404, got %d", rec.Code)
	}

	// rating out of range
	badRating := `{"propertyId":1,"bookingId":11,"rating":6,"comment":"x"}`
	rec = doJSON(h.CreateReview, http.MethodPost, "/reviews", badRating, 7)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad rating: expected 400, got %d", rec.Code)
	}
}
