package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
)

// RegisterGuest registers guest-scoped endpoints.  All routes require a
// valid JWT and the guest role.  Guests can book stays, list their trips,
// check whether a completed stay makes them review-eligible and leave
// reviews.
func RegisterGuest(e *echo.Echo, h *handler.GuestHandler, jwtSecret string) {
	g := e.Group(
		"",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("guest"),
	)
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings/my-trips", h.ListTrips)
	g.GET("/bookings/check-review-eligibility/:propertyId", h.CheckReviewEligibility)
	g.POST("/reviews", h.CreateReview)
}
