package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
)

// RegisterHost registers host-scoped endpoints.  All routes require a valid
// JWT and the host role.  Hosts manage their listings and can see every
// booking made against them.
func RegisterHost(e *echo.Echo, h *handler.HostHandler, jwtSecret string) {
	g := e.Group(
		"",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("host"),
	)
	g.POST("/properties", h.CreateProperty)
	g.PATCH("/properties/:id", h.UpdateProperty)
	g.DELETE("/properties/:id", h.DeleteProperty)
	g.GET("/host/properties", h.ListMyProperties)
	g.GET("/host/bookings", h.ListIncomingBookings)
}
