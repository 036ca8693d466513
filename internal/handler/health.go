package handler

import (
	"net/http" // http status codes

	"github.com/labstack/echo/v4"
)

// Health responds with a simple status payload so load balancers can probe the service.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
