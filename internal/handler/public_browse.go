package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints.
type PublicHandler struct {
	Properties *repository.PropertyRepo
	Reviews    *repository.ReviewRepo
}

func NewPublicHandler(properties *repository.PropertyRepo, reviews *repository.ReviewRepo) *PublicHandler {
	return &PublicHandler{Properties: properties, Reviews: reviews}
}

// ListProperties handles GET /properties: all available listings with the
// host's display name, newest first. This is the endpoint the response
// cache sits in front of.
func (h *PublicHandler) ListProperties(c echo.Context) error {
	cards, err := h.Properties.ListAvailable(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list properties: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load properties"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cards})
}

// GetProperty handles GET /properties/:id.
func (h *PublicHandler) GetProperty(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	p, err := h.Properties.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrPropertyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		c.Logger().Errorf("get property: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load property"})
	}
	return c.JSON(http.StatusOK, echo.Map{"property": toPropertyResp(p)})
}

// ListPropertyReviews handles GET /properties/:id/reviews.
func (h *PublicHandler) ListPropertyReviews(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	// 404 for a listing that does not exist, empty list for one with no reviews
	if _, err := h.Properties.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrPropertyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		c.Logger().Errorf("get property for reviews: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load reviews"})
	}
	items, err := h.Reviews.ListByProperty(c.Request().Context(), id)
	if err != nil {
		c.Logger().Errorf("list reviews: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load reviews"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
