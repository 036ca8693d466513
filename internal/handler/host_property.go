package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
)

// HostHandler serves the host-facing endpoints: managing listings and
// watching bookings coming in against them.
type HostHandler struct {
	Properties *repository.PropertyRepo
	Bookings   *repository.BookingRepo
}

func NewHostHandler(properties *repository.PropertyRepo, bookings *repository.BookingRepo) *HostHandler {
	return &HostHandler{Properties: properties, Bookings: bookings}
}

type createPropertyReq struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Description   string  `json:"description" validate:"required"`
	City          string  `json:"city" validate:"required,max=100"`
	Country       string  `json:"country" validate:"required,max=100"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0"`
	MaxGuests     uint32  `json:"maxGuests" validate:"required,min=1"`
}

// updatePropertyReq mirrors model.PropertyPatch on the wire: only the fields
// present in the body are applied.
type updatePropertyReq struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	City          *string  `json:"city"`
	Country       *string  `json:"country"`
	PricePerNight *float64 `json:"pricePerNight"`
	MaxGuests     *uint32  `json:"maxGuests"`
	IsAvailable   *bool    `json:"isAvailable"`
}

// propertyResp is the wire shape of a listing for host and public responses.
type propertyResp struct {
	PropertyID    uint64  `json:"propertyId"`
	HostID        uint64  `json:"hostId"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	City          string  `json:"city"`
	Country       string  `json:"country"`
	PricePerNight float64 `json:"pricePerNight"`
	MaxGuests     uint32  `json:"maxGuests"`
	IsAvailable   bool    `json:"isAvailable"`
}

func toPropertyResp(p *model.Property) propertyResp {
	return propertyResp{
		PropertyID:    p.ID,
		HostID:        p.HostID,
		Title:         p.Title,
		Description:   p.Description,
		City:          p.City,
		Country:       p.Country,
		PricePerNight: p.PricePerNight,
		MaxGuests:     p.MaxGuests,
		IsAvailable:   p.IsAvailable,
	}
}

// CreateProperty handles POST /properties.
func (h *HostHandler) CreateProperty(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req createPropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, description, city, country, a positive pricePerNight and maxGuests >= 1 are required"})
	}

	p := &model.Property{
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		Country:       req.Country,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
	}
	if err := h.Properties.Create(c.Request().Context(), p); err != nil {
		c.Logger().Errorf("create property: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create property"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "property created",
		"property": toPropertyResp(p),
	})
}

// UpdateProperty handles PATCH /properties/:id. Only the fields present in
// the body change; unknown keys are ignored by the typed bind.
func (h *HostHandler) UpdateProperty(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	var req updatePropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.PricePerNight != nil && *req.PricePerNight <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pricePerNight must be positive"})
	}
	if req.MaxGuests != nil && *req.MaxGuests < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "maxGuests must be at least 1"})
	}

	patch := model.PropertyPatch{
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		Country:       req.Country,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
		IsAvailable:   req.IsAvailable,
	}
	updated, err := h.Properties.ApplyPatch(c.Request().Context(), id, hostID, patch)
	if err != nil {
		switch err {
		case repository.ErrPropertyNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "property belongs to another host"})
		default:
			c.Logger().Errorf("update property: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update property"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "property updated",
		"property": toPropertyResp(updated),
	})
}

// DeleteProperty handles DELETE /properties/:id.
func (h *HostHandler) DeleteProperty(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	if err := h.Properties.DeleteByIDAndHost(c.Request().Context(), id, hostID); err != nil {
		switch err {
		case repository.ErrPropertyNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "property belongs to another host"})
		default:
			c.Logger().Errorf("delete property: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete property"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyProperties handles GET /host/properties, including unavailable
// listings so hosts can see what they have toggled off.
func (h *HostHandler) ListMyProperties(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	props, err := h.Properties.ListByHost(c.Request().Context(), hostID)
	if err != nil {
		c.Logger().Errorf("list host properties: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load properties"})
	}
	items := make([]propertyResp, 0, len(props))
	for i := range props {
		items = append(items, toPropertyResp(&props[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListIncomingBookings handles GET /host/bookings: every booking made
// against any of the host's listings.
func (h *HostHandler) ListIncomingBookings(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	items, err := h.Bookings.ListByHost(c.Request().Context(), hostID)
	if err != nil {
		c.Logger().Errorf("list host bookings: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
