package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
)

// createReviewReq is the typed request body for POST /reviews. The booking
// ID must come from a check-review-eligibility hit; the store re-verifies it
// anyway, so a fabricated ID cannot produce a review.
type createReviewReq struct {
	PropertyID uint64 `json:"propertyId" validate:"required"`
	BookingID  uint64 `json:"bookingId" validate:"required"`
	Rating     uint8  `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

// CreateReview handles POST /reviews. The referenced booking must exist,
// target the given property, belong to the caller and be completed. One
// review per (booking, guest) pair; a second attempt is 409.
func (h *GuestHandler) CreateReview(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "propertyId, bookingId and a rating between 1 and 5 are required"})
	}

	ctx := c.Request().Context()
	if err := h.Bookings.VerifyCompleted(ctx, req.BookingID, guestID, req.PropertyID); err != nil {
		switch err {
		case repository.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no completed booking found for this property"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "booking belongs to another guest"})
		default:
			c.Logger().Errorf("create review: verify booking: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create review"})
		}
	}

	review := &model.Review{
		GuestID:    guestID,
		PropertyID: req.PropertyID,
		BookingID:  req.BookingID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.Create(ctx, review); err != nil {
		if err == repository.ErrReviewExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "you have already reviewed this booking"})
		}
		c.Logger().Errorf("create review: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create review"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "review created",
		"review": echo.Map{
			"reviewId":   review.ID,
			"propertyId": review.PropertyID,
			"bookingId":  review.BookingID,
			"rating":     review.Rating,
			"comment":    review.Comment,
		},
	})
}
