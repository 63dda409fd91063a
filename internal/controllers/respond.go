package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/cart"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logging.New()

var errTableRequired = errors.New("table or table_token is required")

var errorResponses = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrVenueNotFound, http.StatusNotFound, models.ErrVenueNotFound},
	{services.ErrItemNotFound, http.StatusNotFound, models.ErrItemNotFound},
	{services.ErrCategoryNotFound, http.StatusNotFound, models.ErrCategoryNotFound},
	{services.ErrTableNotFound, http.StatusNotFound, models.ErrTableNotFound},
	{services.ErrSliderNotFound, http.StatusNotFound, models.ErrNotFound},
	{services.ErrOrderNotFound, http.StatusNotFound, models.ErrOrderNotFound},
	{services.ErrWaiterCallNotFound, http.StatusNotFound, models.ErrWaiterCallNotFound},
	{services.ErrReviewNotFound, http.StatusNotFound, models.ErrReviewNotFound},
	{services.ErrClientNotFound, http.StatusNotFound, models.ErrNotFound},
	{services.ErrUserNotFound, http.StatusNotFound, models.ErrNotFound},
	{cart.ErrEntryNotFound, http.StatusNotFound, models.ErrCartEntryNotFound},
	{services.ErrForbidden, http.StatusForbidden, models.ErrForbidden},
	{services.ErrPremiumRequired, http.StatusForbidden, models.ErrPremiumRequired},
	{services.ErrInvalidItem, http.StatusBadRequest, models.ErrItemInvalidData},
	{services.ErrItemUnavailable, http.StatusBadRequest, models.ErrValidationFailed},
	{services.ErrEmptyOrder, http.StatusBadRequest, models.ErrCartEmpty},
	{services.ErrInvalidStatus, http.StatusBadRequest, models.ErrOrderInvalidStatus},
	{services.ErrInvalidRating, http.StatusBadRequest, models.ErrValidationFailed},
	{services.ErrInvalidPlan, http.StatusBadRequest, models.ErrValidationFailed},
	{services.ErrInvalidSlug, http.StatusBadRequest, models.ErrValidationFailed},
	{services.ErrInvalidScope, http.StatusBadRequest, models.ErrValidationFailed},
	{errTableRequired, http.StatusBadRequest, models.ErrValidationFailed},
	{services.ErrInvalidUpload, http.StatusBadRequest, models.ErrUploadInvalid},
	{services.ErrInvalidTransition, http.StatusConflict, models.ErrOrderTransition},
	{services.ErrCategoryNotEmpty, http.StatusConflict, models.ErrConflict},
	{services.ErrUserExists, http.StatusConflict, models.ErrConflict},
	{cart.ErrVenueMismatch, http.StatusConflict, models.ErrConflict},
	{services.ErrAIBusy, http.StatusTooManyRequests, models.ErrAIBusy},
	{services.ErrAIFailed, http.StatusBadGateway, models.ErrAIFailed},
}

// respondError renders a service error as an APIError. Unknown errors are logged and
// hidden behind a 500.
func respondError(c *gin.Context, err error) {
	status, apiErr := classify(err)
	if status == http.StatusInternalServerError {
		log.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Request failed")
	}
	c.JSON(status, apiErr)
}

func classify(err error) (int, models.APIError) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			return r.status, models.NewAPIError(r.code, err.Error())
		}
	}
	return http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error")
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, message))
}

// pathID parses a numeric route parameter, answering 400 when it is malformed
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

// ownedVenue returns the venue resolved by middleware.VenueAccess
func ownedVenue(c *gin.Context) (models.Venue, bool) {
	venue, ok := middleware.CurrentVenue(c)
	if !ok {
		c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Venue access not resolved"))
	}
	return venue, ok
}
