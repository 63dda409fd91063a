package middleware

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logging.New()

// VenueAccess resolves the :slug route parameter and requires the caller to own
// the venue or be an admin. Must run after OAuth2Auth.
func VenueAccess(venues services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role := CurrentUser(c)
		venue, err := venues.Authorize(c.Param("slug"), userID, role)
		switch {
		case errors.Is(err, services.ErrVenueNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, models.NewAPIError(models.ErrVenueNotFound, "Venue not found"))
			return
		case errors.Is(err, services.ErrForbidden):
			log.WithFields(logrus.Fields{"user_id": userID, "slug": c.Param("slug")}).Warn("Venue access denied")
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "You do not manage this venue"))
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to load venue"))
			return
		}

		c.Set(ContextVenue, venue)
		c.Next()
	}
}
