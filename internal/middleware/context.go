package middleware

import (
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/gin-gonic/gin"
)

// Gin context keys
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextClientID = "clientID"
	ContextVenue    = "venue"
	ContextCartID   = "cartID"
)

// CurrentUser returns the authenticated user id and role, zero values when anonymous
func CurrentUser(c *gin.Context) (uint, string) {
	return c.GetUint(ContextUserID), c.GetString(ContextUserRole)
}

// CurrentVenue returns the venue resolved by VenueAccess
func CurrentVenue(c *gin.Context) (models.Venue, bool) {
	v, ok := c.Get(ContextVenue)
	if !ok {
		return models.Venue{}, false
	}
	venue, ok := v.(models.Venue)
	return venue, ok
}
