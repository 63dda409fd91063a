package controllers

import (
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/events"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RealtimeController struct {
	hub *events.Hub
}

func NewRealtimeController(hub *events.Hub) *RealtimeController {
	return &RealtimeController{hub: hub}
}

// Subscribe godoc
// @Summary Live order and waiter call events of a venue
// @Description Websocket. Pass the token as the access_token query parameter when headers cannot be set.
// @Tags realtime
// @Param slug path string true "Venue slug"
// @Success 101
// @Security BearerAuth
// @Router /ws/venue/{slug} [get]
func (rc *RealtimeController) Subscribe(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	if err := rc.hub.Serve(c.Writer, c.Request, venue.Slug); err != nil {
		// the upgrader already answered the handshake
		log.WithFields(logrus.Fields{"venue": venue.Slug, "error": err.Error()}).Warn("Websocket upgrade failed")
	}
}
