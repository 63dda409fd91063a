package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StreamDone is the last data frame of an enrichment stream
const StreamDone = "[DONE]"

type EnrichController struct {
	enrich services.EnrichService
	venues services.VenueService
}

func NewEnrichController(enrich services.EnrichService, venues services.VenueService) *EnrichController {
	return &EnrichController{enrich: enrich, venues: venues}
}

type enrichRequest struct {
	Venue string `json:"venue" binding:"required"`
	services.EnrichRequest
}

// Enrich godoc
// @Summary Generate an item description
// @Description Streams server-sent events whose data frames are text chunks, ending with [DONE]. Premium plans only.
// @Tags ai
// @Accept json
// @Produce text/event-stream
// @Param body body enrichRequest true "Item to describe"
// @Success 200 {string} string "event stream"
// @Failure 403 {object} models.APIError
// @Failure 429 {object} models.APIError "service busy, retry shortly"
// @Failure 502 {object} models.APIError
// @Security BearerAuth
// @Router /api/ai/enrich [post]
func (ec *EnrichController) Enrich(c *gin.Context) {
	var req enrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID, role := middleware.CurrentUser(c)
	venue, err := ec.venues.Authorize(req.Venue, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	// headers are only committed with the first chunk so early failures keep their status
	started := false
	emit := func(chunk string) error {
		if !started {
			started = true
			c.Header("Cache-Control", "no-cache")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
		}
		c.SSEvent("message", chunk)
		c.Writer.Flush()
		return c.Request.Context().Err()
	}

	err = ec.enrich.Enrich(c.Request.Context(), venue, req.EnrichRequest, emit)
	switch {
	case err == nil:
		c.SSEvent("message", StreamDone)
		c.Writer.Flush()
	case c.Request.Context().Err() != nil:
		log.WithFields(logrus.Fields{"venue": venue.Slug}).Debug("Enrichment client went away")
	case !started:
		respondError(c, err)
	default:
		_, apiErr := classify(err)
		c.SSEvent("error", apiErr)
		c.Writer.Flush()
	}
}
