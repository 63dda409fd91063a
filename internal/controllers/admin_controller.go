package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminController struct {
	venues services.VenueService
}

func NewAdminController(venues services.VenueService) *AdminController {
	return &AdminController{venues: venues}
}

// ListVenues godoc
// @Summary Every venue on the platform
// @Tags admin
// @Produce json
// @Success 200 {array} models.Venue
// @Security BearerAuth
// @Router /api/admin/venues [get]
func (ac *AdminController) ListVenues(c *gin.Context) {
	venues, err := ac.venues.ListVenues()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venues)
}

// SetPlan godoc
// @Summary Change the membership plan of a venue
// @Tags admin
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param body body object{plan=string} true "free or premium"
// @Success 200 {object} models.Venue
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/venues/{slug}/plan [patch]
func (ac *AdminController) SetPlan(c *gin.Context) {
	var req struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	venue, err := ac.venues.SetPlan(c.Param("slug"), req.Plan)
	if err != nil {
		respondError(c, err)
		return
	}
	log.WithFields(logrus.Fields{"venue": venue.Slug, "plan": venue.Plan}).Info("Membership plan changed")
	c.JSON(http.StatusOK, venue)
}
