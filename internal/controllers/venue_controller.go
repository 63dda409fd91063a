package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// VenueController serves the public menu and the owner's venue and table management
type VenueController struct {
	venues  services.VenueService
	sliders services.SliderService
}

func NewVenueController(venues services.VenueService, sliders services.SliderService) *VenueController {
	return &VenueController{venues: venues, sliders: sliders}
}

// GetMenu godoc
// @Summary Public menu of a venue
// @Description Venue, categories and available items with their variants and add-ons
// @Tags menu
// @Produce json
// @Param slug path string true "Venue slug"
// @Success 200 {object} services.Menu
// @Failure 404 {object} models.APIError
// @Router /api/venue/{slug} [get]
func (vc *VenueController) GetMenu(c *gin.Context) {
	menu, err := vc.venues.GetMenu(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// GetSliders godoc
// @Summary Active promotional sliders of a venue
// @Tags menu
// @Produce json
// @Param slug path string true "Venue slug"
// @Success 200 {array} models.Slider
// @Failure 404 {object} models.APIError
// @Router /api/venue/{slug}/sliders [get]
func (vc *VenueController) GetSliders(c *gin.Context) {
	venue, err := vc.venues.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	sliders, err := vc.sliders.ListSliders(venue.ID, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sliders)
}

// ResolveTable godoc
// @Summary Resolve a QR table token
// @Tags menu
// @Produce json
// @Param slug path string true "Venue slug"
// @Param token path string true "Table token from the QR code"
// @Success 200 {object} models.Table
// @Failure 404 {object} models.APIError
// @Router /api/venue/{slug}/tables/{token} [get]
func (vc *VenueController) ResolveTable(c *gin.Context) {
	_, table, err := vc.venues.ResolveTable(c.Param("slug"), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// ListMyVenues godoc
// @Summary Venues managed by the caller
// @Tags venues
// @Produce json
// @Success 200 {array} models.Venue
// @Security BearerAuth
// @Router /api/user/venues [get]
func (vc *VenueController) ListMyVenues(c *gin.Context) {
	userID, role := middleware.CurrentUser(c)
	var (
		venues []models.Venue
		err    error
	)
	if role == models.RoleAdmin {
		venues, err = vc.venues.ListVenues()
	} else {
		venues, err = vc.venues.ListByOwner(userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venues)
}

type createVenueRequest struct {
	Slug     string `json:"slug" binding:"required,max=64"`
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
}

// CreateVenue godoc
// @Summary Create a venue owned by the caller
// @Tags venues
// @Accept json
// @Produce json
// @Param venue body createVenueRequest true "Venue"
// @Success 201 {object} models.Venue
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venues [post]
func (vc *VenueController) CreateVenue(c *gin.Context) {
	var req createVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID, _ := middleware.CurrentUser(c)
	venue, err := vc.venues.CreateVenue(models.Venue{
		Slug:     req.Slug,
		Name:     req.Name,
		Currency: req.Currency,
		OwnerID:  userID,
		Plan:     models.PlanFree,
		Active:   true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	log.WithFields(logrus.Fields{"venue": venue.Slug, "owner_id": userID}).Info("Venue created")
	c.JSON(http.StatusCreated, venue)
}

// ListTables godoc
// @Summary Tables and their QR tokens
// @Tags venues
// @Produce json
// @Param slug path string true "Venue slug"
// @Success 200 {array} models.Table
// @Security BearerAuth
// @Router /api/user/venue/{slug}/tables [get]
func (vc *VenueController) ListTables(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	tables, err := vc.venues.ListTables(venue.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// CreateTable godoc
// @Summary Add a table and mint its QR token
// @Tags venues
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param table body object{label=string} true "Table"
// @Success 201 {object} models.Table
// @Security BearerAuth
// @Router /api/user/venue/{slug}/tables [post]
func (vc *VenueController) CreateTable(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	var req struct {
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	table, err := vc.venues.CreateTable(venue.ID, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

// ListSliders godoc
// @Summary All sliders of a venue
// @Tags sliders
// @Produce json
// @Param slug path string true "Venue slug"
// @Success 200 {array} models.Slider
// @Security BearerAuth
// @Router /api/user/venue/{slug}/sliders [get]
func (vc *VenueController) ListSliders(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	sliders, err := vc.sliders.ListSliders(venue.ID, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sliders)
}

// CreateSlider godoc
// @Summary Add a promotional slider
// @Tags sliders
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param slider body models.Slider true "Slider"
// @Success 201 {object} models.Slider
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/sliders [post]
func (vc *VenueController) CreateSlider(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	var slider models.Slider
	if err := c.ShouldBindJSON(&slider); err != nil {
		badRequest(c, err.Error())
		return
	}
	slider.VenueID = venue.ID
	created, err := vc.sliders.CreateSlider(slider)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteSlider godoc
// @Summary Delete a slider
// @Tags sliders
// @Param slug path string true "Venue slug"
// @Param id path int true "Slider ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/sliders/{id} [delete]
func (vc *VenueController) DeleteSlider(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := vc.sliders.DeleteSlider(venue.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
