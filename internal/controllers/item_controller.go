package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ItemController handles the owner's menu item and category management
type ItemController struct {
	items      services.ItemService
	categories services.CategoryService
}

func NewItemController(items services.ItemService, categories services.CategoryService) *ItemController {
	return &ItemController{items: items, categories: categories}
}

// ListItems godoc
// @Summary All items of a venue, including unavailable ones
// @Tags items
// @Produce json
// @Param slug path string true "Venue slug"
// @Success 200 {array} models.Item
// @Security BearerAuth
// @Router /api/user/venue/{slug}/items [get]
func (ic *ItemController) ListItems(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	items, err := ic.items.ListItems(venue.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get an item
// @Tags items
// @Produce json
// @Param slug path string true "Venue slug"
// @Param id path int true "Item ID"
// @Success 200 {object} models.Item
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/items/{id} [get]
func (ic *ItemController) GetItem(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := ic.items.GetItem(venue.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem godoc
// @Summary Create an item
// @Description Variants carry a price delta, add-ons a non-negative price. Tags: new, vegan, spicy, popular.
// @Tags items
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param item body models.Item true "Item"
// @Success 201 {object} models.Item
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/items [post]
func (ic *ItemController) CreateItem(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrItemInvalidData, err.Error()))
		return
	}
	item.VenueID = venue.ID

	created, err := ic.items.CreateItem(item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateItem godoc
// @Summary Replace an item
// @Description Variants and add-ons in the body replace the stored ones
// @Tags items
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param id path int true "Item ID"
// @Param item body models.Item true "Item"
// @Success 200 {object} models.Item
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/items/{id} [put]
func (ic *ItemController) UpdateItem(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrItemInvalidData, err.Error()))
		return
	}
	item.ID = id
	item.VenueID = venue.ID

	updated, err := ic.items.UpdateItem(item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteItem godoc
// @Summary Delete an item
// @Tags items
// @Param slug path string true "Venue slug"
// @Param id path int true "Item ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/items/{id} [delete]
func (ic *ItemController) DeleteItem(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ic.items.DeleteItem(venue.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type categoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// ListCategories godoc
// @Summary Categories of a venue
// @Tags categories
// @Produce json
// @Param slug path string true "Venue slug"
// @Success 200 {array} models.Category
// @Security BearerAuth
// @Router /api/user/venue/{slug}/categories [get]
func (ic *ItemController) ListCategories(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	categories, err := ic.categories.ListCategories(venue.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param category body categoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/categories [post]
func (ic *ItemController) CreateCategory(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	category, err := ic.categories.CreateCategory(models.Category{VenueID: venue.ID, Name: req.Name, SortOrder: req.SortOrder})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Rename or reorder a category
// @Tags categories
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param id path int true "Category ID"
// @Param category body categoryRequest true "Category"
// @Success 200 {object} models.Category
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/categories/{id} [put]
func (ic *ItemController) UpdateCategory(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	category, err := ic.categories.UpdateCategory(models.Category{ID: id, VenueID: venue.ID, Name: req.Name, SortOrder: req.SortOrder})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete an empty category
// @Tags categories
// @Param slug path string true "Venue slug"
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/venue/{slug}/categories/{id} [delete]
func (ic *ItemController) DeleteCategory(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ic.categories.DeleteCategory(venue.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
