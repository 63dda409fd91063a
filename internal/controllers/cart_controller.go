package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/cart"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CartController exposes the session cart of a customer browsing a venue menu
type CartController struct {
	store  *cart.Store
	venues services.VenueService
	items  services.ItemService
	orders services.OrderService
}

func NewCartController(store *cart.Store, venues services.VenueService, items services.ItemService, orders services.OrderService) *CartController {
	return &CartController{store: store, venues: venues, items: items, orders: orders}
}

type addToCartRequest struct {
	ItemID    uint   `json:"item_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
	VariantID *uint  `json:"variant_id"`
	AddonIDs  []uint `json:"addon_ids"`
}

// GetCart godoc
// @Summary Current session cart
// @Tags cart
// @Produce json
// @Param slug path string true "Venue slug"
// @Success 200 {object} cart.Cart
// @Router /api/venue/{slug}/cart [get]
func (cc *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cc.store.Get(c.GetString(middleware.ContextCartID)))
}

// AddToCart godoc
// @Summary Add an item to the cart
// @Description Every add creates a new entry, identical entries are not merged. Quantity below 1 becomes 1.
// @Tags cart
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param entry body addToCartRequest true "Entry"
// @Success 201 {object} cart.Cart
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /api/venue/{slug}/cart [post]
func (cc *CartController) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	venue, err := cc.venues.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	item, err := cc.items.GetItem(venue.ID, req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !item.Available {
		respondError(c, services.ErrItemUnavailable)
		return
	}

	session := c.GetString(middleware.ContextCartID)
	if _, err := cc.store.Add(session, item, req.Quantity, req.Note, req.VariantID, req.AddonIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cc.store.Get(session))
}

// UpdateEntry godoc
// @Summary Change the quantity of a cart entry
// @Tags cart
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param entryId path string true "Entry ID"
// @Param body body object{quantity=int} true "Quantity"
// @Success 200 {object} cart.Cart
// @Failure 404 {object} models.APIError
// @Router /api/venue/{slug}/cart/{entryId} [patch]
func (cc *CartController) UpdateEntry(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	session := c.GetString(middleware.ContextCartID)
	if _, err := cc.store.UpdateQuantity(session, c.Param("entryId"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cc.store.Get(session))
}

// RemoveEntry godoc
// @Summary Remove a cart entry
// @Tags cart
// @Produce json
// @Param slug path string true "Venue slug"
// @Param entryId path string true "Entry ID"
// @Success 200 {object} cart.Cart
// @Failure 404 {object} models.APIError
// @Router /api/venue/{slug}/cart/{entryId} [delete]
func (cc *CartController) RemoveEntry(c *gin.Context) {
	session := c.GetString(middleware.ContextCartID)
	if err := cc.store.Remove(session, c.Param("entryId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cc.store.Get(session))
}

// SetOpen godoc
// @Summary Record whether the cart view is open
// @Tags cart
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param body body object{open=bool} true "Open flag"
// @Success 200 {object} cart.Cart
// @Router /api/venue/{slug}/cart [patch]
func (cc *CartController) SetOpen(c *gin.Context) {
	var req struct {
		Open bool `json:"open"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	session := c.GetString(middleware.ContextCartID)
	cc.store.SetOpen(session, req.Open)
	c.JSON(http.StatusOK, cc.store.Get(session))
}

// Checkout godoc
// @Summary Place the cart as an order
// @Description Prices are recomputed from the stored menu. The cart is cleared only when the order is stored.
// @Tags cart
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param table body tableRef true "Table"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Router /api/venue/{slug}/cart/checkout [post]
func (cc *CartController) Checkout(c *gin.Context) {
	var ref tableRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		badRequest(c, err.Error())
		return
	}
	venue, table, err := ref.resolve(cc.venues, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	session := c.GetString(middleware.ContextCartID)
	current := cc.store.Get(session)
	if len(current.Entries) == 0 {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCartEmpty, "Cart is empty"))
		return
	}
	if current.VenueID != venue.ID {
		respondError(c, cart.ErrVenueMismatch)
		return
	}

	lines := make([]services.LineRequest, 0, len(current.Entries))
	for _, e := range current.Entries {
		lines = append(lines, services.LineRequest{
			ItemID:    e.Item.ID,
			Quantity:  e.Quantity,
			VariantID: e.VariantID,
			AddonIDs:  e.AddonIDs,
			Note:      e.Note,
		})
	}
	order, err := cc.orders.PlaceOrder(venue, table, lines)
	if err != nil {
		respondError(c, err)
		return
	}

	cc.store.Clear(session)
	c.JSON(http.StatusCreated, order)
}
