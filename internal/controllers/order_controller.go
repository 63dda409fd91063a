package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
)

// OrderController handles order placement and the kitchen status workflow
type OrderController struct {
	orders services.OrderService
	venues services.VenueService
}

func NewOrderController(orders services.OrderService, venues services.VenueService) *OrderController {
	return &OrderController{orders: orders, venues: venues}
}

type placeOrderRequest struct {
	tableRef
	Items []services.LineRequest `json:"items" binding:"required,min=1,dive"`
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Totals are computed server-side from the stored menu prices
// @Tags orders
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param order body placeOrderRequest true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/venue/{slug}/orders [post]
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	venue, table, err := req.resolve(oc.venues, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := oc.orders.PlaceOrder(venue, table, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListVenueOrders godoc
// @Summary Orders of a venue, newest first
// @Tags orders
// @Produce json
// @Param slug path string true "Venue slug"
// @Param active query bool false "Hide delivered orders"
// @Success 200 {array} models.Order
// @Security BearerAuth
// @Router /api/user/venue/{slug}/orders [get]
func (oc *OrderController) ListVenueOrders(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	active, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	orders, err := oc.orders.ListOrders(venue.ID, active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus godoc
// @Summary Move an order forward
// @Description Allowed statuses: placed, preparing, ready, delivered. Only forward moves are accepted.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param body body object{status=string} true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/order/{id} [patch]
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	order, err := oc.orders.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	userID, role := middleware.CurrentUser(c)
	if _, err := oc.venues.AuthorizeByID(order.VenueID, userID, role); err != nil {
		respondError(c, err)
		return
	}

	updated, err := oc.orders.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListAllOrders godoc
// @Summary Newest orders across all venues
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum number of orders (default 100)"
// @Success 200 {array} models.Order
// @Security BearerAuth
// @Router /api/admin/orders [get]
func (oc *OrderController) ListAllOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	orders, err := oc.orders.ListRecentOrders(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
