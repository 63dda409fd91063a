package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
)

type WaiterCallController struct {
	calls  services.WaiterCallService
	venues services.VenueService
}

func NewWaiterCallController(calls services.WaiterCallService, venues services.VenueService) *WaiterCallController {
	return &WaiterCallController{calls: calls, venues: venues}
}

type waiterCallRequest struct {
	tableRef
	Message string `json:"message" binding:"max=500"`
}

// CallWaiter godoc
// @Summary Call a waiter to the table
// @Tags waiter calls
// @Accept json
// @Produce json
// @Param slug path string true "Venue slug"
// @Param call body waiterCallRequest true "Call"
// @Success 201 {object} models.WaiterCall
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/venue/{slug}/waiter-calls [post]
func (wc *WaiterCallController) CallWaiter(c *gin.Context) {
	var req waiterCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	venue, table, err := req.resolve(wc.venues, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	call, err := wc.calls.CreateCall(venue, table, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, call)
}

type waiterCallStatus struct {
	ID          uint       `json:"id"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// GetStatus godoc
// @Summary Status of a waiter call placed from a table
// @Tags waiter calls
// @Produce json
// @Param slug path string true "Venue slug"
// @Param id path int true "Waiter call ID"
// @Success 200 {object} waiterCallStatus
// @Failure 404 {object} models.APIError
// @Router /api/venue/{slug}/waiter-calls/{id} [get]
func (wc *WaiterCallController) GetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	venue, err := wc.venues.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	call, err := wc.calls.GetCall(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if call.VenueID != venue.ID {
		respondError(c, services.ErrWaiterCallNotFound)
		return
	}
	c.JSON(http.StatusOK, waiterCallStatus{ID: call.ID, Status: call.Status, CompletedAt: call.CompletedAt})
}

// ListPending godoc
// @Summary Pending waiter calls, newest first
// @Tags waiter calls
// @Produce json
// @Param slug path string true "Venue slug"
// @Success 200 {array} models.WaiterCall
// @Security BearerAuth
// @Router /api/user/venue/{slug}/waiter-calls [get]
func (wc *WaiterCallController) ListPending(c *gin.Context) {
	venue, ok := ownedVenue(c)
	if !ok {
		return
	}
	calls, err := wc.calls.ListPending(venue.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calls)
}

// CompleteCall godoc
// @Summary Mark a waiter call as completed
// @Tags waiter calls
// @Produce json
// @Param id path int true "Waiter call ID"
// @Success 200 {object} models.WaiterCall
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/waiter-call/{id} [patch]
func (wc *WaiterCallController) CompleteCall(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	call, err := wc.calls.GetCall(id)
	if err != nil {
		respondError(c, err)
		return
	}
	userID, role := middleware.CurrentUser(c)
	if _, err := wc.venues.AuthorizeByID(call.VenueID, userID, role); err != nil {
		respondError(c, err)
		return
	}
	completed, err := wc.calls.CompleteCall(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, completed)
}
