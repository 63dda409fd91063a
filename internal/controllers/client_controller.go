package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ClientController struct {
	clientService services.ClientService
}

func NewClientController(clientService services.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

type createClientRequest struct {
	Name   string `json:"name" binding:"required"`
	Scopes string `json:"scopes"`
}

// CreateClient godoc
// @Summary Create OAuth2 client
// @Description Create a client_credentials client for a dashboard device. The secret is returned once.
// @Tags OAuth2 Clients
// @Accept json
// @Produce json
// @Param client body createClientRequest true "Client details"
// @Success 201 {object} map[string]interface{} "Client created with client_id and client_secret"
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/clients [post]
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID, _ := middleware.CurrentUser(c)
	client, secret, err := cc.clientService.CreateClient(userID, req.Name, req.Scopes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"client_id":     client.ID,
		"client_secret": secret,
		"name":          client.Name,
		"scopes":        client.Scopes,
		"grant_types":   client.GrantTypes,
	})
}

// ListClients godoc
// @Summary List OAuth2 clients
// @Description Get all OAuth2 clients owned by the authenticated user
// @Tags OAuth2 Clients
// @Produce json
// @Success 200 {array} models.OAuthClient
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/clients [get]
func (cc *ClientController) ListClients(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	clients, err := cc.clientService.GetClientsByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// DeleteClient godoc
// @Summary Delete OAuth2 client
// @Tags OAuth2 Clients
// @Param id path string true "Client ID"
// @Success 204 "Client deleted successfully"
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/user/clients/{id} [delete]
func (cc *ClientController) DeleteClient(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	if err := cc.clientService.DeleteClient(c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
