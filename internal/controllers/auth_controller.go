package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/auth"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	userService services.UserService
	jwtSecret   []byte
}

func NewAuthController(userService services.UserService, jwtSecret string) *AuthController {
	return &AuthController{
		userService: userService,
		jwtSecret:   []byte(jwtSecret),
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Register a venue owner
// @Tags auth
// @Accept json
// @Produce json
// @Param user body registerRequest true "Account details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /api/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user := &models.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     models.RoleOwner,
	}
	if err := ac.userService.CreateUser(user); err != nil {
		respondError(c, err)
		return
	}

	log.WithFields(logrus.Fields{"user_id": user.ID}).Info("Owner registered")
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email, "role": user.Role})
}

// Login godoc
// @Summary Log in with email and password
// @Description Returns a Bearer token accepted by every owner and admin endpoint
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := ac.userService.GetUserByEmail(req.Email)
	if err != nil && !errors.Is(err, services.ErrUserNotFound) {
		respondError(c, err)
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "Invalid credentials"))
		return
	}

	token, expiresAt, err := auth.IssueUserToken(ac.jwtSecret, *user, auth.LoginTokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(auth.LoginTokenTTL.Seconds()),
		"expires_at":   expiresAt,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
