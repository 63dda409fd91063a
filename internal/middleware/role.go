package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the token role is one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
			return
		}

		userRole := c.GetString(ContextUserRole)
		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions", map[string]interface{}{
			"required_roles": roles,
			"user_role":      userRole,
			"user_id":        userID,
		}))
	}
}
