package middleware

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/cart"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionName = "qrmenu_session"
	cartKey     = "cart_id"
)

// Sessions installs the signed cookie session that identifies a customer's cart
func Sessions(secret string) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cart.IdleTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionName, store)
}

// CartSession assigns a cart id to the session on first use. Must run after Sessions.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		id, ok := sess.Get(cartKey).(string)
		if !ok || id == "" {
			id = uuid.New().String()
			sess.Set(cartKey, id)
			if err := sess.Save(); err != nil {
				log.WithError(err).Warn("Failed to save cart session")
			}
		}
		c.Set(ContextCartID, id)
		c.Next()
	}
}
