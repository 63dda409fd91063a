package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret-key-32-characters")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"uid":  "3",
		"role": models.RoleOwner,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", OAuth2Auth(testSecret), func(c *gin.Context) {
		id, role := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role, "auth_type": c.GetString("auth_type")})
	})
	router.GET("/admin", OAuth2Auth(testSecret), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestOAuth2AuthAcceptsValidToken(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":3,"role":"owner","auth_type":"jwt"}`, w.Body.String())
}

func TestOAuth2AuthRejections(t *testing.T) {
	router := authRouter()

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noUID := validClaims()
	delete(noUID, "uid")
	badRole := validClaims()
	badRole["role"] = "user"
	noExp := validClaims()
	delete(noExp, "exp")
	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"basic scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"expired", "Bearer " + signToken(t, expired)},
		{"no uid", "Bearer " + signToken(t, noUID)},
		{"unknown role", "Bearer " + signToken(t, badRole)},
		{"no exp", "Bearer " + signToken(t, noExp)},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestOAuth2AuthWebsocketQueryToken(t *testing.T) {
	router := authRouter()
	token := signToken(t, validClaims())

	req := httptest.NewRequest(http.MethodGet, "/me?access_token="+token, nil)
	req.Header.Set("Connection", "upgrade")
	req.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	plain := httptest.NewRequest(http.MethodGet, "/me?access_token="+token, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, plain)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "query tokens are only read on upgrade requests")
}

func TestRequireRole(t *testing.T) {
	router := authRouter()

	owner := httptest.NewRequest(http.MethodGet, "/admin", nil)
	owner.Header.Set("Authorization", "Bearer "+signToken(t, validClaims()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, owner)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrForbidden)

	adminClaims := validClaims()
	adminClaims["role"] = models.RoleAdmin
	admin := httptest.NewRequest(http.MethodGet, "/admin", nil)
	admin.Header.Set("Authorization", "Bearer "+signToken(t, adminClaims))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, admin)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
