package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// OAuth2Auth validates login and client credentials JWTs and puts the caller's
// identity into the gin context
func OAuth2Auth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := parseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		if err := extractAndSetClaims(c, claims); err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		c.Next()
	}
}

// bearerToken reads the RFC 6750 Bearer token. Browsers cannot set headers on a
// websocket handshake, so upgrade requests may pass it as the access_token query parameter.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if c.IsWebsocket() {
			if token := c.Query("access_token"); token != "" {
				return token, true
			}
		}
		respondWithOAuth2Error(c, http.StatusUnauthorized, "authorization_required",
			"Missing Authorization header. A valid Bearer token is required.")
		return "", false
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_request",
			"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
		return "", false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", "Bearer token is empty")
		return "", false
	}
	return tokenString, true
}

func respondWithOAuth2Error(c *gin.Context, status int, errorCode, description string) {
	c.AbortWithStatusJSON(status, models.OAuth2Error{Error: errorCode, ErrorDescription: description})
}

// parseAndValidateJWT verifies the HMAC signature and the time based claims
func parseAndValidateJWT(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	now := time.Now()
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp == nil {
		return nil, fmt.Errorf("token missing required 'exp' claim")
	}
	if exp.Before(now) {
		return nil, fmt.Errorf("token has expired")
	}
	if iat, err := claims.GetIssuedAt(); err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	} else if iat != nil && iat.After(now.Add(time.Minute)) {
		return nil, fmt.Errorf("token issued in the future")
	}
	return claims, nil
}

// extractAndSetClaims stores userID, userRole, and when present clientID and scopes
func extractAndSetClaims(c *gin.Context, claims jwt.MapClaims) error {
	userID, err := extractUserID(claims)
	if err != nil {
		return err
	}
	if userID == 0 {
		return fmt.Errorf("invalid user identifier: cannot be zero")
	}
	c.Set(ContextUserID, userID)

	role, err := extractRole(claims)
	if err != nil {
		return err
	}
	c.Set(ContextUserRole, role)

	authType := "jwt"
	if aud, ok := claims["aud"].(string); ok && aud != "" {
		c.Set(ContextClientID, aud)
		authType = "oauth2"
	}
	c.Set("auth_type", authType)

	if scope, ok := claims["scope"].(string); ok && scope != "" {
		c.Set("scopes", scope)
	}
	return nil
}

// extractUserID accepts uid as a numeric string or a JSON number
func extractUserID(claims jwt.MapClaims) (uint, error) {
	switch uid := claims["uid"].(type) {
	case string:
		parsed, err := strconv.ParseUint(uid, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid uid claim format: must be a numeric string, got: %s", uid)
		}
		return uint(parsed), nil
	case float64:
		if uid <= 0 {
			return 0, fmt.Errorf("invalid uid claim: must be positive, got: %f", uid)
		}
		return uint(uid), nil
	}
	return 0, fmt.Errorf("token missing required 'uid' claim")
}

func extractRole(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("token missing required 'role' claim")
	}
	if role != models.RoleAdmin && role != models.RoleOwner {
		return "", fmt.Errorf("invalid role '%s'. Allowed roles: admin, owner", role)
	}
	return role, nil
}
