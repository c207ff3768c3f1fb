package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/pkg/token"
)

const (
	AuthPlayerIDKey = "auth_player_id"
	AuthRoleKey     = "auth_role"
)

// AuthMiddleware validates the bearer token and stores the resolved player
// identity in the request context. Identity is owned by the upstream
// provider; the scoring API only consumes it.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		c.Set(AuthPlayerIDKey, claims.PlayerID)
		c.Set(AuthRoleKey, claims.Role)
		c.Next()
	}
}

// GetPlayerIDFromContext extracts the authenticated player's ID from the context.
func GetPlayerIDFromContext(c *gin.Context) (uuid.UUID, error) {
	playerID, exists := c.Get(AuthPlayerIDKey)
	if !exists {
		return uuid.Nil, errors.New("player ID not found in context")
	}

	pid, ok := playerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("player ID has unexpected type: %T", playerID)
	}

	return pid, nil
}

// GetRoleFromContext extracts the authenticated player's role from the context.
func GetRoleFromContext(c *gin.Context) string {
	role, exists := c.Get(AuthRoleKey)
	if !exists {
		return ""
	}
	r, _ := role.(string)
	return r
}
