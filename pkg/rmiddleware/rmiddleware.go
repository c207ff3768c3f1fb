package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gstrickland/tripscore/internal/middleware"
)

// RoleMiddleware restricts a route to callers whose token carries one of the
// required roles. Roles are resolved by the identity provider and arrive in
// the signed claims; this layer never looks identity up itself.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := middleware.GetRoleFromContext(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: no role in token"})
			return
		}

		for _, requiredRole := range requiredRoles {
			if strings.EqualFold(role, requiredRole) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "Forbidden",
			"message":  "You don't have permission to access this resource",
			"required": requiredRoles,
		})
	}
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware("admin")
}

// OrganizerOrAdminMiddleware is a convenience middleware for trip management access
func OrganizerOrAdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware("organizer", "admin")
}
