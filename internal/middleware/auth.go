package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/trading-dashboard/internal/session"
)

// RequireUser rejects anonymous callers
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.From(c).Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole checks if the user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.From(c)
		if !sess.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if sess.User.Role != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
