package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/session"
	"github.com/yourorg/trading-dashboard/internal/store"
)

// Session resolves the caller once per request. Any failure leaves the
// request anonymous; it never rejects the request itself.
func Session(users store.UserDirectory, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && cookieName != "" {
			token, _ = c.Cookie(cookieName)
		}

		if token == "" {
			session.Set(c, session.Anonymous)
			c.Next()
			return
		}

		user, err := users.Me(c.Request.Context(), token)
		switch {
		case err == nil && user != nil:
			session.Set(c, session.Context{User: user})
		case errors.Is(err, store.ErrUnauthenticated):
			logger.Debug("Token rejected by user directory")
			session.Set(c, session.Anonymous)
		case err == nil:
			logger.Warn("User directory returned no user for token")
			session.Set(c, session.Anonymous)
		default:
			logger.Warn("Failed to resolve current user", zap.Error(err))
			session.Set(c, session.Anonymous)
		}

		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
