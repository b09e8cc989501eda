// Package session carries the resolved current user through a request.
package session

import (
	"github.com/gin-gonic/gin"

	"github.com/yourorg/trading-dashboard/internal/model"
)

const contextKey = "session"

// Context is the current viewer. The zero value is an anonymous viewer with
// no privileges.
type Context struct {
	User *model.User
}

// Anonymous is the least-privileged session
var Anonymous = Context{}

func (s Context) Authenticated() bool {
	return s.User != nil
}

func (s Context) IsAdmin() bool {
	return s.User.IsAdmin()
}

// UserID returns the viewer's id, empty when anonymous
func (s Context) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// DisplayName returns the viewer's full name, falling back to the email
func (s Context) DisplayName() string {
	if s.User == nil {
		return ""
	}
	if s.User.FullName != "" {
		return s.User.FullName
	}
	return s.User.Email
}

// Set stores the session on the gin context
func Set(c *gin.Context, sess Context) {
	c.Set(contextKey, sess)
}

// From returns the session stored on the gin context, or Anonymous
func From(c *gin.Context) Context {
	if value, exists := c.Get(contextKey); exists {
		if sess, ok := value.(Context); ok {
			return sess
		}
	}
	return Anonymous
}
