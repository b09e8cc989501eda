package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yourorg/trading-dashboard/internal/session"
)

// RateLimiter keeps one token bucket per client
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
	mu      sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

// Allow checks if a request is allowed for the client
func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	limiter, exists := r.clients[client]
	if !exists {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.clients[client] = limiter
	}
	r.mu.Unlock()

	return limiter.Allow()
}

// RateLimit limits requests per signed-in user, or per client IP for
// anonymous callers
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := session.From(c).UserID()
		if client == "" {
			client = c.ClientIP()
		}

		if !limiter.Allow(client) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
