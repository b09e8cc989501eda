package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ResponseCache caches successful GET responses in Redis. A nil client
// disables caching.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewResponseCache creates a new response cache
func NewResponseCache(client *redis.Client, ttl time.Duration, prefix string, logger *zap.Logger) *ResponseCache {
	return &ResponseCache{
		client: client,
		ttl:    ttl,
		prefix: prefix + ":cache",
		logger: logger,
	}
}

// Handler serves cached bodies and stores fresh 200 responses
func (rc *ResponseCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc.client == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := rc.key(c.Request.URL.Path, c.Request.URL.RawQuery)

		cachedResponse, err := rc.client.Get(ctx, cacheKey).Bytes()
		if err == nil {
			rc.logger.Debug("Cache hit",
				zap.String("path", c.Request.URL.Path),
				zap.String("cache_key", cacheKey))

			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cachedResponse)
			c.Abort()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.Status() != http.StatusOK ||
			strings.Contains(writer.Header().Get("Cache-Control"), "no-store") {
			return
		}

		if err := rc.client.Set(ctx, cacheKey, writer.body.Bytes(), rc.ttl).Err(); err != nil {
			rc.logger.Error("Failed to set cache",
				zap.Error(err),
				zap.String("cache_key", cacheKey))
			return
		}

		rc.logger.Debug("Cache set",
			zap.String("path", c.Request.URL.Path),
			zap.String("cache_key", cacheKey),
			zap.Duration("duration", rc.ttl))
	}
}

// Flush drops every cached response
func (rc *ResponseCache) Flush(ctx context.Context) error {
	if rc.client == nil {
		return nil
	}

	var keys []string
	iter := rc.client.Scan(ctx, 0, rc.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	return rc.client.Del(ctx, keys...).Err()
}

// responseWriter captures the response body for caching
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (rc *ResponseCache) key(path, query string) string {
	hash := sha256.New()
	io.WriteString(hash, path)
	if query != "" {
		io.WriteString(hash, "?"+query)
	}
	return rc.prefix + ":" + hex.EncodeToString(hash.Sum(nil))
}
