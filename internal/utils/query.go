package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseLimit reads the "limit" query parameter, falling back to
// defaultLimit when absent or invalid and capping it at maxLimit
func ParseLimit(c *gin.Context, defaultLimit int, maxLimit int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// SearchTerm reads the "q" query parameter, trimmed
func SearchTerm(c *gin.Context) string {
	return strings.TrimSpace(c.Query("q"))
}
