package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		target string
		want   int
	}{
		{target: "/signals", want: 20},
		{target: "/signals?limit=5", want: 5},
		{target: "/signals?limit=0", want: 20},
		{target: "/signals?limit=-3", want: 20},
		{target: "/signals?limit=abc", want: 20},
		{target: "/signals?limit=500", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLimit(contextFor(tt.target), 20, 100))
		})
	}
}

func TestSearchTerm(t *testing.T) {
	assert.Equal(t, "btc", SearchTerm(contextFor("/market?q=%20btc%20")))
	assert.Empty(t, SearchTerm(contextFor("/market")))
}
