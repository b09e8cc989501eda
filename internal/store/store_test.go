package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	allowed := map[string]bool{"created_date": true, "symbol": true}

	tests := []struct {
		spec string
		want Sort
	}{
		{spec: "", want: Sort{Field: "created_date", Desc: true}},
		{spec: "-created_date", want: Sort{Field: "created_date", Desc: true}},
		{spec: "symbol", want: Sort{Field: "symbol"}},
		{spec: "+symbol", want: Sort{Field: "symbol"}},
		{spec: "-password; DROP TABLE users", want: Sort{Field: "created_date", Desc: true}},
		{spec: "unknown", want: Sort{Field: "created_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.spec, allowed))
		})
	}
}

func TestRecent(t *testing.T) {
	assert.Equal(t, ListOptions{Sort: "-created_date", Limit: 20}, Recent(20))
}
