// Package store defines the entity store facade used by the dashboard: a
// generic list/create client per record type plus the current-user lookup.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// Entity names as known by the entity store
const (
	EntityTradingSession = "TradingSession"
	EntityMarketSignal   = "MarketSignal"
	EntityLinkedVideo    = "LinkedVideo"
	EntityUser           = "User"
)

// RecentFirst sorts by creation time, newest first
const RecentFirst = "-created_date"

// ErrUnauthenticated is returned by Me when the caller cannot be identified
var ErrUnauthenticated = errors.New("unauthenticated")

// ListOptions controls ordering and size of a list call
type ListOptions struct {
	Sort  string
	Limit int
}

// Recent returns list options for the newest limit records
func Recent(limit int) ListOptions {
	return ListOptions{Sort: RecentFirst, Limit: limit}
}

// EntityClient lists and creates records of a single entity type
type EntityClient[T any] interface {
	List(ctx context.Context, opts ListOptions) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
}

// UserDirectory is the entity client for users with the current-user lookup
type UserDirectory interface {
	EntityClient[model.User]
	Me(ctx context.Context, token string) (*model.User, error)
}

// Store bundles the entity clients the dashboard reads and writes
type Store struct {
	Sessions EntityClient[model.TradingSession]
	Signals  EntityClient[model.MarketSignal]
	Videos   EntityClient[model.LinkedVideo]
	Users    UserDirectory
}

// Sort is a parsed sort spec
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort parses specs like "-created_date". Fields not in allowed fall
// back to created_date; an empty spec means newest first.
func ParseSort(spec string, allowed map[string]bool) Sort {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Sort{Field: "created_date", Desc: true}
	}

	s := Sort{Field: spec}
	if strings.HasPrefix(spec, "-") {
		s.Desc = true
		s.Field = strings.TrimPrefix(spec, "-")
	} else if strings.HasPrefix(spec, "+") {
		s.Field = strings.TrimPrefix(spec, "+")
	}

	if !allowed[s.Field] {
		s.Field = "created_date"
	}

	return s
}
