package service

import (
	"context"
	"errors"
)

// List sizes used when reading back collections
const (
	SignalListLimit  = 20
	VideoListLimit   = 50
	SessionListLimit = 50
	UserListLimit    = 100
)

var (
	ErrEmptySymbol          = errors.New("symbol is required")
	ErrEmptyURL             = errors.New("video url is required")
	ErrGenerationInProgress = errors.New("a generation is already in progress")
)

// CacheFlusher drops cached list responses after a write
type CacheFlusher interface {
	Flush(ctx context.Context) error
}

// NopFlusher is used when no response cache is configured
type NopFlusher struct{}

func (NopFlusher) Flush(context.Context) error { return nil }
