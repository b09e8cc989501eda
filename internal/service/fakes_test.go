package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/yourorg/trading-dashboard/internal/events"
	"github.com/yourorg/trading-dashboard/internal/llm"
	"github.com/yourorg/trading-dashboard/internal/store"
)

// fakeEntities is an in-memory entity client that returns records newest first
type fakeEntities[T any] struct {
	mu        sync.Mutex
	records   []T
	created   []T
	listOpts  []store.ListOptions
	createErr error
	listErr   error
	// failCreates fails only the first n creates
	failCreates int
	setID       func(*T, string)
}

func (f *fakeEntities[T]) List(_ context.Context, opts store.ListOptions) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listOpts = append(f.listOpts, opts)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]T, 0, len(f.records))
	for i := len(f.records) - 1; i >= 0; i-- {
		out = append(out, f.records[i])
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeEntities[T]) Create(_ context.Context, record T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreates > 0 {
		f.failCreates--
		var zero T
		return zero, fmt.Errorf("entity store unavailable")
	}
	if f.createErr != nil {
		var zero T
		return zero, f.createErr
	}
	if f.setID != nil {
		f.setID(&record, fmt.Sprintf("id-%d", len(f.records)+1))
	}
	f.records = append(f.records, record)
	f.created = append(f.created, record)
	return record, nil
}

// fakeLLM replies with a fixed payload, or blocks until released
type fakeLLM struct {
	reply    string
	err      error
	requests []llm.Request
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeLLM) Invoke(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	f.requests = append(f.requests, req)
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.reply), nil
}

type countingFlusher struct {
	flushes int
	err     error
}

func (c *countingFlusher) Flush(context.Context) error {
	c.flushes++
	return c.err
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }
