// Package seed loads fixture records from YAML into the entity store.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
)

// File is the layout of a seed document
type File struct {
	Users    []model.User           `yaml:"users"`
	Sessions []model.TradingSession `yaml:"sessions"`
	Signals  []model.MarketSignal   `yaml:"signals"`
	Videos   []model.LinkedVideo    `yaml:"videos"`
}

// Counts reports how many records of each kind were created
type Counts struct {
	Users    int
	Sessions int
	Signals  int
	Videos   int
}

// Load decodes a seed document. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file File
	if err := decoder.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &file, nil
}

// LoadFile reads and decodes the seed document at path
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Apply creates every record through the entity store, users first. It
// stops at the first failure and reports what was created until then.
func Apply(ctx context.Context, st *store.Store, file *File, logger *zap.Logger) (Counts, error) {
	var counts Counts

	for _, user := range file.Users {
		if _, err := st.Users.Create(ctx, user); err != nil {
			return counts, fmt.Errorf("create user %q: %w", user.Email, err)
		}
		counts.Users++
	}

	for _, session := range file.Sessions {
		if _, err := st.Sessions.Create(ctx, session); err != nil {
			return counts, fmt.Errorf("create session %q: %w", session.SessionName, err)
		}
		counts.Sessions++
	}

	for _, signal := range file.Signals {
		if signal.ExecutionStatus == "" {
			signal.ExecutionStatus = model.ExecutionPending
		}
		if _, err := st.Signals.Create(ctx, signal); err != nil {
			return counts, fmt.Errorf("create signal %q: %w", signal.Symbol, err)
		}
		counts.Signals++
	}

	for _, video := range file.Videos {
		if _, err := st.Videos.Create(ctx, video); err != nil {
			return counts, fmt.Errorf("create video %q: %w", video.URL, err)
		}
		counts.Videos++
	}

	logger.Info("Seed data applied",
		zap.Int("users", counts.Users),
		zap.Int("sessions", counts.Sessions),
		zap.Int("signals", counts.Signals),
		zap.Int("videos", counts.Videos))

	return counts, nil
}
