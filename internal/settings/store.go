// Package settings persists bot settings per user.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// Store loads and saves bot settings keyed by user id
type Store interface {
	// Get returns the stored settings, or the defaults when none were saved
	Get(ctx context.Context, userID string) (model.BotSettings, error)
	Save(ctx context.Context, userID string, settings model.BotSettings) error
}

// RedisStore keeps settings as JSON strings in Redis
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore creates a new Redis-backed settings store
func NewRedisStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (s *RedisStore) key(userID string) string {
	return fmt.Sprintf("%s:settings:%s", s.prefix, userID)
}

func (s *RedisStore) Get(ctx context.Context, userID string) (model.BotSettings, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.DefaultBotSettings(), nil
	}
	if err != nil {
		s.logger.Error("Failed to read settings", zap.String("user_id", userID), zap.Error(err))
		return model.BotSettings{}, fmt.Errorf("read settings: %w", err)
	}

	settings := model.DefaultBotSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.Warn("Stored settings are corrupt, using defaults",
			zap.String("user_id", userID),
			zap.Error(err))
		return model.DefaultBotSettings(), nil
	}
	return settings, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, settings model.BotSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, 0).Err(); err != nil {
		s.logger.Error("Failed to save settings", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// MemoryStore keeps settings in process memory. Used when Redis is disabled.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[string]model.BotSettings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[string]model.BotSettings)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (model.BotSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if settings, ok := s.settings[userID]; ok {
		return settings, nil
	}
	return model.DefaultBotSettings(), nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, settings model.BotSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[userID] = settings
	return nil
}
