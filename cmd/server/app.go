package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/config"
	"github.com/yourorg/trading-dashboard/internal/events"
	"github.com/yourorg/trading-dashboard/internal/handler"
	"github.com/yourorg/trading-dashboard/internal/llm"
	"github.com/yourorg/trading-dashboard/internal/middleware"
	"github.com/yourorg/trading-dashboard/internal/service"
	"github.com/yourorg/trading-dashboard/internal/settings"
	"github.com/yourorg/trading-dashboard/internal/store"
	"github.com/yourorg/trading-dashboard/internal/store/postgres"
	"github.com/yourorg/trading-dashboard/internal/store/remote"
	"github.com/yourorg/trading-dashboard/internal/trace"
)

// app holds the wired dependencies shared by the server and the CLI commands
type app struct {
	cfg       *config.Config
	store     *store.Store
	db        *sqlx.DB
	redis     *redis.Client
	cache     *middleware.ResponseCache
	limiter   *middleware.RateLimiter
	publisher events.Publisher

	dashboard *service.DashboardService
	signals   *service.SignalService
	videos    *service.VideoService
	users     *service.UserService
	settings  *service.SettingsService

	pages *handler.PageHandler
	api   *handler.APIHandler

	logger *zap.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if err := trace.Init(cfg.Tracing.Enabled, cfg.Tracing.ServiceName); err != nil {
		return nil, err
	}

	st, db, err := buildStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = st
	a.db = db

	if cfg.Redis.Enabled {
		client, err := connectToRedis(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
	}

	// A nil client turns the cache into a pass-through
	a.cache = middleware.NewResponseCache(a.redis, cfg.Redis.CacheTTL, cfg.Redis.KeyPrefix, logger)
	a.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	a.publisher = events.New(cfg.Kafka, logger)

	var settingsStore settings.Store = settings.NewMemoryStore()
	if a.redis != nil {
		settingsStore = settings.NewRedisStore(a.redis, cfg.Redis.KeyPrefix, logger)
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	a.dashboard = service.NewDashboardService(st, logger)
	a.signals = service.NewSignalService(st.Signals, llmClient, a.cache, a.publisher, logger)
	a.videos = service.NewVideoService(st.Videos, llmClient, a.cache, a.publisher, logger)
	a.users = service.NewUserService(st.Users, logger)
	a.settings = service.NewSettingsService(settingsStore, logger)

	a.pages = handler.NewPageHandler(a.dashboard, a.signals, a.videos, a.users, a.settings, logger)
	a.api = handler.NewAPIHandler(a.dashboard, a.signals, a.videos, a.users, a.settings, logger)

	return a, nil
}

// Close releases connections in reverse order of creation
func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(ctx); err != nil {
		a.logger.Warn("Failed to flush traces", zap.Error(err))
	}
}

// buildStore picks the entity store named by store.driver. The returned
// *sqlx.DB is nil for the remote driver.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store.Store, *sqlx.DB, error) {
	switch cfg.Store.Driver {
	case "remote":
		return remote.New(cfg.Store.Remote, logger), nil, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		return postgres.New(db, cfg.Auth.JWTSecret, logger), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// connectToRedis accepts either a redis:// URL or a bare host:port
func connectToRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{Addr: cfg.URL}
	if strings.HasPrefix(cfg.URL, "redis://") || strings.HasPrefix(cfg.URL, "rediss://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
