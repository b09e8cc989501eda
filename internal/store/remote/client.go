// Package remote implements the entity store against a REST backend-as-a-service.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/config"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
)

// Client handles list and create calls for one entity type
type Client[T any] struct {
	http   *resty.Client
	entity string
	logger *zap.Logger
}

// NewHTTPClient creates the shared resty client for the entity store
func NewHTTPClient(cfg config.ServiceConfig) *resty.Client {
	client := resty.New()
	client.SetBaseURL(cfg.URL)
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-Api-Key", cfg.APIKey)
	}
	return client
}

// NewClient creates an entity client for the named entity
func NewClient[T any](rc *resty.Client, entity string, logger *zap.Logger) *Client[T] {
	return &Client[T]{
		http:   rc,
		entity: entity,
		logger: logger,
	}
}

// List retrieves records using the store's sort and limit parameters
func (c *Client[T]) List(ctx context.Context, opts store.ListOptions) ([]T, error) {
	params := map[string]string{}
	if opts.Sort != "" {
		params["sort"] = opts.Sort
	}
	if opts.Limit > 0 {
		params["limit"] = strconv.Itoa(opts.Limit)
	}

	var records []T
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&records).
		Get(c.path())
	if err != nil {
		c.logger.Error("Failed to list entities", zap.String("entity", c.entity), zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", c.entity, err)
	}

	if resp.IsError() {
		c.logger.Warn("Entity store returned non-2xx status",
			zap.String("entity", c.entity),
			zap.Int("status_code", resp.StatusCode()))
		return nil, fmt.Errorf("list %s: entity store returned status code %d", c.entity, resp.StatusCode())
	}

	if records == nil {
		records = []T{}
	}

	return records, nil
}

// Create stores a record and returns it as persisted, including id and created_date
func (c *Client[T]) Create(ctx context.Context, record T) (T, error) {
	var created T
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(record).
		SetResult(&created).
		Post(c.path())
	if err != nil {
		c.logger.Error("Failed to create entity", zap.String("entity", c.entity), zap.Error(err))
		return created, fmt.Errorf("create %s: %w", c.entity, err)
	}

	if resp.IsError() {
		c.logger.Warn("Entity store rejected create",
			zap.String("entity", c.entity),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()))
		return created, fmt.Errorf("create %s: entity store returned status code %d", c.entity, resp.StatusCode())
	}

	return created, nil
}

func (c *Client[T]) path() string {
	return "/entities/" + c.entity
}

// UserClient is the entity client for users
type UserClient struct {
	*Client[model.User]
}

// NewUserClient creates a user client
func NewUserClient(rc *resty.Client, logger *zap.Logger) *UserClient {
	return &UserClient{Client: NewClient[model.User](rc, store.EntityUser, logger)}
}

// Me returns the user the token belongs to
func (c *UserClient) Me(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, store.ErrUnauthenticated
	}

	var user model.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		Get(c.path() + "/me")
	if err != nil {
		c.logger.Error("Failed to fetch current user", zap.Error(err))
		return nil, fmt.Errorf("fetch current user: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, store.ErrUnauthenticated
	case resp.IsError():
		return nil, fmt.Errorf("fetch current user: entity store returned status code %d", resp.StatusCode())
	}

	return &user, nil
}

// New builds a store backed by the remote entity service
func New(cfg config.ServiceConfig, logger *zap.Logger) *store.Store {
	rc := NewHTTPClient(cfg)
	return &store.Store{
		Sessions: NewClient[model.TradingSession](rc, store.EntityTradingSession, logger),
		Signals:  NewClient[model.MarketSignal](rc, store.EntityMarketSignal, logger),
		Videos:   NewClient[model.LinkedVideo](rc, store.EntityLinkedVideo, logger),
		Users:    NewUserClient(rc, logger),
	}
}
