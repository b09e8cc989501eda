package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
)

// UserService handles user listings for the admin panel
type UserService struct {
	users  store.UserDirectory
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users store.UserDirectory, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// ListUsers returns users newest first. sort may name another field, e.g. "email".
func (s *UserService) ListUsers(ctx context.Context, sort string, limit int) ([]model.User, error) {
	if sort == "" {
		sort = store.RecentFirst
	}
	if limit < 1 || limit > UserListLimit {
		limit = UserListLimit
	}

	users, err := s.users.List(ctx, store.ListOptions{Sort: sort, Limit: limit})
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
