package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/settings"
)

// ErrInvalidSettings wraps validation failures of submitted bot settings
var ErrInvalidSettings = errors.New("invalid settings")

// SettingsService reads and validates per-user bot settings
type SettingsService struct {
	store    settings.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(store settings.Store, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// Get returns the user's settings. Anonymous viewers get the defaults.
func (s *SettingsService) Get(ctx context.Context, userID string) model.BotSettings {
	if userID == "" {
		return model.DefaultBotSettings()
	}

	botSettings, err := s.store.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load settings, using defaults", zap.String("user_id", userID), zap.Error(err))
		return model.DefaultBotSettings()
	}
	return botSettings
}

// Save validates and stores the user's settings
func (s *SettingsService) Save(ctx context.Context, userID string, botSettings model.BotSettings) error {
	if err := s.validate.Struct(botSettings); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if botSettings.TradingHours.Start >= botSettings.TradingHours.End {
		return fmt.Errorf("%w: trading hours must end after they start", ErrInvalidSettings)
	}

	if err := s.store.Save(ctx, userID, botSettings); err != nil {
		return err
	}

	s.logger.Info("Bot settings saved", zap.String("user_id", userID))
	return nil
}
