package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/analytics"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
)

// DashboardService reads the collections the pages display. Read failures
// are logged and surface as empty lists alongside the error, so callers can
// render the page and still tell a degraded result from a real empty one.
type DashboardService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(s *store.Store, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		store:  s,
		logger: logger,
	}
}

// Overview holds everything the dashboard page needs
type Overview struct {
	Sessions []model.TradingSession
	Signals  []model.MarketSignal
	Videos   []model.LinkedVideo
	// Degraded is set when any of the lists could not be read
	Degraded bool
}

func (s *DashboardService) Overview(ctx context.Context) Overview {
	sessions, sessionsErr := s.Sessions(ctx)
	signals, signalsErr := s.Signals(ctx, SignalListLimit)
	videos, videosErr := s.Videos(ctx, VideoListLimit)

	return Overview{
		Sessions: sessions,
		Signals:  signals,
		Videos:   videos,
		Degraded: sessionsErr != nil || signalsErr != nil || videosErr != nil,
	}
}

// Sessions returns the newest trading sessions and logs stored win rates
// that disagree with the trade counts
func (s *DashboardService) Sessions(ctx context.Context) ([]model.TradingSession, error) {
	sessions, err := s.store.Sessions.List(ctx, store.Recent(SessionListLimit))
	if err != nil {
		s.logger.Error("Failed to load trading sessions", zap.Error(err))
		return []model.TradingSession{}, err
	}

	for _, session := range sessions {
		if drift, drifted := analytics.WinRateDrift(session); drifted {
			s.logger.Warn("Stored win rate disagrees with trade counts",
				zap.String("session_id", session.ID),
				zap.Float64("stored", *session.WinRate),
				zap.Float64("computed", analytics.SessionWinRate(session)),
				zap.Float64("drift", drift))
		}
	}

	return sessions, nil
}

func (s *DashboardService) Signals(ctx context.Context, limit int) ([]model.MarketSignal, error) {
	signals, err := s.store.Signals.List(ctx, store.Recent(limit))
	if err != nil {
		s.logger.Error("Failed to load signals", zap.Error(err))
		return []model.MarketSignal{}, err
	}
	return signals, nil
}

func (s *DashboardService) Videos(ctx context.Context, limit int) ([]model.LinkedVideo, error) {
	videos, err := s.store.Videos.List(ctx, store.Recent(limit))
	if err != nil {
		s.logger.Error("Failed to load videos", zap.Error(err))
		return []model.LinkedVideo{}, err
	}
	return videos, nil
}
