package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/analytics"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/service"
	"github.com/yourorg/trading-dashboard/internal/session"
	"github.com/yourorg/trading-dashboard/internal/utils"
	"github.com/yourorg/trading-dashboard/internal/view"
)

// APIHandler serves the dashboard data as JSON
type APIHandler struct {
	dashboard *service.DashboardService
	signals   *service.SignalService
	videos    *service.VideoService
	users     *service.UserService
	settings  *service.SettingsService
	logger    *zap.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(
	dashboard *service.DashboardService,
	signals *service.SignalService,
	videos *service.VideoService,
	users *service.UserService,
	settings *service.SettingsService,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		dashboard: dashboard,
		signals:   signals,
		videos:    videos,
		users:     users,
		settings:  settings,
		logger:    logger,
	}
}

// Me handles GET /api/v1/me
func (h *APIHandler) Me(c *gin.Context) {
	sess := session.From(c)
	c.JSON(http.StatusOK, gin.H{
		"user":       sess.User,
		"navigation": view.Navigation(sess),
	})
}

// Dashboard handles GET /api/v1/dashboard
func (h *APIHandler) Dashboard(c *gin.Context) {
	overview := h.dashboard.Overview(c.Request.Context())
	if overview.Degraded {
		noStore(c)
	}
	page := view.NewDashboardPage(session.From(c), overview.Sessions, overview.Signals, overview.Videos)

	c.JSON(http.StatusOK, gin.H{
		"stats":   page.Stats,
		"chart":   page.Chart,
		"signals": page.Signals,
		"videos":  page.Videos,
	})
}

// ListSessions handles GET /api/v1/sessions
func (h *APIHandler) ListSessions(c *gin.Context) {
	sessions, err := h.dashboard.Sessions(c.Request.Context())
	if err != nil {
		noStore(c)
	}
	total := analytics.TotalTrades(sessions)

	c.JSON(http.StatusOK, gin.H{
		"sessions": view.SessionRows(sessions),
		"summary": gin.H{
			"total_profit":   analytics.TotalProfit(sessions),
			"total_trades":   total,
			"winning_trades": analytics.WinningTrades(sessions),
			"win_rate":       analytics.WinRate(analytics.WinningTrades(sessions), total),
		},
		"chart": analytics.PerformanceSeries(sessions),
	})
}

// ListSignals handles GET /api/v1/signals
func (h *APIHandler) ListSignals(c *gin.Context) {
	limit := utils.ParseLimit(c, service.SignalListLimit, 100)
	signals, err := h.dashboard.Signals(c.Request.Context(), limit)
	if err != nil {
		noStore(c)
	}

	c.JSON(http.StatusOK, gin.H{
		"signals": analytics.FilterSignalsBySymbol(signals, utils.SearchTerm(c)),
	})
}

// CreateSignal handles POST /api/v1/signals. A failed generation answers
// 200 with generated=false and the current list.
func (h *APIHandler) CreateSignal(c *gin.Context) {
	var request model.SignalCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.signals.Generate(c.Request.Context(), request.Symbol)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{
			"generated": true,
			"signal":    result.Signal,
			"signals":   result.Signals,
		})
	case errors.Is(err, service.ErrEmptySymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGenerationInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"generated": false,
			"signals":   h.signals.Recent(c.Request.Context()),
		})
	}
}

// ListVideos handles GET /api/v1/videos
func (h *APIHandler) ListVideos(c *gin.Context) {
	limit := utils.ParseLimit(c, service.VideoListLimit, 100)
	videos, err := h.dashboard.Videos(c.Request.Context(), limit)
	if err != nil {
		noStore(c)
	}

	c.JSON(http.StatusOK, gin.H{
		"videos": videos,
	})
}

// CreateVideo handles POST /api/v1/videos
func (h *APIHandler) CreateVideo(c *gin.Context) {
	var request model.VideoCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.videos.Link(c.Request.Context(), request.URL)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, result)
	case errors.Is(err, service.ErrEmptyURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGenerationInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Failed to link video", zap.String("url", request.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link video"})
	}
}

// GetSettings handles GET /api/v1/settings
func (h *APIHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Get(c.Request.Context(), session.From(c).UserID()))
}

// UpdateSettings handles PUT /api/v1/settings
func (h *APIHandler) UpdateSettings(c *gin.Context) {
	var request model.BotSettings
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := session.From(c).UserID()
	if err := h.settings.Save(c.Request.Context(), userID, request); err != nil {
		if errors.Is(err, service.ErrInvalidSettings) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to save settings", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListUsers handles GET /api/v1/admin/users
func (h *APIHandler) ListUsers(c *gin.Context) {
	limit := utils.ParseLimit(c, service.UserListLimit, service.UserListLimit)

	users, err := h.users.ListUsers(c.Request.Context(), c.Query("sort"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// noStore marks a response built from a failed read so no cache keeps it
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
