package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/service"
	"github.com/yourorg/trading-dashboard/internal/session"
	"github.com/yourorg/trading-dashboard/internal/utils"
	"github.com/yourorg/trading-dashboard/internal/view"
)

// PageHandler renders the dashboard pages
type PageHandler struct {
	dashboard *service.DashboardService
	signals   *service.SignalService
	videos    *service.VideoService
	users     *service.UserService
	settings  *service.SettingsService
	logger    *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	dashboard *service.DashboardService,
	signals *service.SignalService,
	videos *service.VideoService,
	users *service.UserService,
	settings *service.SettingsService,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		dashboard: dashboard,
		signals:   signals,
		videos:    videos,
		users:     users,
		settings:  settings,
		logger:    logger,
	}
}

// Dashboard handles GET /
func (h *PageHandler) Dashboard(c *gin.Context) {
	overview := h.dashboard.Overview(c.Request.Context())
	c.HTML(http.StatusOK, "dashboard.html",
		view.NewDashboardPage(session.From(c), overview.Sessions, overview.Signals, overview.Videos))
}

// Performance handles GET /performance
func (h *PageHandler) Performance(c *gin.Context) {
	sessions, _ := h.dashboard.Sessions(c.Request.Context())
	c.HTML(http.StatusOK, "performance.html", view.NewPerformancePage(session.From(c), sessions))
}

// Market handles GET /market
func (h *PageHandler) Market(c *gin.Context) {
	signals := h.signals.Recent(c.Request.Context())
	page := view.NewMarketPage(session.From(c), signals, utils.SearchTerm(c))
	page.Busy = h.signals.Busy()
	c.HTML(http.StatusOK, "market.html", page)
}

// GenerateSignal handles POST /market/signals. Generation failures are
// logged by the service and the user lands back on the unchanged list.
func (h *PageHandler) GenerateSignal(c *gin.Context) {
	var request model.SignalCreate
	_ = c.ShouldBind(&request)

	_, err := h.signals.Generate(c.Request.Context(), request.Symbol)
	switch {
	case errors.Is(err, service.ErrGenerationInProgress):
		page := view.NewMarketPage(session.From(c), h.signals.Recent(c.Request.Context()), "")
		page.Error = "A signal is already being generated. Please wait for it to finish."
		page.Busy = true
		c.HTML(http.StatusConflict, "market.html", page)
		return
	case errors.Is(err, service.ErrEmptySymbol):
		page := view.NewMarketPage(session.From(c), h.signals.Recent(c.Request.Context()), "")
		page.Error = "Enter a symbol to analyze."
		c.HTML(http.StatusBadRequest, "market.html", page)
		return
	}

	c.Redirect(http.StatusSeeOther, "/market")
}

// Content handles GET /content
func (h *PageHandler) Content(c *gin.Context) {
	videos := h.videos.Recent(c.Request.Context())
	page := view.NewContentPage(session.From(c), videos)
	page.Busy = h.videos.Busy()
	c.HTML(http.StatusOK, "content.html", page)
}

// LinkVideo handles POST /content/videos
func (h *PageHandler) LinkVideo(c *gin.Context) {
	var request model.VideoCreate
	_ = c.ShouldBind(&request)

	_, err := h.videos.Link(c.Request.Context(), request.URL)
	switch {
	case errors.Is(err, service.ErrGenerationInProgress):
		page := view.NewContentPage(session.From(c), h.videos.Recent(c.Request.Context()))
		page.Error = "A video is already being processed. Please wait for it to finish."
		page.Busy = true
		c.HTML(http.StatusConflict, "content.html", page)
		return
	case errors.Is(err, service.ErrEmptyURL):
		page := view.NewContentPage(session.From(c), h.videos.Recent(c.Request.Context()))
		page.Error = "Enter a video URL."
		c.HTML(http.StatusBadRequest, "content.html", page)
		return
	case err != nil:
		h.logger.Error("Failed to link video", zap.String("url", request.URL), zap.Error(err))
	}

	c.Redirect(http.StatusSeeOther, "/content")
}

// Settings handles GET /settings
func (h *PageHandler) Settings(c *gin.Context) {
	sess := session.From(c)
	botSettings := h.settings.Get(c.Request.Context(), sess.UserID())
	c.HTML(http.StatusOK, "settings.html", view.NewSettingsPage(sess, botSettings))
}

// SaveSettings handles POST /settings
func (h *PageHandler) SaveSettings(c *gin.Context) {
	sess := session.From(c)
	if !sess.Authenticated() {
		page := view.NewSettingsPage(sess, model.DefaultBotSettings())
		page.Error = "Sign in to save your settings."
		c.HTML(http.StatusUnauthorized, "settings.html", page)
		return
	}

	var submitted model.BotSettings
	if err := c.ShouldBind(&submitted); err != nil {
		page := view.NewSettingsPage(sess, h.settings.Get(c.Request.Context(), sess.UserID()))
		page.Error = "Some values could not be read: " + err.Error()
		c.HTML(http.StatusBadRequest, "settings.html", page)
		return
	}
	submitted.TradingHours = model.TradingHours{
		Start: c.PostForm("trading_hours_start"),
		End:   c.PostForm("trading_hours_end"),
	}

	if err := h.settings.Save(c.Request.Context(), sess.UserID(), submitted); err != nil {
		status := http.StatusInternalServerError
		message := "Failed to save settings."
		if errors.Is(err, service.ErrInvalidSettings) {
			status = http.StatusBadRequest
			message = err.Error()
		} else {
			h.logger.Error("Failed to save settings", zap.String("user_id", sess.UserID()), zap.Error(err))
		}

		page := view.NewSettingsPage(sess, submitted)
		page.Error = message
		c.HTML(status, "settings.html", page)
		return
	}

	page := view.NewSettingsPage(sess, submitted)
	page.Notice = "Settings saved."
	c.HTML(http.StatusOK, "settings.html", page)
}

// Admin handles GET /admin
func (h *PageHandler) Admin(c *gin.Context) {
	sess := session.From(c)
	if !sess.IsAdmin() {
		c.HTML(http.StatusForbidden, "admin.html", view.NewAdminPage(sess, nil))
		return
	}

	users, err := h.users.ListUsers(c.Request.Context(), "", service.UserListLimit)
	page := view.NewAdminPage(sess, users)
	if err != nil {
		page.Error = "Failed to load users."
	}
	c.HTML(http.StatusOK, "admin.html", page)
}
