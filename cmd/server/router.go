package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/handler"
	"github.com/yourorg/trading-dashboard/internal/middleware"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/view"
)

func setupRouter(a *app, logger *zap.Logger) (*gin.Engine, error) {
	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	router.SetHTMLTemplate(tmpl)

	// Health check
	router.GET("/health", handler.Health)

	// Every route below sees the viewer's session, anonymous or not
	router.Use(middleware.Session(a.store.Users, a.cfg.Auth.CookieName, logger))

	generate := middleware.RateLimit(a.limiter)

	// Pages
	router.GET("/", a.pages.Dashboard)
	router.GET("/performance", a.pages.Performance)
	router.GET("/market", a.pages.Market)
	router.POST("/market/signals", generate, a.pages.GenerateSignal)
	router.GET("/content", a.pages.Content)
	router.POST("/content/videos", generate, a.pages.LinkVideo)
	router.GET("/settings", a.pages.Settings)
	router.POST("/settings", a.pages.SaveSettings)
	router.GET("/admin", a.pages.Admin)

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/me", a.api.Me)
		v1.GET("/dashboard", a.api.Dashboard)

		cached := v1.Group("")
		cached.Use(a.cache.Handler())
		{
			cached.GET("/sessions", a.api.ListSessions)
			cached.GET("/signals", a.api.ListSignals)
			cached.GET("/videos", a.api.ListVideos)
		}

		v1.POST("/signals", generate, a.api.CreateSignal)
		v1.POST("/videos", generate, a.api.CreateVideo)

		v1.GET("/settings", a.api.GetSettings)
		v1.PUT("/settings", middleware.RequireUser(), a.api.UpdateSettings)

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		admin.GET("/users", a.api.ListUsers)
	}

	return router, nil
}
