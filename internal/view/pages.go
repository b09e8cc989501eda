// Package view builds the page models rendered by the dashboard templates
// and the display mappings they use.
package view

import (
	"github.com/yourorg/trading-dashboard/internal/analytics"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/session"
)

// Dashboard limits
const (
	DashboardSignalLimit = 5
	DashboardVideoLimit  = 4
)

// PopularPairs are offered as quick picks on the market page
var PopularPairs = []string{
	"BTC/USD", "ETH/USD", "BNB/USD", "XRP/USD",
	"ADA/USD", "SOL/USD", "DOT/USD", "LINK/USD",
}

// Layout is shared by every page
type Layout struct {
	Title  string
	Path   string
	Nav    []NavItem
	Viewer session.Context
	Notice string
	Error  string
}

// NewLayout builds the layout for the page at path
func NewLayout(sess session.Context, title, path string) Layout {
	return Layout{
		Title:  title,
		Path:   path,
		Nav:    MarkActive(Navigation(sess), path),
		Viewer: sess,
	}
}

type DashboardPage struct {
	Layout
	Stats   analytics.Stats
	Chart   []analytics.ChartPoint
	Signals []model.MarketSignal
	Videos  []model.LinkedVideo
}

// NewDashboardPage shows stats, the performance chart, the top active
// signals and the newest videos. Anonymous viewers see zero stats.
func NewDashboardPage(sess session.Context, sessions []model.TradingSession, signals []model.MarketSignal, videos []model.LinkedVideo) DashboardPage {
	page := DashboardPage{
		Layout:  NewLayout(sess, "Dashboard", "/"),
		Chart:   analytics.PerformanceSeries(sessions),
		Signals: analytics.ActiveSignals(signals, DashboardSignalLimit),
		Videos:  firstVideos(videos, DashboardVideoLimit),
	}
	if sess.Authenticated() {
		page.Stats = analytics.Summarize(sessions, signals, videos)
	}
	return page
}

// SessionRow is a session with its recomputed win rate
type SessionRow struct {
	model.TradingSession
	ComputedWinRate float64 `json:"computed_win_rate"`
	Drifted         bool    `json:"win_rate_drift"`
}

type PerformancePage struct {
	Layout
	TotalProfit   float64
	TotalTrades   int
	WinningTrades int
	WinRate       float64
	Chart         []analytics.ChartPoint
	Sessions      []SessionRow
}

// SessionRows pairs each session with its recomputed win rate
func SessionRows(sessions []model.TradingSession) []SessionRow {
	rows := make([]SessionRow, len(sessions))
	for i, s := range sessions {
		_, drifted := analytics.WinRateDrift(s)
		rows[i] = SessionRow{
			TradingSession:  s,
			ComputedWinRate: analytics.SessionWinRate(s),
			Drifted:         drifted,
		}
	}
	return rows
}

func NewPerformancePage(sess session.Context, sessions []model.TradingSession) PerformancePage {
	total := analytics.TotalTrades(sessions)
	winning := analytics.WinningTrades(sessions)
	return PerformancePage{
		Layout:        NewLayout(sess, "Trading Performance", "/performance"),
		TotalProfit:   analytics.TotalProfit(sessions),
		TotalTrades:   total,
		WinningTrades: winning,
		WinRate:       analytics.WinRate(winning, total),
		Chart:         analytics.PerformanceSeries(sessions),
		Sessions:      SessionRows(sessions),
	}
}

type MarketPage struct {
	Layout
	Query        string
	Signals      []model.MarketSignal
	PopularPairs []string
	TotalSignals int
	// Busy disables the generate controls while a generation is running
	Busy bool
}

// NewMarketPage filters the signals by the search query
func NewMarketPage(sess session.Context, signals []model.MarketSignal, query string) MarketPage {
	return MarketPage{
		Layout:       NewLayout(sess, "Market Analysis", "/market"),
		Query:        query,
		Signals:      analytics.FilterSignalsBySymbol(signals, query),
		PopularPairs: PopularPairs,
		TotalSignals: len(signals),
	}
}

type ContentPage struct {
	Layout
	Videos []model.LinkedVideo
	Busy   bool
}

func NewContentPage(sess session.Context, videos []model.LinkedVideo) ContentPage {
	return ContentPage{
		Layout: NewLayout(sess, "Content Studio", "/content"),
		Videos: videos,
	}
}

type SettingsPage struct {
	Layout
	Settings model.BotSettings
	CanSave  bool
}

func NewSettingsPage(sess session.Context, settings model.BotSettings) SettingsPage {
	return SettingsPage{
		Layout:   NewLayout(sess, "Bot Settings", "/settings"),
		Settings: settings,
		CanSave:  sess.Authenticated(),
	}
}

// AdminPage lists users for admins. Denied is set for everyone else and
// the user list stays empty.
type AdminPage struct {
	Layout
	Denied bool
	Users  []model.User
}

func NewAdminPage(sess session.Context, users []model.User) AdminPage {
	page := AdminPage{Layout: NewLayout(sess, "Admin Panel", "/admin")}
	if !sess.IsAdmin() {
		page.Denied = true
		page.Title = "Access Denied"
		return page
	}
	page.Users = users
	return page
}

func firstVideos(videos []model.LinkedVideo, limit int) []model.LinkedVideo {
	if len(videos) > limit {
		return videos[:limit]
	}
	return videos
}
