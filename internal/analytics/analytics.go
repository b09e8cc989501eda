// Package analytics computes the read-side aggregates shown on the dashboard.
// Every function is pure; absent numeric fields count as zero.
package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// WinRateTolerance is the largest accepted gap, in percentage points, between
// a session's stored win rate and the one recomputed from its trade counts
const WinRateTolerance = 0.1

// Stats is the summary shown at the top of the dashboard
type Stats struct {
	TotalProfit   float64 `json:"total_profit"`
	TotalTrades   int     `json:"total_trades"`
	WinRate       float64 `json:"win_rate"`
	ActiveSignals int     `json:"active_signals"`
	TotalVideos   int     `json:"total_videos"`
}

// ChartPoint is one session on the performance chart
type ChartPoint struct {
	Name    string  `json:"name"`
	Profit  float64 `json:"profit"`
	Balance float64 `json:"balance"`
	Date    string  `json:"date"`
}

// TotalProfit sums profit_loss over the sessions
func TotalProfit(sessions []model.TradingSession) float64 {
	total := decimal.Zero
	for _, s := range sessions {
		total = total.Add(decimal.NewFromFloat(s.Profit()))
	}
	return total.InexactFloat64()
}

func TotalTrades(sessions []model.TradingSession) int {
	total := 0
	for _, s := range sessions {
		total += s.Trades()
	}
	return total
}

func WinningTrades(sessions []model.TradingSession) int {
	total := 0
	for _, s := range sessions {
		total += s.Wins()
	}
	return total
}

// WinRate returns winning/total as a percentage in [0, 100]; 0 when there are no trades
func WinRate(winning, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(winning) / float64(total) * 100
	return math.Max(0, math.Min(100, rate))
}

// ActiveSignalCount counts signals with is_active set
func ActiveSignalCount(signals []model.MarketSignal) int {
	count := 0
	for _, s := range signals {
		if s.IsActive {
			count++
		}
	}
	return count
}

// Summarize builds the dashboard stats
func Summarize(sessions []model.TradingSession, signals []model.MarketSignal, videos []model.LinkedVideo) Stats {
	total := TotalTrades(sessions)
	return Stats{
		TotalProfit:   TotalProfit(sessions),
		TotalTrades:   total,
		WinRate:       WinRate(WinningTrades(sessions), total),
		ActiveSignals: ActiveSignalCount(signals),
		TotalVideos:   len(videos),
	}
}

// SessionWinRate recomputes a session's win rate from its trade counts
func SessionWinRate(s model.TradingSession) float64 {
	return WinRate(s.Wins(), s.Trades())
}

// WinRateDrift returns how far the stored win rate is from the recomputed
// one, and whether that exceeds WinRateTolerance. Sessions without a stored
// rate never drift.
func WinRateDrift(s model.TradingSession) (float64, bool) {
	if s.WinRate == nil {
		return 0, false
	}
	drift := math.Abs(*s.WinRate - SessionWinRate(s))
	return drift, drift > WinRateTolerance
}

// PerformanceSeries turns newest-first sessions into chart points ordered
// oldest first. Sessions are numbered in their given order starting at 1.
func PerformanceSeries(sessions []model.TradingSession) []ChartPoint {
	points := make([]ChartPoint, len(sessions))
	for i, s := range sessions {
		date := ""
		if !s.CreatedDate.IsZero() {
			date = s.CreatedDate.Format("Jan 02")
		}
		points[len(sessions)-1-i] = ChartPoint{
			Name:    fmt.Sprintf("Session %d", i+1),
			Profit:  s.Profit(),
			Balance: s.Balance(),
			Date:    date,
		}
	}
	return points
}

// FilterSignalsBySymbol keeps signals whose symbol contains term, ignoring
// case. An empty term keeps everything.
func FilterSignalsBySymbol(signals []model.MarketSignal, term string) []model.MarketSignal {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return signals
	}

	filtered := make([]model.MarketSignal, 0, len(signals))
	for _, s := range signals {
		if strings.Contains(strings.ToLower(s.Symbol), term) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// ActiveSignals returns up to limit active signals in their given order
func ActiveSignals(signals []model.MarketSignal, limit int) []model.MarketSignal {
	active := make([]model.MarketSignal, 0, limit)
	for _, s := range signals {
		if len(active) == limit {
			break
		}
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active
}
