package view

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// SignalColor returns the badge classes for a signal type
func SignalColor(signalType model.SignalType) string {
	switch signalType {
	case model.SignalStrongBuy:
		return "bg-green-500/20 text-green-400 border-green-500/30"
	case model.SignalBuy:
		return "bg-green-500/10 text-green-400 border-green-500/20"
	case model.SignalStrongSell:
		return "bg-red-500/20 text-red-400 border-red-500/30"
	case model.SignalSell:
		return "bg-red-500/10 text-red-400 border-red-500/20"
	default:
		return "bg-slate-500/10 text-slate-400 border-slate-500/20"
	}
}

// SignalDirection returns "up", "down" or "flat" for the signal's trend icon
func SignalDirection(signalType model.SignalType) string {
	switch signalType {
	case model.SignalBuy, model.SignalStrongBuy:
		return "up"
	case model.SignalSell, model.SignalStrongSell:
		return "down"
	default:
		return "flat"
	}
}

// SignalLabel renders "strong_buy" as "STRONG BUY"
func SignalLabel(signalType model.SignalType) string {
	return strings.ToUpper(strings.ReplaceAll(string(signalType), "_", " "))
}

func ExecutionStatusClass(status model.ExecutionStatus) string {
	switch status {
	case model.ExecutionExecuted:
		return "bg-green-500/10 text-green-400"
	case model.ExecutionCancelled:
		return "bg-slate-500/10 text-slate-400"
	case model.ExecutionMissed:
		return "bg-red-500/10 text-red-400"
	default:
		return "bg-amber-500/10 text-amber-400"
	}
}

// ConfidenceClass colors a confidence level: 80 and up green, 60 and up amber
func ConfidenceClass(confidence float64) string {
	switch {
	case confidence >= 80:
		return "text-green-400"
	case confidence >= 60:
		return "text-amber-400"
	default:
		return "text-red-400"
	}
}

func ProfitClass(value float64) string {
	if value < 0 {
		return "text-red-400"
	}
	return "text-green-400"
}

// Money formats an amount with a sign and two decimals, e.g. "-$40.00"
func Money(value float64) string {
	amount := decimal.NewFromFloat(value)
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// Price formats a market price without rounding small quotes away
func Price(value float64) string {
	amount := decimal.NewFromFloat(value)
	if amount.Abs().LessThan(decimal.NewFromInt(1)) {
		return "$" + amount.StringFixed(6)
	}
	return "$" + amount.StringFixed(2)
}

func Percent(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(1) + "%"
}

// ShortDate formats a timestamp as "Jan 02"; zero times render empty
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 02")
}

// DateTime formats an optional timestamp as "Jan 02, 15:04"
func DateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("Jan 02, 15:04")
}

func PlatformLabel(platform string) string {
	switch platform {
	case model.PlatformTikTok:
		return "TikTok"
	case model.PlatformYouTube:
		return "YouTube"
	default:
		return "Video"
	}
}

// RoleLabel maps stored roles to display names; legacy "user" reads as standard
func RoleLabel(role string) string {
	if role == model.RoleAdmin {
		return "Admin"
	}
	return "Standard"
}
