package model

import (
	"time"
)

// TradingSession represents one completed or running bot trading session
type TradingSession struct {
	ID             string     `json:"id,omitempty" db:"id"`
	SessionName    string     `json:"session_name" db:"session_name" yaml:"session_name"`
	StartTime      *time.Time `json:"start_time,omitempty" db:"start_time" yaml:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty" db:"end_time" yaml:"end_time"`
	InitialBalance *float64   `json:"initial_balance,omitempty" db:"initial_balance" yaml:"initial_balance"`
	FinalBalance   *float64   `json:"final_balance,omitempty" db:"final_balance" yaml:"final_balance"`
	ProfitLoss     *float64   `json:"profit_loss,omitempty" db:"profit_loss" yaml:"profit_loss"`
	TotalTrades    *int       `json:"total_trades,omitempty" db:"total_trades" yaml:"total_trades"`
	WinningTrades  *int       `json:"winning_trades,omitempty" db:"winning_trades" yaml:"winning_trades"`
	WinRate        *float64   `json:"win_rate,omitempty" db:"win_rate" yaml:"win_rate"` // stored copy, recomputed on read
	Status         string     `json:"status,omitempty" db:"status" yaml:"status"`
	CreatedDate    time.Time  `json:"created_date,omitzero" db:"created_date" yaml:"created_date"`
}

// Profit returns profit_loss, treating an absent value as zero
func (s TradingSession) Profit() float64 {
	if s.ProfitLoss == nil {
		return 0
	}
	return *s.ProfitLoss
}

// Trades returns total_trades, treating an absent value as zero
func (s TradingSession) Trades() int {
	if s.TotalTrades == nil {
		return 0
	}
	return *s.TotalTrades
}

// Wins returns winning_trades, treating an absent value as zero
func (s TradingSession) Wins() int {
	if s.WinningTrades == nil {
		return 0
	}
	return *s.WinningTrades
}

// Balance returns the final balance, falling back to the initial balance
// when the final one is absent or zero
func (s TradingSession) Balance() float64 {
	if s.FinalBalance != nil && *s.FinalBalance != 0 {
		return *s.FinalBalance
	}
	if s.InitialBalance != nil {
		return *s.InitialBalance
	}
	return 0
}
