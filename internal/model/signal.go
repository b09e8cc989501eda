package model

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
)

// SignalType is the recommended action of a market signal
type SignalType string

const (
	SignalBuy        SignalType = "buy"
	SignalSell       SignalType = "sell"
	SignalStrongBuy  SignalType = "strong_buy"
	SignalStrongSell SignalType = "strong_sell"
	SignalHold       SignalType = "hold"
)

// ExecutionStatus tracks what happened to a signal after it was issued
type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionExecuted  ExecutionStatus = "executed"
	ExecutionCancelled ExecutionStatus = "cancelled"
	ExecutionMissed    ExecutionStatus = "missed"
)

// Timeframes accepted for a signal recommendation
var Timeframes = []string{"1m", "5m", "15m", "1h", "4h", "1d", "1w"}

// Sentiments accepted for the market_sentiment field
var Sentiments = []string{"extremely_fearful", "fearful", "neutral", "greedy", "extremely_greedy"}

// Indicators is a list of indicator names stored as a TEXT[] column
type Indicators []string

// Value implements the driver.Valuer interface for Indicators. A nil list
// is stored as an empty array, never NULL.
func (i Indicators) Value() (driver.Value, error) {
	if i == nil {
		return "{}", nil
	}
	return pq.StringArray(i).Value()
}

// Scan implements the sql.Scanner interface for Indicators
func (i *Indicators) Scan(value interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(value); err != nil {
		return err
	}
	*i = Indicators(arr)
	return nil
}

// MarketSignal represents an AI-suggested trade recommendation for a symbol
type MarketSignal struct {
	ID              string          `json:"id,omitempty" db:"id"`
	Symbol          string          `json:"symbol" db:"symbol"`
	SignalType      SignalType      `json:"signal_type" db:"signal_type" yaml:"signal_type"`
	ConfidenceLevel float64         `json:"confidence_level" db:"confidence_level" yaml:"confidence_level"`
	EntryPrice      float64         `json:"entry_price" db:"entry_price" yaml:"entry_price"`
	TargetPrice     float64         `json:"target_price" db:"target_price" yaml:"target_price"`
	StopLoss        float64         `json:"stop_loss" db:"stop_loss" yaml:"stop_loss"`
	RiskRewardRatio float64         `json:"risk_reward_ratio" db:"risk_reward_ratio" yaml:"risk_reward_ratio"`
	Timeframe       string          `json:"timeframe" db:"timeframe"`
	IndicatorsUsed  Indicators      `json:"indicators_used" db:"indicators_used" yaml:"indicators_used"`
	MarketSentiment string          `json:"market_sentiment" db:"market_sentiment" yaml:"market_sentiment"`
	SignalStrength  float64         `json:"signal_strength" db:"signal_strength" yaml:"signal_strength"`
	IsActive        bool            `json:"is_active" db:"is_active" yaml:"is_active"`
	ExecutionStatus ExecutionStatus `json:"execution_status" db:"execution_status" yaml:"execution_status"`
	Notes           string          `json:"notes" db:"notes"`
	CreatedDate     time.Time       `json:"created_date,omitzero" db:"created_date" yaml:"created_date"`
}

// SignalAnalysis is the structured result requested from the LLM for a symbol
type SignalAnalysis struct {
	SignalType      SignalType `json:"signal_type" validate:"required,oneof=buy sell strong_buy strong_sell hold"`
	ConfidenceLevel *float64   `json:"confidence_level" validate:"required,gte=0,lte=100"`
	EntryPrice      float64    `json:"entry_price" validate:"gte=0"`
	TargetPrice     float64    `json:"target_price" validate:"gte=0"`
	StopLoss        float64    `json:"stop_loss" validate:"gte=0"`
	RiskRewardRatio float64    `json:"risk_reward_ratio" validate:"gte=0"`
	Timeframe       string     `json:"timeframe" validate:"omitempty,oneof=1m 5m 15m 1h 4h 1d 1w"`
	IndicatorsUsed  []string   `json:"indicators_used"`
	MarketSentiment string     `json:"market_sentiment" validate:"omitempty,oneof=extremely_fearful fearful neutral greedy extremely_greedy"`
	SignalStrength  *float64   `json:"signal_strength" validate:"required,gte=1,lte=10"`
	Reasoning       string     `json:"reasoning" validate:"required"`
}

// ToSignal merges the analysis with the bookkeeping fields of a new signal.
// Call it on a validated analysis only.
func (a SignalAnalysis) ToSignal(symbol string) MarketSignal {
	indicators := Indicators{}
	if a.IndicatorsUsed != nil {
		indicators = Indicators(a.IndicatorsUsed)
	}

	return MarketSignal{
		Symbol:          symbol,
		SignalType:      a.SignalType,
		ConfidenceLevel: deref(a.ConfidenceLevel),
		EntryPrice:      a.EntryPrice,
		TargetPrice:     a.TargetPrice,
		StopLoss:        a.StopLoss,
		RiskRewardRatio: a.RiskRewardRatio,
		Timeframe:       a.Timeframe,
		IndicatorsUsed:  indicators,
		MarketSentiment: a.MarketSentiment,
		SignalStrength:  deref(a.SignalStrength),
		IsActive:        true,
		ExecutionStatus: ExecutionPending,
		Notes:           a.Reasoning,
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
