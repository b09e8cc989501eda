package model

// TradingHours is the daily window in which the bot may trade
type TradingHours struct {
	Start string `json:"start" form:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" form:"end" validate:"required,datetime=15:04"`
}

// BotSettings holds the per-user trading bot configuration
type BotSettings struct {
	IsActive         bool         `json:"is_active" form:"is_active"`
	AutoTrading      bool         `json:"auto_trading" form:"auto_trading"`
	SignalGeneration bool         `json:"signal_generation" form:"signal_generation"`
	MaxDailyLoss     float64      `json:"max_daily_loss" form:"max_daily_loss" validate:"gte=0"`
	MaxPositionSize  float64      `json:"max_position_size" form:"max_position_size" validate:"gte=0"`
	RiskPerTrade     float64      `json:"risk_per_trade" form:"risk_per_trade" validate:"gt=0,lte=100"`
	StopLoss         bool         `json:"stop_loss" form:"stop_loss"`
	TakeProfit       bool         `json:"take_profit" form:"take_profit"`
	TrailingStop     bool         `json:"trailing_stop" form:"trailing_stop"`
	MaxOpenPositions int          `json:"max_open_positions" form:"max_open_positions" validate:"gte=1"`
	TradingHours     TradingHours `json:"trading_hours"`
}

// DefaultBotSettings returns the settings a user starts with
func DefaultBotSettings() BotSettings {
	return BotSettings{
		IsActive:         true,
		AutoTrading:      true,
		SignalGeneration: true,
		MaxDailyLoss:     500,
		MaxPositionSize:  1000,
		RiskPerTrade:     2,
		StopLoss:         true,
		TakeProfit:       true,
		TrailingStop:     false,
		MaxOpenPositions: 5,
		TradingHours: TradingHours{
			Start: "09:00",
			End:   "17:00",
		},
	}
}
