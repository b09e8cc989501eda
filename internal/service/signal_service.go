package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/events"
	"github.com/yourorg/trading-dashboard/internal/llm"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
	"github.com/yourorg/trading-dashboard/internal/trace"
)

const signalPrompt = `Analyze %s and provide a comprehensive trading signal with the following details:
- Signal type (buy, sell, strong_buy, strong_sell, hold)
- Confidence level (0-100)
- Entry price estimate
- Target price
- Stop loss price
- Risk/reward ratio
- Timeframe recommendation
- Technical indicators analysis
- Market sentiment
- Signal strength (1-10)
- Detailed reasoning for the signal

Consider current market conditions, technical indicators, and recent price action.`

// SignalSchema is the structured reply requested for a signal
var SignalSchema = llm.Object(map[string]*llm.Schema{
	"signal_type":       llm.Enum("buy", "sell", "strong_buy", "strong_sell", "hold"),
	"confidence_level":  llm.Range(0, 100),
	"entry_price":       llm.Number(),
	"target_price":      llm.Number(),
	"stop_loss":         llm.Number(),
	"risk_reward_ratio": llm.Number(),
	"timeframe":         llm.Enum(model.Timeframes...),
	"indicators_used":   llm.ArrayOf(llm.String()),
	"market_sentiment":  llm.Enum(model.Sentiments...),
	"signal_strength":   llm.Range(1, 10),
	"reasoning":         llm.String(),
}, "signal_type", "confidence_level", "signal_strength", "reasoning")

// SignalResult is a freshly created signal and the reloaded recent list
type SignalResult struct {
	Signal  model.MarketSignal   `json:"signal"`
	Signals []model.MarketSignal `json:"signals"`
}

// SignalService generates market signals with the LLM
type SignalService struct {
	signals store.EntityClient[model.MarketSignal]
	llm     llm.Client
	cache   CacheFlusher
	events  events.Publisher
	busy    atomic.Bool
	logger  *zap.Logger
}

// NewSignalService creates a new signal service
func NewSignalService(
	signals store.EntityClient[model.MarketSignal],
	llmClient llm.Client,
	cache CacheFlusher,
	publisher events.Publisher,
	logger *zap.Logger,
) *SignalService {
	return &SignalService{
		signals: signals,
		llm:     llmClient,
		cache:   cache,
		events:  publisher,
		logger:  logger,
	}
}

// Generate asks the LLM for a signal on symbol, stores it and reloads the
// recent signals. On any failure nothing is stored.
func (s *SignalService) Generate(ctx context.Context, symbol string) (*SignalResult, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}

	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrGenerationInProgress
	}
	defer s.busy.Store(false)

	ctx, span := trace.StartSpan(ctx, "signal.Generate",
		oteltrace.WithAttributes(attribute.String("symbol", symbol)))
	defer span.End()

	raw, err := s.llm.Invoke(ctx, llm.Request{
		Prompt:                 fmt.Sprintf(signalPrompt, symbol),
		Schema:                 SignalSchema,
		AddContextFromInternet: true,
	})
	if err != nil {
		s.logFailure("Signal generation failed", symbol, err)
		trace.RecordError(span, err)
		return nil, err
	}

	var analysis model.SignalAnalysis
	if err := llm.Decode(raw, &analysis); err != nil {
		s.logFailure("Signal generation returned an invalid payload", symbol, err)
		trace.RecordError(span, err)
		return nil, err
	}

	created, err := s.signals.Create(ctx, analysis.ToSignal(strings.ToUpper(symbol)))
	if err != nil {
		s.logFailure("Failed to store generated signal", symbol, err)
		trace.RecordError(span, err)
		return nil, fmt.Errorf("create signal: %w", err)
	}

	s.logger.Info("Signal generated",
		zap.String("id", created.ID),
		zap.String("symbol", created.Symbol),
		zap.String("signal_type", string(created.SignalType)),
		zap.Float64("confidence_level", created.ConfidenceLevel))

	afterCreate(ctx, s.cache, s.events, events.NewEvent(events.MarketSignalCreated, created.ID, created), s.logger)

	return &SignalResult{
		Signal:  created,
		Signals: s.Recent(ctx),
	}, nil
}

// Recent returns the newest signals. A failed read is logged and yields an empty list.
func (s *SignalService) Recent(ctx context.Context) []model.MarketSignal {
	signals, err := s.signals.List(ctx, store.Recent(SignalListLimit))
	if err != nil {
		s.logger.Error("Failed to load signals", zap.Error(err))
		return []model.MarketSignal{}
	}
	return signals
}

// Busy reports whether a generation is running
func (s *SignalService) Busy() bool {
	return s.busy.Load()
}

func (s *SignalService) logFailure(msg, symbol string, err error) {
	s.logger.Error(msg,
		zap.String("symbol", symbol),
		zap.String("kind", errorKind(err)),
		zap.Error(err))
}

// errorKind names the failure class for logs
func errorKind(err error) string {
	switch {
	case errors.Is(err, llm.ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, llm.ErrInvocation):
		return "invocation"
	default:
		return "store"
	}
}

// afterCreate flushes cached lists and announces the new record. Neither
// failure undoes the create.
func afterCreate(ctx context.Context, cache CacheFlusher, publisher events.Publisher, event events.Event, logger *zap.Logger) {
	if err := cache.Flush(ctx); err != nil {
		logger.Warn("Failed to flush response cache", zap.Error(err))
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("id", event.ID),
			zap.Error(err))
	}
}
