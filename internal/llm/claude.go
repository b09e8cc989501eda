package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/config"
	"github.com/yourorg/trading-dashboard/internal/trace"
)

// ClaudeClient invokes Anthropic Claude. The schema travels inside the prompt
// and the JSON object is extracted from the text reply.
type ClaudeClient struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClaudeClient creates a new Claude client
func NewClaudeClient(cfg config.LLMConfig, logger *zap.Logger) *ClaudeClient {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	return &ClaudeClient{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Invoke sends the request and returns the JSON object from the reply
func (c *ClaudeClient) Invoke(ctx context.Context, req Request) (json.RawMessage, error) {
	ctx, span := trace.StartSpan(ctx, "llm.claude.invoke")
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt, err := promptWithSchema(req)
	if err != nil {
		trace.RecordError(span, err)
		return nil, fmt.Errorf("%w: %w", ErrInvocation, err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System: []anthropic.TextBlockParam{
			{Text: systemInstruction},
		},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(float64(c.temperature))
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		trace.RecordError(span, err)
		c.logger.Error("Claude API call failed", zap.Error(err), zap.String("model", c.model))
		return nil, fmt.Errorf("%w: %w", ErrInvocation, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	c.logger.Debug("Claude reply received",
		zap.String("model", c.model),
		zap.Int("response_length", text.Len()),
		zap.Duration("duration", time.Since(start)))

	raw, err := extractJSON(text.String())
	if err != nil {
		trace.RecordError(span, err)
		return nil, err
	}
	return raw, nil
}
