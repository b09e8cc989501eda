package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/yourorg/trading-dashboard/internal/config"
	"github.com/yourorg/trading-dashboard/internal/trace"
)

// GeminiClient invokes Google Gemini. Without internet context the schema is
// enforced natively; Google Search grounding cannot be combined with a
// response schema, so grounded calls carry the schema in the prompt.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "claude") {
		model = "gemini-2.5-flash"
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

// Invoke sends the request and returns the JSON object from the reply
func (c *GeminiClient) Invoke(ctx context.Context, req Request) (json.RawMessage, error) {
	ctx, span := trace.StartSpan(ctx, "llm.gemini.invoke")
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(c.temperature),
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}
	if c.maxTokens > 0 {
		genConfig.MaxOutputTokens = int32(c.maxTokens)
	}

	prompt := req.Prompt
	if req.AddContextFromInternet {
		genConfig.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
		withSchema, err := promptWithSchema(req)
		if err != nil {
			trace.RecordError(span, err)
			return nil, fmt.Errorf("%w: %w", ErrInvocation, err)
		}
		prompt = withSchema
	} else {
		genConfig.ResponseMIMEType = "application/json"
		genConfig.ResponseSchema = toGenaiSchema(&req.Schema)
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genConfig)
	if err != nil {
		trace.RecordError(span, err)
		c.logger.Error("Gemini API call failed", zap.Error(err), zap.String("model", c.model))
		return nil, fmt.Errorf("%w: %w", ErrInvocation, err)
	}

	text := resp.Text()
	c.logger.Debug("Gemini reply received",
		zap.String("model", c.model),
		zap.Int("response_length", len(text)),
		zap.Bool("grounded", req.AddContextFromInternet),
		zap.Duration("duration", time.Since(start)))

	raw, err := extractJSON(text)
	if err != nil {
		trace.RecordError(span, err)
		return nil, err
	}
	return raw, nil
}

// toGenaiSchema converts the schema to Gemini's representation. Formats other
// than date-time are not understood by the API and are dropped.
func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Enum:        s.Enum,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}

	switch strings.ToLower(s.Type) {
	case "object":
		out.Type = genai.TypeObject
	case "array":
		out.Type = genai.TypeArray
	case "string":
		out.Type = genai.TypeString
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	}

	if s.Format == "date-time" {
		out.Format = s.Format
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}

	return out
}
