// Package llm invokes a language model with a prompt and a JSON schema and
// returns the structured JSON it produced.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/config"
)

var (
	// ErrInvocation means the provider could not be reached or refused the call
	ErrInvocation = errors.New("llm invocation failed")
	// ErrInvalidPayload means the reply was not JSON or did not satisfy the expected shape
	ErrInvalidPayload = errors.New("llm returned an invalid payload")
)

// Client sends one structured-output request to a language model
type Client interface {
	Invoke(ctx context.Context, req Request) (json.RawMessage, error)
}

// Request is a natural-language prompt plus the JSON schema the answer must follow
type Request struct {
	Prompt                 string
	Schema                 Schema
	AddContextFromInternet bool
}

// Schema is the subset of JSON Schema the dashboard uses for structured replies
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Format      string             `json:"format,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Object builds an object schema
func Object(properties map[string]*Schema, required ...string) Schema {
	return Schema{Type: "object", Properties: properties, Required: required}
}

func String() *Schema {
	return &Schema{Type: "string"}
}

func Enum(values ...string) *Schema {
	return &Schema{Type: "string", Enum: values}
}

func Number() *Schema {
	return &Schema{Type: "number"}
}

// Range builds a number schema bounded to [min, max]
func Range(lo, hi float64) *Schema {
	return &Schema{Type: "number", Minimum: &lo, Maximum: &hi}
}

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

const systemInstruction = "You are a financial and media analysis assistant. " +
	"Reply with a single JSON object that matches the provided JSON schema. " +
	"Do not wrap it in markdown and do not add commentary."

var validate = validator.New()

// Decode unmarshals raw into v and validates it. Any failure wraps ErrInvalidPayload.
func Decode(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

// extractJSON pulls the JSON object out of a free-text reply, tolerating
// markdown code fences and surrounding prose
func extractJSON(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrInvalidPayload)
	}

	raw := json.RawMessage(text[start : end+1])
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: malformed JSON in reply", ErrInvalidPayload)
	}
	return raw, nil
}

// promptWithSchema appends the schema to the prompt for providers that
// cannot enforce it natively
func promptWithSchema(req Request) (string, error) {
	schema, err := json.MarshalIndent(req.Schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode schema: %w", err)
	}

	var b strings.Builder
	b.WriteString(req.Prompt)
	b.WriteString("\n\nRespond with JSON matching this schema:\n")
	b.Write(schema)
	if req.AddContextFromInternet {
		b.WriteString("\n\nUse the most recent publicly available information you have about the subject.")
	}
	return b.String(), nil
}

// NewClient builds the client for the configured provider
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case "claude":
		return NewClaudeClient(cfg, logger), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
