package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/yourorg/trading-dashboard/internal/model"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "bare object", text: `{"title":"a"}`, want: `{"title":"a"}`},
		{name: "json fence", text: "```json\n{\"title\":\"a\"}\n```", want: `{"title":"a"}`},
		{name: "plain fence", text: "```\n{\"title\":\"a\"}\n```", want: `{"title":"a"}`},
		{name: "surrounding prose", text: "Here you go:\n{\"title\":\"a\"}\nThanks", want: `{"title":"a"}`},
		{name: "no object", text: "I cannot help with that", wantErr: true},
		{name: "malformed", text: `{"title": }`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPayload))
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestDecodeSignalAnalysis(t *testing.T) {
	raw := json.RawMessage(`{
		"signal_type": "strong_buy",
		"confidence_level": 85,
		"entry_price": 64000,
		"target_price": 70000,
		"stop_loss": 61000,
		"risk_reward_ratio": 2,
		"timeframe": "4h",
		"indicators_used": ["RSI", "MACD"],
		"market_sentiment": "greedy",
		"signal_strength": 8,
		"reasoning": "Breakout above resistance"
	}`)

	var analysis model.SignalAnalysis
	require.NoError(t, Decode(raw, &analysis))
	assert.Equal(t, model.SignalStrongBuy, analysis.SignalType)
	assert.Equal(t, []string{"RSI", "MACD"}, analysis.IndicatorsUsed)
	assert.Equal(t, "Breakout above resistance", analysis.Reasoning)
	require.NotNil(t, analysis.ConfidenceLevel)
	assert.Equal(t, 85.0, *analysis.ConfidenceLevel)
}

func TestDecodeAcceptsZeroConfidence(t *testing.T) {
	var analysis model.SignalAnalysis
	require.NoError(t, Decode(json.RawMessage(`{"signal_type":"hold","confidence_level":0,"signal_strength":1,"reasoning":"flat"}`), &analysis))
	require.NotNil(t, analysis.ConfidenceLevel)
	assert.Zero(t, *analysis.ConfidenceLevel)
	assert.Nil(t, analysis.IndicatorsUsed)
}

func TestDecodeRejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `nope`},
		{name: "unknown signal type", raw: `{"signal_type":"moon","confidence_level":50,"signal_strength":5,"reasoning":"r"}`},
		{name: "confidence above range", raw: `{"signal_type":"buy","confidence_level":150,"signal_strength":5,"reasoning":"r"}`},
		{name: "strength below range", raw: `{"signal_type":"buy","confidence_level":50,"signal_strength":0,"reasoning":"r"}`},
		{name: "bad timeframe", raw: `{"signal_type":"buy","confidence_level":50,"signal_strength":5,"timeframe":"2h","reasoning":"r"}`},
		{name: "missing signal type", raw: `{"confidence_level":50,"signal_strength":5,"reasoning":"r"}`},
		{name: "missing confidence", raw: `{"signal_type":"buy","signal_strength":5,"reasoning":"r"}`},
		{name: "missing strength", raw: `{"signal_type":"buy","confidence_level":50,"reasoning":"r"}`},
		{name: "missing reasoning", raw: `{"signal_type":"buy","confidence_level":50,"signal_strength":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var analysis model.SignalAnalysis
			err := Decode(json.RawMessage(tt.raw), &analysis)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPayload))
		})
	}
}

func TestDecodeVideoMetadata(t *testing.T) {
	var meta model.VideoMetadata
	require.NoError(t, Decode(json.RawMessage(`{"title":"Intro","description":"","thumbnail_url":""}`), &meta))
	assert.Equal(t, "Intro", meta.Title)

	err := Decode(json.RawMessage(`{"title":"Intro","thumbnail_url":"not a url"}`), &meta)
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestPromptWithSchema(t *testing.T) {
	prompt, err := promptWithSchema(Request{
		Prompt: "Describe BTC/USD",
		Schema: Object(map[string]*Schema{"title": String()}, "title"),
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Describe BTC/USD")
	assert.Contains(t, prompt, `"title"`)
	assert.Contains(t, prompt, `"required"`)
	assert.NotContains(t, prompt, "most recent publicly available")

	grounded, err := promptWithSchema(Request{Prompt: "x", Schema: Object(nil), AddContextFromInternet: true})
	require.NoError(t, err)
	assert.Contains(t, grounded, "most recent publicly available")
}

func TestToGenaiSchema(t *testing.T) {
	schema := Object(map[string]*Schema{
		"signal_type":     Enum("buy", "sell"),
		"confidence":      Range(0, 100),
		"indicators_used": ArrayOf(String()),
		"thumbnail_url":   {Type: "string", Format: "uri"},
	}, "signal_type")

	got := toGenaiSchema(&schema)
	require.NotNil(t, got)
	assert.Equal(t, genai.TypeObject, got.Type)
	assert.Equal(t, []string{"signal_type"}, got.Required)

	assert.Equal(t, genai.TypeString, got.Properties["signal_type"].Type)
	assert.Equal(t, []string{"buy", "sell"}, got.Properties["signal_type"].Enum)

	confidence := got.Properties["confidence"]
	assert.Equal(t, genai.TypeNumber, confidence.Type)
	require.NotNil(t, confidence.Minimum)
	require.NotNil(t, confidence.Maximum)
	assert.Equal(t, 0.0, *confidence.Minimum)
	assert.Equal(t, 100.0, *confidence.Maximum)

	assert.Equal(t, genai.TypeArray, got.Properties["indicators_used"].Type)
	assert.Equal(t, genai.TypeString, got.Properties["indicators_used"].Items.Type)

	assert.Empty(t, got.Properties["thumbnail_url"].Format)

	assert.Nil(t, toGenaiSchema(nil))
}
