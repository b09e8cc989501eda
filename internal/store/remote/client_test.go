package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/config"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestStore(t *testing.T, handler http.HandlerFunc) *store.Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.ServiceConfig{URL: srv.URL, Timeout: 5 * time.Second, APIKey: "svc-key"}, zap.NewNop())
}

func TestListSendsSortAndLimit(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/entities/MarketSignal", r.URL.Path)
		assert.Equal(t, "-created_date", r.URL.Query().Get("sort"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "svc-key", r.Header.Get("X-Api-Key"))

		writeJSON(w, http.StatusOK, []model.MarketSignal{
			{ID: "s2", Symbol: "ETH/USD", IsActive: true},
			{ID: "s1", Symbol: "BTC/USD"},
		})
	})

	signals, err := s.Signals.List(context.Background(), store.Recent(20))
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, "ETH/USD", signals[0].Symbol)
	assert.True(t, signals[0].IsActive)
}

func TestListEmptyBodyYieldsEmptySlice(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nil)
	})

	videos, err := s.Videos.List(context.Background(), store.Recent(50))
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)
}

func TestListErrorStatus(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "down"})
	})

	_, err := s.Sessions.List(context.Background(), store.Recent(50))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code 502")
}

func TestCreatePostsRecord(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/entities/LinkedVideo", r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		// id and created_date belong to the store
		var fields map[string]json.RawMessage
		assert.NoError(t, json.Unmarshal(raw, &fields))
		assert.NotContains(t, fields, "id")
		assert.NotContains(t, fields, "created_date")

		var body model.LinkedVideo
		assert.NoError(t, json.Unmarshal(raw, &body))
		body.ID = "v1"
		body.CreatedDate = created
		writeJSON(w, http.StatusCreated, body)
	})

	video, err := s.Videos.Create(context.Background(), model.LinkedVideo{
		URL:      "https://youtu.be/abc",
		Platform: model.PlatformYouTube,
		Title:    "Video: https://youtu.be/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", video.ID)
	assert.Equal(t, created, video.CreatedDate.UTC())
	assert.Equal(t, "Video: https://youtu.be/abc", video.Title)
}

func TestMe(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entities/User/me", r.URL.Path)
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			writeJSON(w, http.StatusOK, model.User{ID: "u1", Role: model.RoleAdmin})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}
	})

	user, err := s.Users.Me(context.Background(), "good")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = s.Users.Me(context.Background(), "bad")
	assert.ErrorIs(t, err, store.ErrUnauthenticated)

	_, err = s.Users.Me(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrUnauthenticated)
}

func TestCreateSignalWithoutIndicators(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.JSONEq(t, `[]`, string(fields["indicators_used"]))
		assert.NotContains(t, fields, "id")
		assert.NotContains(t, fields, "created_date")
		writeJSON(w, http.StatusCreated, map[string]string{"id": "s1", "symbol": "ETH/USD"})
	})

	strength := 5.0
	confidence := 40.0
	analysis := model.SignalAnalysis{
		SignalType:      model.SignalBuy,
		ConfidenceLevel: &confidence,
		SignalStrength:  &strength,
		Reasoning:       "r",
	}

	signal, err := s.Signals.Create(context.Background(), analysis.ToSignal("ETH/USD"))
	require.NoError(t, err)
	assert.Equal(t, "s1", signal.ID)
}
