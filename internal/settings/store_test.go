package settings

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/model"
)

func TestMemoryStoreDefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBotSettings(), got)

	custom := model.DefaultBotSettings()
	custom.AutoTrading = false
	custom.MaxOpenPositions = 2
	require.NoError(t, store.Save(ctx, "u-1", custom))

	got, err = store.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	other, err := store.Get(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBotSettings(), other)
}

func TestRedisStoreKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	store := NewRedisStore(client, "dashboard", zap.NewNop())
	assert.Equal(t, "dashboard:settings:u-1", store.key("u-1"))
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "dashboard", zap.NewNop()), mr
}

func TestRedisStoreDefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	got, err := store.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBotSettings(), got)

	custom := model.DefaultBotSettings()
	custom.AutoTrading = false
	custom.MaxOpenPositions = 2
	require.NoError(t, store.Save(ctx, "u-1", custom))
	assert.True(t, mr.Exists("dashboard:settings:u-1"))

	got, err = store.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	other, err := store.Get(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBotSettings(), other)
}

func TestRedisStoreCorruptValueFallsBackToDefaults(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("dashboard:settings:u-1", "{not json"))

	got, err := store.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBotSettings(), got)
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.SetError("LOADING dataset in memory")

	_, err := store.Get(context.Background(), "u-1")
	assert.Error(t, err)
	assert.Error(t, store.Save(context.Background(), "u-1", model.DefaultBotSettings()))
}
