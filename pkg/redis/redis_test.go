package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/warehouse/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
}

func TestRateLimiter_DisabledAllowsAll(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "test")
	cfg := TelemetryRateLimit("R1", 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, remaining, err := limiter.Allow(context.Background(), cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, remaining)
	}
}

func TestCache_DisabledIsNoop(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, StockSummaryKey, map[string]int{"ok": 1}, TTLMedium))

	var result map[string]int
	found, err := cache.Get(ctx, StockSummaryKey, &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, StockSummaryKey))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "telemetry:R12", TelemetryRateLimit("R12", 5, time.Second).Key)
}

// liveClient connects to REDIS_ADDR or skips
func liveClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return Wrap(rdb)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	client := liveClient(t)
	limiter := NewRateLimiter(client, "test-"+time.Now().Format("150405.000"))
	cfg := TelemetryRateLimit("R1", 2, time.Minute)
	ctx := context.Background()

	allowed, _, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, remaining, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, err = limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCache_RoundTrip(t *testing.T) {
	client := liveClient(t)
	cache := NewCache(client, "test")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, StockSummaryKey, map[string]int{"critical": 2}, TTLMedium))

	var got map[string]int
	found, err := cache.Get(ctx, StockSummaryKey, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, got["critical"])

	require.NoError(t, cache.Delete(ctx, StockSummaryKey))
	found, err = cache.Get(ctx, StockSummaryKey, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
