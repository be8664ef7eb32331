package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	url := os.Getenv("LANDING_TEST_REDIS_URL")
	if url == "" {
		t.Skip("LANDING_TEST_REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rdb.Ping(ctx).Err())

	return NewRedisStore(rdb, WithRedisPrefix("test:"+uuid.NewString()))
}

func TestRedisStoreLimiterWindow(t *testing.T) {
	store := newTestRedisStore(t)
	limiter := NewLimiter(store)
	ctx := context.Background()
	policy := Policy{Max: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		dec, err := limiter.Check(ctx, "submit-seller:198.51.100.4", policy)
		require.NoError(t, err)
		require.True(t, dec.Allowed)
	}

	dec, err := limiter.Check(ctx, "submit-seller:198.51.100.4", policy)
	require.NoError(t, err)
	require.False(t, dec.Allowed)
	require.InDelta(t, 60, dec.RetryAfterSeconds, 2)
}

func TestRedisStoreCompareAndSwap(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	reset := time.Now().Add(time.Minute).Truncate(time.Millisecond)

	swapped, err := store.CompareAndSwap(ctx, "k", nil, Bucket{Count: 1, ResetAt: reset})
	require.NoError(t, err)
	require.True(t, swapped)

	swapped, err = store.CompareAndSwap(ctx, "k", nil, Bucket{Count: 1, ResetAt: reset})
	require.NoError(t, err)
	require.False(t, swapped)

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, got.Count)
	require.True(t, got.ResetAt.Equal(reset))

	swapped, err = store.CompareAndSwap(ctx, "k", &got, Bucket{Count: 2, ResetAt: reset})
	require.NoError(t, err)
	require.True(t, swapped)
}
