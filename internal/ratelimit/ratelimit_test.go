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

func TestNewRedisLimiter_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewRedisLimiter(nil, 0, 5, "rl:")
	require.Error(t, err)

	l, err := NewRedisLimiter(nil, 1, 0, "rl:")
	require.NoError(t, err)
	require.Equal(t, 1, l.burst)
}

func TestUnlimited(t *testing.T) {
	t.Parallel()

	res, err := Unlimited{}.Allow(context.Background(), "anyone")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestRedisLimiter_Allow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	l, err := NewRedisLimiter(client, 1, 3, "rl-test:")
	require.NoError(t, err)
	key := uuid.NewString()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, key)
		require.NoError(t, err)
		require.True(t, res.Allowed, "request %d within burst", i)
	}

	res, err := l.Allow(ctx, key)
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Greater(t, res.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, res.RetryAfter, time.Second)

	// other keys have their own bucket
	res, err = l.Allow(ctx, uuid.NewString())
	require.NoError(t, err)
	require.True(t, res.Allowed)

	time.Sleep(1100 * time.Millisecond)
	res, err = l.Allow(ctx, key)
	require.NoError(t, err)
	require.True(t, res.Allowed)
}
