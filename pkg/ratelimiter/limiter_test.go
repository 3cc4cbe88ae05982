package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Basic(t *testing.T) {
	// 1 token per 100ms, max 5 tokens in bucket
	rl := NewRateLimiter(100*time.Millisecond, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, rl.Wait(ctx), "token %d", i+1)
	}

	// bucket drained, next call waits for a refill
	start := time.Now()
	require.NoError(t, rl.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRateLimiter_TryAcquire(t *testing.T) {
	rl := NewRateLimiter(100*time.Millisecond, 2)

	assert.True(t, rl.TryAcquire())
	assert.True(t, rl.TryAcquire())
	assert.False(t, rl.TryAcquire(), "third token should not be available yet")

	_, capacity, rate := rl.GetStats()
	assert.Equal(t, 2, capacity)
	assert.Equal(t, 100*time.Millisecond, rate)
}

func TestRateLimiter_WaitRespectsContext(t *testing.T) {
	rl := NewRateLimiterFromRPS(1, 1)
	require.True(t, rl.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(ctx))
}

func TestShared_ReturnsSameLimiterPerHost(t *testing.T) {
	a := Shared("mempool.space", 5, 10)
	b := Shared("mempool.space", 5, 10)
	c := Shared("blockstream.info", 5, 10)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
