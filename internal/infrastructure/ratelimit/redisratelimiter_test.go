package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisRateLimiter_Allow_PerMinute(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	limits := Limits{RequestsPerMinute: 5}
	key := "user:1:generate"

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, key, limits)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, key, limits)
	require.NoError(t, err)
	assert.False(t, allowed, "6th request should be denied")
}

func TestRedisRateLimiter_Allow_TightestWindowWins(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	limits := Limits{RequestsPerMinute: 3, RequestsPerHour: 10, RequestsPerDay: 50}
	key := "user:2:generate"

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, key, limits)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, key, limits)
	require.NoError(t, err)
	assert.False(t, allowed, "minute window should deny the 4th request")
}

func TestRedisRateLimiter_Allow_KeysAreIndependent(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	limits := Limits{RequestsPerMinute: 2}

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "user:3:generate", limits)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "user:3:generate", limits)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "user:4:generate", limits)
	require.NoError(t, err)
	assert.True(t, allowed, "other users keep their own budget")
}

func TestRedisRateLimiter_GetRemaining(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	limits := Limits{RequestsPerMinute: 5}
	key := "user:5:generate"

	used, err := limiter.GetRemaining(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(0), used)

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, key, limits)
		require.NoError(t, err)
	}

	used, err = limiter.GetRemaining(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), used)
}

func TestRedisRateLimiter_Reset(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	limits := Limits{RequestsPerMinute: 1}
	key := "user:6:generate"

	allowed, err := limiter.Allow(ctx, key, limits)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, key, limits)
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, key))

	allowed, err = limiter.Allow(ctx, key, limits)
	require.NoError(t, err)
	assert.True(t, allowed, "should be allowed after reset")
}

func TestRedisRateLimiter_DisabledWindows(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	key := "user:7:generate"

	for i := 0; i < 20; i++ {
		allowed, err := limiter.Allow(ctx, fmt.Sprintf("%s:%d", key, i%2), Limits{})
		require.NoError(t, err)
		assert.True(t, allowed, "zero limits never deny")
	}
}
