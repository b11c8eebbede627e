package ratelimit

import (
	"context"
	"time"
)

// Limits caps how often a single user may call the generation endpoint.
// A zero value disables that window.
type Limits struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limits Limits) (bool, error)
	GetRemaining(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
