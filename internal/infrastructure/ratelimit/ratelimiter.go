package ratelimit

import (
	"context"
	"time"
)

// RateLimitConfig bounds requests per key over a sliding window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int64
	ResetIn   time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (Decision, error)
	Reset(ctx context.Context, key string) error
}
