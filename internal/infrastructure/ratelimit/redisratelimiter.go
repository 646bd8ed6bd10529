package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "campushub:ratelimit"

// RedisRateLimiter keeps a sorted-set log of request timestamps per key.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (Decision, error) {
	if config.Requests <= 0 || config.Window <= 0 {
		return Decision{Allowed: true}, nil
	}

	redisKey := l.getKey(key, config.Window)
	now := l.now()
	windowStart := now.Add(-config.Window).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := zcard.Val()
	resetIn := config.Window
	if entries := oldest.Val(); len(entries) > 0 {
		resetIn = time.Duration(int64(entries[0].Score)+config.Window.Nanoseconds()-nowNano) * time.Nanosecond
	}

	if count >= int64(config.Requests) {
		return Decision{Allowed: false, Remaining: 0, ResetIn: resetIn}, nil
	}

	// Denied requests are not logged, so a client hammering the limit does not
	// extend its own lockout.
	member := strconv.FormatInt(nowNano, 10) + ":" + uuid.NewString()
	pipe = l.client.Pipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: member})
	pipe.Expire(ctx, redisKey, config.Window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to record request: %w", err)
	}

	return Decision{
		Allowed:   true,
		Remaining: int64(config.Requests) - count - 1,
		ResetIn:   resetIn,
	}, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, key)

	iter := l.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	return nil
}

func (l *RedisRateLimiter) getKey(identifier string, window time.Duration) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, identifier, window.String())
}
