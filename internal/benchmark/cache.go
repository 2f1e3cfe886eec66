package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is used when Cached is built with a zero TTL.
const DefaultCacheTTL = 10 * time.Minute

// RedisClient is the subset of *redis.Client used by Cached.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cached is a read-through redis cache in front of another Provider.
// Cache errors are logged and the inner provider answers instead.
type Cached struct {
	inner  Provider
	client RedisClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps inner. A nil logger uses slog.Default().
func NewCached(inner Provider, client RedisClient, ttl time.Duration, logger *slog.Logger) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{inner: inner, client: client, ttl: ttl, logger: logger}
}

func gradeKey(grade int) string {
	return fmt.Sprintf("benchmark:grade:%d", grade)
}

func (c *Cached) ExpectedWPM(ctx context.Context, grade int) (int, error) {
	key := gradeKey(grade)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		wpm, convErr := strconv.Atoi(val)
		if convErr == nil && wpm > 0 {
			return wpm, nil
		}
		c.logger.Warn("benchmark cache: bad value", "key", key, "value", val)
	case errors.Is(err, redis.Nil):
		// miss
	default:
		c.logger.Warn("benchmark cache: get failed", "key", key, "error", err)
	}

	wpm, err := c.inner.ExpectedWPM(ctx, grade)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, wpm, c.ttl).Err(); err != nil {
		c.logger.Warn("benchmark cache: set failed", "key", key, "error", err)
	}
	return wpm, nil
}

// Grades is not cached.
func (c *Cached) Grades(ctx context.Context) ([]int, error) {
	return c.inner.Grades(ctx)
}
