package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dfw-design-build/leadintake/pkg/logging"
)

// RedisLimiter shares counters between API instances. It follows the same
// fixed-window contract as MemoryLimiter, with Redis expiring each key once
// its window ends.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	logger *logging.Logger
}

// NewRedisLimiter wraps an existing client. Keys are stored as
// "ratelimit:<key>".
func NewRedisLimiter(client *redis.Client, logger *logging.Logger) *RedisLimiter {
	if client == nil {
		panic("ratelimit: redis client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisLimiter{client: client, prefix: "ratelimit:", logger: logger}
}

// windowScript increments the counter and guarantees it carries an expiry in
// one round trip. A key left without a TTL gets a fresh window.
var windowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// Check implements Limiter. Redis failures allow the request.
func (l *RedisLimiter) Check(ctx context.Context, key string) Decision {
	count, ttl, err := l.incrementAndGet(ctx, l.prefix+key)
	if err != nil {
		l.logger.Warn("rate limiter failed open", "key", key, "error", err)
		return allow()
	}
	if count <= MaxRequests {
		return allow()
	}
	return deny(ttl)
}

func (l *RedisLimiter) incrementAndGet(ctx context.Context, key string) (int64, time.Duration, error) {
	vals, err := windowScript.Run(ctx, l.client, []string{key}, Window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit: window %s: %w", key, err)
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("ratelimit: window %s: unexpected reply %v", key, vals)
	}
	return vals[0], time.Duration(vals[1]) * time.Millisecond, nil
}

var _ Limiter = (*RedisLimiter)(nil)
