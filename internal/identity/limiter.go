package identity

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter allows maxAttempts per window per key.
type RedisLimiter struct {
	RDB         *redis.Client
	MaxAttempts int64
	Window      time.Duration
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{RDB: rdb, MaxAttempts: 10, Window: 15 * time.Minute}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.RDB.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		l.RDB.Expire(ctx, "ratelimit:"+key, l.Window)
	}
	return n <= l.MaxAttempts, nil
}
