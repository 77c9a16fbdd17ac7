// Package lock provides the short-TTL stampede lock that bounds concurrent
// upstream fetches to one in-flight request per cache key.
//
// The lock is fail-fast: Acquire never blocks or retries. A contended
// caller is expected to give up and serve the sentinel; the lock holder
// populates the cache for everyone else. The TTL is a safety net against
// holders that crash before releasing.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds a lock's lifetime when the holder never releases it.
const DefaultTTL = 10 * time.Second

var (
	lockAcquired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whmcs_lock_acquired_total",
		Help: "Total number of stampede locks acquired",
	})

	lockContended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whmcs_lock_contended_total",
		Help: "Total number of lock acquisitions refused because the lock was held",
	})
)

// Locker is the mutual-exclusion contract the pricing service depends on.
type Locker interface {
	// Acquire attempts to take the lock. Returns true iff no unexpired
	// lock currently exists for key; never blocks.
	Acquire(ctx context.Context, key string) (bool, error)

	// Release drops the lock unconditionally. Safe to call when no lock
	// exists.
	Release(ctx context.Context, key string) error
}

// RedisLocker implements Locker with Redis SET NX, which makes the
// check-and-set atomic across all callers sharing the backend.
type RedisLocker struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisLocker creates a Redis-backed locker with DefaultTTL.
func NewRedisLocker(redisClient *redis.Client) *RedisLocker {
	return NewRedisLockerTTL(redisClient, DefaultTTL)
}

// NewRedisLockerTTL creates a Redis-backed locker with an explicit TTL.
func NewRedisLockerTTL(redisClient *redis.Client, ttl time.Duration) *RedisLocker {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{redis: redisClient, ttl: ttl}
}

// Acquire takes the lock iff it is currently free.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := l.redis.SetNX(ctx, key, 1, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	if ok {
		lockAcquired.Inc()
	} else {
		lockContended.Inc()
	}
	return ok, nil
}

// Release drops the lock.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
