// Package lock provides a Redis-backed mutex used to serialize check-then-create
// sequences across API instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when the lock stays held by someone else past the wait budget.
var ErrNotAcquired = errors.New("lock not acquired")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker acquires short-lived locks with SET NX PX.
type RedisLocker struct {
	rdb     *redis.Client
	retry   time.Duration
	maxWait time.Duration
}

// NewRedisLocker creates a RedisLocker that polls every 25ms for up to maxWait.
func NewRedisLocker(rdb *redis.Client, maxWait time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, retry: 25 * time.Millisecond, maxWait: maxWait}
}

// Acquire blocks until key is locked for ttl, ctx is done, or maxWait elapses.
// The returned release func is safe to call once the critical section ends.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.maxWait)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return func() {
				// Release with a fresh context so a cancelled request still unlocks.
				rctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseScript.Run(rctx, l.rdb, []string{key}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}
