package lock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	return rdb
}

func TestRedisLockerExclusive(t *testing.T) {
	rdb := newTestClient(t)
	ctx := context.Background()
	key := "lock:test:" + uuid.NewString()
	l := NewRedisLocker(rdb, 100*time.Millisecond)

	release, err := l.Acquire(ctx, key, 5*time.Second)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := l.Acquire(ctx, key, 5*time.Second); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("second Acquire err = %v, want ErrNotAcquired", err)
	}

	release()
	release2, err := l.Acquire(ctx, key, 5*time.Second)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	release2()
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	rdb := newTestClient(t)
	ctx := context.Background()
	key := "lock:test:" + uuid.NewString()
	l := NewRedisLocker(rdb, 0)

	release, err := l.Acquire(ctx, key, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	// The TTL lapsed and another holder took the key.
	if err := rdb.Set(ctx, key, "other", time.Second).Err(); err != nil {
		t.Fatalf("Set: %v", err)
	}
	release()

	if got, _ := rdb.Get(ctx, key).Result(); got != "other" {
		t.Fatalf("key = %q, want foreign holder kept", got)
	}
	_ = rdb.Del(ctx, key).Err()
}
