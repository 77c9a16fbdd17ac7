package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisLocker_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisLocker should panic with nil redis client")
		}
	}()
	NewRedisLocker(nil)
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	locker := NewRedisLocker(setupTestRedis(t))
	ctx := context.Background()
	const key = "lock_whmcs:test"

	ok, err := locker.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !ok {
		t.Fatal("first Acquire() = false, want true")
	}

	// Held lock refuses a second acquisition without blocking.
	ok, err = locker.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	if ok {
		t.Error("second Acquire() = true, want false while held")
	}

	if err := locker.Release(ctx, key); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	ok, err = locker.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("Acquire() after Release() error = %v", err)
	}
	if !ok {
		t.Error("Acquire() after Release() = false, want true")
	}
}

func TestRedisLocker_ReleaseWithoutAcquire(t *testing.T) {
	locker := NewRedisLocker(setupTestRedis(t))

	if err := locker.Release(context.Background(), "lock_whmcs:never"); err != nil {
		t.Errorf("Release() of unheld lock error = %v", err)
	}
}

func TestRedisLocker_TTLExpiry(t *testing.T) {
	locker := NewRedisLockerTTL(setupTestRedis(t), 100*time.Millisecond)
	ctx := context.Background()
	const key = "lock_whmcs:ttl"

	if ok, _ := locker.Acquire(ctx, key); !ok {
		t.Fatal("Acquire() = false, want true")
	}

	time.Sleep(200 * time.Millisecond)

	// Lock expired without an explicit release; the next caller wins.
	ok, err := locker.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("Acquire() after expiry error = %v", err)
	}
	if !ok {
		t.Error("Acquire() after TTL expiry = false, want true")
	}
}
