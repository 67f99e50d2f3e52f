package lock_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-attendance-api/internal/lock"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container in -short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.Run("redis", "7-alpine", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp")),
	})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, pool.Retry(func() error {
		return client.Ping(context.Background()).Err()
	}))

	return client
}

func TestRedisLocker(t *testing.T) {
	client := startRedis(t)
	l := lock.NewRedisLocker(client, 2*time.Second, 5*time.Millisecond)

	t.Run("serializes same key", func(t *testing.T) {
		exerciseSameKey(t, l, "attendance:3:4")
	})

	t.Run("releases after fn", func(t *testing.T) {
		err := l.WithLock(context.Background(), "attendance:5:6", func(context.Context) error {
			n, err := client.Exists(context.Background(), "lock:attendance:5:6").Result()
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			return nil
		})
		require.NoError(t, err)

		n, err := client.Exists(context.Background(), "lock:attendance:5:6").Result()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("outlives ttl while fn runs", func(t *testing.T) {
		short := lock.NewRedisLocker(client, 200*time.Millisecond, 5*time.Millisecond)
		err := short.WithLock(context.Background(), "slow", func(context.Context) error {
			time.Sleep(500 * time.Millisecond)
			n, err := client.Exists(context.Background(), "lock:slow").Result()
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("gives up with context", func(t *testing.T) {
		require.NoError(t, client.Set(context.Background(), "lock:taken", "someone-else", time.Minute).Err())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := l.WithLock(ctx, "taken", func(context.Context) error { return nil })
		assert.ErrorIs(t, err, lock.ErrNotAcquired)
	})
}
