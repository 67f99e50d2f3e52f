package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix = "lock:"

	releaseScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`

	refreshScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
)

// RedisLocker holds a SET NX PX lock per key and keeps it alive while fn
// runs, so several API replicas can share one serialization point.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client, ttl, retry time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		retry:  retry,
	}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	key = redisKeyPrefix + key
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}
	defer l.release(key, token)

	keepAliveCtx, stop := context.WithCancel(ctx)
	defer stop()
	go l.keepAlive(keepAliveCtx, key, token)

	return fn(ctx)
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("l.client.SetNX -> %w", err)
		}
		if ok {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		}
	}
}

func (l *RedisLocker) keepAlive(ctx context.Context, key, token string) {
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := l.client.Eval(ctx, refreshScript, []string{key}, token, l.ttl.Milliseconds()).Err()
			if err != nil && !errors.Is(err, context.Canceled) {
				zap.L().Warn("failed to refresh lock", zap.String("key", key), zap.Error(err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	// The caller's context may already be done; the lock must still go.
	ctx, cancel := context.WithTimeout(context.Background(), l.ttl)
	defer cancel()

	if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		zap.L().Warn("failed to release lock", zap.String("key", key), zap.Error(err))
	}
}
