package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrLockTimeout = errors.New("focus lock: timed out waiting for lock")

// Only the holder's token may delete the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance Redis lease lock. The TTL bounds how
// long a crashed holder can block the owner.
type RedisLocker struct {
	client     redis.Cmdable
	prefix     string
	ttl        time.Duration
	retryEvery time.Duration
	maxWait    time.Duration
	logger     *zap.Logger
}

type RedisLockerOption func(*RedisLocker)

func WithPrefix(prefix string) RedisLockerOption {
	return func(l *RedisLocker) { l.prefix = prefix }
}

func WithRetry(every, maxWait time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		l.retryEvery = every
		l.maxWait = maxWait
	}
}

func NewRedisLocker(client redis.Cmdable, ttl time.Duration, logger *zap.Logger, opts ...RedisLockerOption) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &RedisLocker{
		client:     client,
		prefix:     "crm:focus-lock:",
		ttl:        ttl,
		retryEvery: 25 * time.Millisecond,
		maxWait:    ttl,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLocker) Lock(ctx context.Context, ownerID string) (func(), error) {
	key := l.prefix + ownerID
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	ticker := time.NewTicker(l.retryEvery)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("focus lock %s: %w", key, err)
		}
		if ok {
			return l.unlocker(key, token), nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrLockTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlocker(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("failed to release focus lock, it will expire",
					zap.String("key", key),
					zap.Duration("ttl", l.ttl),
					zap.Error(err),
				)
			}
		})
	}
}
