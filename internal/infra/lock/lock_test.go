package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(ctx, "owner-1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Zero(t, m.Size())
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	unlockA, err := m.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	ctx2, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	unlockB, err := m.Lock(ctx2, "b")
	require.NoError(t, err)
	unlockB()
}

func TestKeyedMutex_ContextCancelWhileWaiting(t *testing.T) {
	m := NewKeyedMutex()

	unlock, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Zero(t, m.Size())
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	mr, client := setupRedis(t)
	l := NewRedisLocker(client, 5*time.Second, zaptest.NewLogger(t))

	unlock, err := l.Lock(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("crm:focus-lock:owner-1"))
	assert.Equal(t, 5*time.Second, mr.TTL("crm:focus-lock:owner-1"))

	unlock()
	assert.False(t, mr.Exists("crm:focus-lock:owner-1"))
}

func TestRedisLocker_TimesOutWhileHeld(t *testing.T) {
	_, client := setupRedis(t)
	l := NewRedisLocker(client, 5*time.Second, zaptest.NewLogger(t),
		WithRetry(5*time.Millisecond, 40*time.Millisecond))

	unlock, err := l.Lock(context.Background(), "owner-1")
	require.NoError(t, err)
	defer unlock()

	_, err = l.Lock(context.Background(), "owner-1")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	_, client := setupRedis(t)
	l := NewRedisLocker(client, 5*time.Second, zaptest.NewLogger(t),
		WithRetry(5*time.Millisecond, time.Second))

	unlock, err := l.Lock(context.Background(), "owner-1")
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		unlock()
	}()

	unlock2, err := l.Lock(context.Background(), "owner-1")
	require.NoError(t, err)
	unlock2()
}

func TestRedisLocker_ReleaseKeepsForeignLease(t *testing.T) {
	mr, client := setupRedis(t)
	l := NewRedisLocker(client, 5*time.Second, zaptest.NewLogger(t), WithPrefix("test:"))

	unlock, err := l.Lock(context.Background(), "owner-1")
	require.NoError(t, err)

	// lease expired and another replica took it over
	require.NoError(t, mr.Set("test:owner-1", "someone-else"))
	unlock()

	got, err := mr.Get("test:owner-1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_CallerCancel(t *testing.T) {
	_, client := setupRedis(t)
	l := NewRedisLocker(client, 5*time.Second, zaptest.NewLogger(t))

	unlock, err := l.Lock(context.Background(), "owner-1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, "owner-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisLocker_UnlockIsSafeToRepeat(t *testing.T) {
	mr, client := setupRedis(t)
	l := NewRedisLocker(client, 5*time.Second, zaptest.NewLogger(t))
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "owner-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock()
		}()
	}
	wg.Wait()
	assert.False(t, mr.Exists("crm:focus-lock:owner-1"))

	next, err := l.Lock(ctx, "owner-1")
	require.NoError(t, err)
	defer next()

	unlock()
	assert.True(t, mr.Exists("crm:focus-lock:owner-1"))
}
