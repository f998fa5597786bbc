// Package lock provides the critical sections that serialize stock mutations.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when ctx ends before the lock is obtained.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive sections by key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// LocalLocker serializes callers inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}
}

const redisKeyPrefix = "lock:"

// release deletes the key only while it still holds our token.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes callers across processes sharing one Redis. The TTL bounds
// how long a crashed holder can block others.
type RedisLocker struct {
	Rdb           *redis.Client
	TTL           time.Duration
	RetryInterval time.Duration
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	ttl := l.TTL
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	retry := l.RetryInterval
	if retry <= 0 {
		retry = 25 * time.Millisecond
	}
	redisKey := redisKeyPrefix + key
	token := uuid.New().String()

	for {
		ok, err := l.Rdb.SetNX(ctx, redisKey, token, ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, err
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					_ = release.Run(context.Background(), l.Rdb, []string{redisKey}, token).Err()
				})
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		case <-time.After(retry):
		}
	}
}
