package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// ErrLockTimeout is returned when a submission lock cannot be acquired.
var ErrLockTimeout = errors.New("lock acquisition timed out")

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 50 * time.Millisecond
)

// RedisLocker serializes attendance submissions per employee across
// instances using SET NX with a TTL.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a locker using the given key prefix.
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	if prefix == "" {
		prefix = "faceattend:submit:"
	}
	return &RedisLocker{client: client, prefix: prefix}
}

// Lock blocks until the key is acquired or ctx is done. The returned
// function releases the lock.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	full := l.prefix + key
	for {
		ok, err := l.client.SetNX(ctx, full, "1", lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				_ = l.client.Del(context.Background(), full).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(lockRetryWait):
		}
	}
}
