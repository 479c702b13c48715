package cron

import (
	"context"
	"time"

	pkgredis "github.com/printflowhq/printflow-backend/pkg/redis"
)

// Locker serializes job execution across worker replicas.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

type redisLocker struct {
	client *pkgredis.Client
}

// NewRedisLocker builds a Locker on top of the shared redis client.
func NewRedisLocker(client *pkgredis.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.client.LockKey(name), "1", ttl)
}

func (l *redisLocker) Release(ctx context.Context, name string) error {
	return l.client.Del(ctx, l.client.LockKey(name))
}

// noopLocker runs jobs unconditionally. Used when redis is not configured,
// which implies a single worker.
type noopLocker struct{}

// NewNoopLocker builds a Locker that always grants the lock.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (noopLocker) Release(ctx context.Context, name string) error {
	return nil
}
