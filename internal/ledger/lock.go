package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock keys for the reconciliation critical sections.
const (
	initLockKey = "ledger:init:lock"
	syncLockKey = "ledger:sync:lock"
)

// ErrRunInProgress indicates another reconciliation run holds the lock.
var ErrRunInProgress = errors.New("ledger: reconciliation already running")

// RunLocker serializes reconciliation runs. The ledger procedures were built
// as run-once administrative tools; the lock keeps two operators from racing
// each other without pretending to be a distributed transaction.
type RunLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// RedisLock implements RunLocker with SET NX and a TTL so a crashed run
// cannot wedge the lock forever.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLock constructs a RedisLock.
func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLock{client: client, ttl: ttl}
}

// Acquire takes the named lock or reports ErrRunInProgress.
func (l *RedisLock) Acquire(ctx context.Context, key string) (func(), error) {
	ok, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() {
		_ = l.client.Del(context.Background(), key).Err()
	}, nil
}

// noopLock is used when no Redis is configured (tests, one-off CLI runs).
type noopLock struct{}

func (noopLock) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}
