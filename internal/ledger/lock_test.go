package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLock(client, time.Minute), mr
}

func TestRedisLockSerializesRuns(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, syncLockKey)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, syncLockKey)
	require.ErrorIs(t, err, ErrRunInProgress)

	release()

	release, err = lock.Acquire(ctx, syncLockKey)
	require.NoError(t, err)
	release()
}

func TestRedisLockKeysAreIndependent(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	releaseInit, err := lock.Acquire(ctx, initLockKey)
	require.NoError(t, err)
	defer releaseInit()

	releaseSync, err := lock.Acquire(ctx, syncLockKey)
	require.NoError(t, err)
	releaseSync()
}

func TestRedisLockExpiresAfterTTL(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	_, err := lock.Acquire(ctx, syncLockKey)
	require.NoError(t, err)

	// A crashed run never calls release; the TTL frees the lock.
	mr.FastForward(2 * time.Minute)

	release, err := lock.Acquire(ctx, syncLockKey)
	require.NoError(t, err)
	release()
}

func TestServiceReportsRunInProgress(t *testing.T) {
	lock, _ := newTestLock(t)
	repo := &memoryRepo{}
	svc := NewService(repo, staticMaterials{}, staticOrders{}, lock, nil)

	release, err := lock.Acquire(context.Background(), syncLockKey)
	require.NoError(t, err)
	defer release()

	_, err = svc.SyncOrderLedger(context.Background())
	require.ErrorIs(t, err, ErrRunInProgress)
}
