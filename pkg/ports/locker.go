package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes cart updates for one session across store
// replicas sharing a backend.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx is done. The lock expires on its
	// own after ttl, so a crashed holder cannot wedge the session.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
