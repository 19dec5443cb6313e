package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a slot lock.
type UnlockFunc func(ctx context.Context) error

// SlotLocker coordinates exclusive access to a slot across processes.
// Lock blocks until the lock is acquired or ctx is done. The lock expires
// after ttl even if never released.
type SlotLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
