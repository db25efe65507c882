package core

import "context"

// ReleaseFunc releases a lock obtained from a Locker
type ReleaseFunc func(ctx context.Context) error

// Locker provides short-lived mutual exclusion on a named key across processes
type Locker interface {
	// Acquire takes the lock for key, holding it for at most ttl.
	// It returns errs.ErrStoreConflict when the lock is held elsewhere after all retries.
	Acquire(ctx context.Context, key string, ttl Duration) (ReleaseFunc, error)
}
