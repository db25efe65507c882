package persistence

import (
	"context"
	"time"
)

// ScanLockRepository stores short-lived named locks in the database,
// used to serialize kiosk scans when no Redis is configured
type ScanLockRepository interface {
	// TryAcquire takes the lock for key on behalf of owner unless another owner holds
	// an unexpired lock. It reports whether the lock was taken.
	TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// Release drops the lock if owner still holds it
	Release(ctx context.Context, key, owner string) error

	// CleanupExpired deletes every expired lock and returns how many were removed
	CleanupExpired(ctx context.Context) (int64, error)
}
