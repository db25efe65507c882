package lock

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/google/uuid"
)

// TableLocker keeps locks as rows of the scan_locks table; used when Redis is disabled
// and several kiosks share one SQL database
type TableLocker struct {
	repo   persistence.ScanLockRepository
	opts   Options
	logger coreport.Logger
}

// NewTableLocker creates a locker backed by repo
func NewTableLocker(repo persistence.ScanLockRepository, opts Options, logger coreport.Logger) *TableLocker {
	return &TableLocker{repo: repo, opts: opts, logger: logger}
}

// Acquire takes the lock for key, holding it for at most ttl
func (l *TableLocker) Acquire(ctx context.Context, key string, ttl coreport.Duration) (coreport.ReleaseFunc, error) {
	owner := uuid.NewString()
	err := acquireWithRetry(ctx, key, l.opts, l.logger, func(ctx context.Context) (bool, error) {
		return l.repo.TryAcquire(ctx, key, owner, ttl.Std())
	})
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		return l.repo.Release(ctx, key, owner)
	}, nil
}

// Sweep deletes locks left behind by kiosks that died while holding them
func (l *TableLocker) Sweep(ctx context.Context) {
	removed, err := l.repo.CleanupExpired(ctx)
	if err != nil {
		l.logger.Warn("Failed to remove expired scan locks", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if removed > 0 {
		l.logger.Info("Expired scan locks removed", map[string]any{
			"count": removed,
		})
	}
}

// RunSweeper calls Sweep every interval until ctx ends
func (l *TableLocker) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(ctx)
		}
	}
}
