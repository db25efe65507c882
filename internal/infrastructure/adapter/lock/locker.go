package lock

import (
	"context"
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// Options control how long Acquire keeps trying before giving up
type Options struct {
	RetryInterval time.Duration
	MaxRetries    int
}

// DefaultOptions returns the retry settings used by the kiosk scan lock
func DefaultOptions() Options {
	return Options{
		RetryInterval: 50 * time.Millisecond,
		MaxRetries:    20,
	}
}

// acquireWithRetry calls try until it reports success, the retries run out or ctx ends
func acquireWithRetry(ctx context.Context, key string, opts Options, logger coreport.Logger, try func(ctx context.Context) (bool, error)) error {
	attempts := opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		ok, err := try(ctx)
		if err != nil {
			return fmt.Errorf("%w: acquire lock %s: %s", errs.ErrStoreUnavailable, key, err.Error())
		}
		if ok {
			return nil
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: acquire lock %s: %s", errs.ErrStoreConflict, key, ctx.Err().Error())
		case <-time.After(opts.RetryInterval):
		}
	}

	logger.Warn("Lock is held by another worker", map[string]any{
		"lock_key": key,
		"attempts": attempts,
	})
	return fmt.Errorf("%w: lock %s is held", errs.ErrStoreConflict, key)
}
