package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// RetryConfig holds configuration for retrying atomic units that lost a store conflict
type RetryConfig struct {
	MaxRetries    int
	RetryInterval time.Duration
	MaxInterval   time.Duration
	JitterFactor  float64 // Factor to add randomness to retry intervals (0.0-1.0)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    5,
		RetryInterval: 100 * time.Millisecond,
		MaxInterval:   2 * time.Second,
		JitterFactor:  0.2,
	}
}

// Validate checks the retry policy
func (c RetryConfig) Validate() error {
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got: %d", c.MaxRetries)
	}
	if c.RetryInterval < 0 || c.MaxInterval < c.RetryInterval {
		return fmt.Errorf("invalid retry intervals: base %s, max %s", c.RetryInterval, c.MaxInterval)
	}
	if c.JitterFactor < 0 || c.JitterFactor > 1 {
		return fmt.Errorf("jitter factor must be within [0, 1], got: %v", c.JitterFactor)
	}
	return nil
}

// RetryOnConflict runs operation until it succeeds, fails with something other than
// ErrStoreConflict, or the attempts run out. The last conflict is returned as ErrStoreConflict.
func RetryOnConflict(
	ctx context.Context,
	config RetryConfig,
	operation func() error,
	logger coreport.Logger,
) error {
	var err error
	attempt := 0

	for ; attempt < config.MaxRetries; attempt++ {
		err = operation()
		if err == nil || !errs.IsStoreConflictError(err) {
			return err
		}
		if attempt == config.MaxRetries-1 {
			break
		}

		backoff := calculateBackoffWithJitter(attempt, config)
		logger.Warn("Store conflict, retrying unit", map[string]any{
			"attempt":     attempt + 1,
			"max_retries": config.MaxRetries,
			"error":       err.Error(),
			"retry_after": backoff.String(),
		})

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.Warn("Retry canceled by context", map[string]any{
				"attempts": attempt + 1,
				"error":    ctx.Err().Error(),
			})
			return fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, ctx.Err())
		}
	}

	logger.Error("All retry attempts failed", map[string]any{
		"attempts":    attempt + 1,
		"max_retries": config.MaxRetries,
		"error":       err.Error(),
	})
	return err
}

// calculateBackoffWithJitter computes the backoff duration with exponential increase and jitter
func calculateBackoffWithJitter(attempt int, config RetryConfig) time.Duration {
	backoff := config.RetryInterval * (1 << uint(attempt))
	if backoff > config.MaxInterval || backoff <= 0 {
		backoff = config.MaxInterval
	}

	if config.JitterFactor > 0 {
		jitter := time.Duration(float64(backoff) * config.JitterFactor * rand.Float64())
		backoff += jitter
	}

	return backoff
}
