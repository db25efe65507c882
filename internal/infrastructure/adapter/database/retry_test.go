package database

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:    maxRetries,
		RetryInterval: time.Millisecond,
		MaxInterval:   2 * time.Millisecond,
	}
}

func TestRetryOnConflict(t *testing.T) {
	t.Run("Succeeds after conflicts", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Warn("Store conflict, retrying unit", mock.Anything).Times(2)

		calls := 0
		err := RetryOnConflict(context.Background(), fastRetry(5), func() error {
			calls++
			if calls < 3 {
				return errs.ErrStoreConflict
			}
			return nil
		}, mockLogger)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Other errors are not retried", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)

		calls := 0
		err := RetryOnConflict(context.Background(), fastRetry(5), func() error {
			calls++
			return errs.ErrInsufficientFunds
		}, mockLogger)

		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, 1, calls)
	})

	t.Run("Budget exhausted", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Warn(mock.Anything, mock.Anything).Times(2)
		mockLogger.EXPECT().Error("All retry attempts failed", mock.Anything).Once()

		calls := 0
		err := RetryOnConflict(context.Background(), fastRetry(3), func() error {
			calls++
			return errs.ErrStoreConflict
		}, mockLogger)

		assert.ErrorIs(t, err, errs.ErrStoreConflict)
		assert.Equal(t, 3, calls)
	})

	t.Run("Canceled context stops retrying", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		config := fastRetry(5)
		config.RetryInterval = time.Hour
		config.MaxInterval = time.Hour
		err := RetryOnConflict(ctx, config, func() error {
			return errs.ErrStoreConflict
		}, mockLogger)

		assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	})
}

func TestCalculateBackoffWithJitter(t *testing.T) {
	config := RetryConfig{MaxRetries: 5, RetryInterval: 10 * time.Millisecond, MaxInterval: 50 * time.Millisecond}

	assert.Equal(t, 10*time.Millisecond, calculateBackoffWithJitter(0, config))
	assert.Equal(t, 40*time.Millisecond, calculateBackoffWithJitter(2, config))
	assert.Equal(t, 50*time.Millisecond, calculateBackoffWithJitter(4, config))

	config.JitterFactor = 0.5
	for i := 0; i < 20; i++ {
		backoff := calculateBackoffWithJitter(1, config)
		assert.GreaterOrEqual(t, backoff, 20*time.Millisecond)
		assert.LessOrEqual(t, backoff, 30*time.Millisecond)
	}
}

func TestRetryConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultRetryConfig().Validate())
	assert.Error(t, RetryConfig{MaxRetries: 0}.Validate())
	assert.Error(t, RetryConfig{MaxRetries: 1, RetryInterval: time.Second, MaxInterval: time.Millisecond}.Validate())
	assert.Error(t, RetryConfig{MaxRetries: 1, JitterFactor: 2}.Validate())
}

func TestErrorMapper(t *testing.T) {
	m := NewErrorMapper()

	assert.NoError(t, m.MapError(nil, "commit"))
	assert.ErrorIs(t, m.MapError(errors.New("ERROR: could not serialize access (SQLSTATE 40001)"), "commit"), errs.ErrStoreConflict)
	assert.ErrorIs(t, m.MapError(errors.New("dial tcp: connection refused"), "begin"), errs.ErrStoreUnavailable)
	assert.Same(t, errs.ErrUserNotFound, m.MapError(errs.ErrUserNotFound, "commit"))

	assert.True(t, m.IsConflict(errors.New("Error 1213: Deadlock found")))
	assert.False(t, m.IsConflict(errs.ErrInsufficientFunds))
}
