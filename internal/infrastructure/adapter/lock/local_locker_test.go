package lock

import (
	"context"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/logger"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	opts := Options{RetryInterval: time.Millisecond, MaxRetries: 3}

	t.Run("Second acquire fails until release", func(t *testing.T) {
		mockTime := coremocks.NewMockTimeProvider(t)
		mockTime.EXPECT().Now().Return(fixedTime).Maybe()
		locker := NewLocalLocker(opts, mockTime, logger.NewNoopLogger())
		ctx := context.Background()

		release, err := locker.Acquire(ctx, "claim:card:ABC123", 5*coreport.Second)
		require.NoError(t, err)

		_, err = locker.Acquire(ctx, "claim:card:ABC123", 5*coreport.Second)
		assert.ErrorIs(t, err, errs.ErrStoreConflict)

		other, err := locker.Acquire(ctx, "claim:card:XYZ789", 5*coreport.Second)
		require.NoError(t, err)
		require.NoError(t, other(ctx))

		require.NoError(t, release(ctx))
		again, err := locker.Acquire(ctx, "claim:card:ABC123", 5*coreport.Second)
		require.NoError(t, err)
		require.NoError(t, again(ctx))
	})

	t.Run("Expired lock can be taken over", func(t *testing.T) {
		mockTime := coremocks.NewMockTimeProvider(t)
		mockTime.EXPECT().Now().Return(fixedTime).Once()
		mockTime.EXPECT().Now().Return(fixedTime.Add(10 * time.Second)).Once()
		locker := NewLocalLocker(opts, mockTime, logger.NewNoopLogger())
		ctx := context.Background()

		stale, err := locker.Acquire(ctx, "k", 5*coreport.Second)
		require.NoError(t, err)

		fresh, err := locker.Acquire(ctx, "k", 5*coreport.Second)
		require.NoError(t, err)

		// The stale holder must not release the new holder's lock
		require.NoError(t, stale(ctx))
		assert.Contains(t, locker.held, "k")
		require.NoError(t, fresh(ctx))
		assert.NotContains(t, locker.held, "k")
	})
}
