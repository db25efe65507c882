package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	timeadapter "github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/time"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakePool struct {
	stats   sql.DBStats
	pingErr error
}

func (f *fakePool) Stats() sql.DBStats                  { return f.stats }
func (f *fakePool) PingContext(_ context.Context) error { return f.pingErr }

func TestConnectionPoolMonitor(t *testing.T) {
	t.Run("Healthy pool", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Debug("Database connection pool stats", mock.Anything).Once()

		monitor := NewConnectionPoolMonitor(&fakePool{stats: sql.DBStats{MaxOpenConnections: 10, InUse: 2, Idle: 3, OpenConnections: 5}}, mockLogger)
		monitor.Collect(context.Background())

		metrics := monitor.GetMetrics()
		assert.True(t, metrics.Healthy)
		assert.Equal(t, 2, metrics.InUse)
		assert.Equal(t, 5, metrics.OpenConnections)
	})

	t.Run("Nearly exhausted and unreachable", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Error("Database ping failed", mock.Anything).Once()
		mockLogger.EXPECT().Warn("Database connection pool nearly exhausted", mock.Anything).Once()

		pool := &fakePool{stats: sql.DBStats{MaxOpenConnections: 10, InUse: 9}, pingErr: errors.New("connection refused")}
		monitor := NewConnectionPoolMonitor(pool, mockLogger)
		monitor.Collect(context.Background())

		assert.False(t, monitor.GetMetrics().Healthy)
	})

	t.Run("Stop is idempotent", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Debug(mock.Anything, mock.Anything).Maybe()

		monitor := NewConnectionPoolMonitor(&fakePool{}, mockLogger)
		monitor.Start(time.Hour)
		monitor.Stop()
		monitor.Stop()
	})
}

func TestMetricsCollector(t *testing.T) {
	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Slow unit is reported", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Warn("Slow atomic unit", mock.MatchedBy(func(fields map[string]any) bool {
			return fields["attempts"] == 3
		})).Once()

		collector := NewMetricsCollector(mockLogger, timeadapter.NewSteppingTimeProvider(start, time.Second), 500*time.Millisecond)
		metrics, err := collector.MeasureUnit(func() (int, error) { return 3, nil })

		require.NoError(t, err)
		assert.Equal(t, 3, metrics.Attempts)
		assert.Equal(t, time.Second, metrics.Duration)
	})

	t.Run("Fast unit is silent", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		collector := NewMetricsCollector(mockLogger, timeadapter.NewSteppingTimeProvider(start, time.Millisecond), 500*time.Millisecond)

		metrics, err := collector.MeasureUnit(func() (int, error) { return 1, errors.New("boom") })

		assert.Error(t, err)
		assert.True(t, metrics.Failed)
	})
}
