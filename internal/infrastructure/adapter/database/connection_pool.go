package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// PoolStatsSource is the part of *sql.DB the monitor reads
type PoolStatsSource interface {
	Stats() sql.DBStats
	PingContext(ctx context.Context) error
}

// ConnectionPoolMetrics tracks database connection pool metrics
type ConnectionPoolMetrics struct {
	OpenConnections    int
	IdleConnections    int
	MaxOpenConnections int
	InUse              int
	WaitCount          int64
	WaitDuration       time.Duration
	Healthy            bool
}

// ConnectionPoolMonitor periodically pings the database and records pool statistics,
// warning when the pool is close to exhaustion
type ConnectionPoolMonitor struct {
	source       PoolStatsSource
	logger       coreport.Logger
	metricsCache ConnectionPoolMetrics
	mutex        sync.RWMutex
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(source PoolStatsSource, logger coreport.Logger) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		source:   source,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start collects once and then every interval until Stop
func (m *ConnectionPoolMonitor) Start(interval time.Duration) {
	m.Collect(context.Background())

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Collect(context.Background())
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop stops the monitoring
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// GetMetrics returns the last collected connection pool metrics
func (m *ConnectionPoolMonitor) GetMetrics() ConnectionPoolMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.metricsCache
}

// Collect pings the database and refreshes the cached metrics
func (m *ConnectionPoolMonitor) Collect(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	healthy := true
	if err := m.source.PingContext(pingCtx); err != nil {
		healthy = false
		m.logger.Error("Database ping failed", map[string]any{
			"error": err.Error(),
		})
	}

	stats := m.source.Stats()

	m.mutex.Lock()
	m.metricsCache = ConnectionPoolMetrics{
		OpenConnections:    stats.OpenConnections,
		IdleConnections:    stats.Idle,
		MaxOpenConnections: stats.MaxOpenConnections,
		InUse:              stats.InUse,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
		Healthy:            healthy,
	}
	m.mutex.Unlock()

	threshold := float64(stats.MaxOpenConnections) * 0.8
	if stats.MaxOpenConnections > 0 && float64(stats.InUse) > threshold {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     stats.InUse,
			"max_open":   stats.MaxOpenConnections,
			"idle":       stats.Idle,
			"wait_count": stats.WaitCount,
			"wait_time":  stats.WaitDuration.String(),
		})
		return
	}

	m.logger.Debug("Database connection pool stats", map[string]any{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
	})
}
