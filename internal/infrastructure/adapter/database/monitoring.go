package database

import (
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// UnitMetrics holds measurements about one atomic unit
type UnitMetrics struct {
	Attempts int
	Duration time.Duration
	Failed   bool
}

// MetricsCollector measures atomic units and reports slow ones
type MetricsCollector struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	slowThreshold time.Duration
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider, slowThreshold time.Duration) *MetricsCollector {
	return &MetricsCollector{
		logger:        logger,
		timeProvider:  timeProvider,
		slowThreshold: slowThreshold,
	}
}

// MeasureUnit runs fn, which reports how many attempts it made, and logs it when slow
func (c *MetricsCollector) MeasureUnit(fn func() (int, error)) (UnitMetrics, error) {
	start := c.timeProvider.Now()
	attempts, err := fn()

	metrics := UnitMetrics{
		Attempts: attempts,
		Duration: c.timeProvider.Now().Sub(start),
		Failed:   err != nil,
	}

	if c.slowThreshold > 0 && metrics.Duration > c.slowThreshold {
		fields := map[string]any{
			"duration_ms": metrics.Duration.Milliseconds(),
			"attempts":    attempts,
			"failed":      metrics.Failed,
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		c.logger.Warn("Slow atomic unit", fields)
	}

	return metrics, err
}
