package messaging

import (
	"context"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// LogPublisher writes events to the log; used when no broker is configured
type LogPublisher struct {
	logger coreport.Logger
}

// NewLogPublisher creates a new LogPublisher
func NewLogPublisher(logger coreport.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event
func (p *LogPublisher) Publish(_ context.Context, topic, key string, payload []byte) error {
	p.logger.Info("Event", map[string]any{
		"topic":   topic,
		"key":     key,
		"payload": string(payload),
	})
	return nil
}

// Close does nothing
func (p *LogPublisher) Close() error {
	return nil
}
