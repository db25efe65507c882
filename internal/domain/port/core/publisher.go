package core

import "context"

// MessagePublisher delivers domain events to a message broker
type MessagePublisher interface {
	// Publish sends payload to topic, partitioned by key
	Publish(ctx context.Context, topic, key string, payload []byte) error
	// Close releases the broker connection
	Close() error
}
