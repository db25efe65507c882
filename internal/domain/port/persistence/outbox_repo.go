package persistence

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// OutboxRepository stores domain events until they are relayed to the broker
type OutboxRepository interface {
	// Add stores a pending message in the caller's unit
	Add(ctx context.Context, message *entity.OutboxMessage) error

	// ListPending returns up to limit pending messages, oldest first
	ListPending(ctx context.Context, limit int) ([]*entity.OutboxMessage, error)

	// MarkSent marks a message delivered
	MarkSent(ctx context.Context, id string) error

	// IncrementRetry records a failed delivery attempt
	IncrementRetry(ctx context.Context, id string) error

	// MarkFailed stops further delivery attempts
	MarkFailed(ctx context.Context, id string) error
}
