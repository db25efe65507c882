package memory

import (
	"context"
	"sort"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
)

// OutboxRepository implements persistence.OutboxRepository on the memory store
type OutboxRepository struct {
	store *Store
}

// Add stores a pending message
func (r *OutboxRepository) Add(ctx context.Context, message *entity.OutboxMessage) error {
	m := model.NewOutboxMessage(message)
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.outbox[m.ID]; exists {
			return errs.ErrInvalidRequest
		}
		d.outbox[m.ID] = m
		return nil
	})
}

// ListPending returns up to limit pending messages, oldest first
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]*entity.OutboxMessage, error) {
	var messages []*entity.OutboxMessage
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range d.outbox {
			if m.Status == string(entity.OutboxPending) {
				messages = append(messages, m.ToEntity())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.Before(messages[j].CreatedAt)
		}
		return messages[i].ID < messages[j].ID
	})
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

// MarkSent marks a message delivered
func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.update(ctx, id, func(m *model.OutboxMessage) { m.Status = string(entity.OutboxSent) })
}

// IncrementRetry records a failed delivery attempt
func (r *OutboxRepository) IncrementRetry(ctx context.Context, id string) error {
	return r.update(ctx, id, func(m *model.OutboxMessage) { m.RetryCount++ })
}

// MarkFailed stops further delivery attempts
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string) error {
	return r.update(ctx, id, func(m *model.OutboxMessage) { m.Status = string(entity.OutboxFailed) })
}

func (r *OutboxRepository) update(ctx context.Context, id string, change func(m *model.OutboxMessage)) error {
	now := r.store.timeProvider.Now()
	return r.store.write(ctx, func(d *dataset) error {
		m, ok := d.outbox[id]
		if !ok {
			return errs.ErrInvalidRequest
		}
		change(m)
		m.UpdatedAt = now
		return nil
	})
}
