package repository

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// OutboxRepository implements OutboxRepository interface using GORM
type OutboxRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewOutboxRepository creates a new OutboxRepository instance
func NewOutboxRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *OutboxRepository {
	return &OutboxRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *OutboxRepository) mapError(operation string, fields map[string]any, err error) error {
	mapped := r.errorClassifier.ToDomain(err, errs.ErrInvalidRequest, errs.ErrInvalidRequest)
	if errs.IsStoreUnavailableError(mapped) {
		fields["error"] = err.Error()
		r.logger.Error("Database error when "+operation, fields)
	}
	return mapped
}

// Add stores a pending message in the caller's unit
func (r *OutboxRepository) Add(ctx context.Context, message *entity.OutboxMessage) error {
	if err := r.db.WithContext(ctx).Create(model.NewOutboxMessage(message)).Error; err != nil {
		return r.mapError("adding outbox message", map[string]any{
			"message_id": message.ID,
			"topic":      message.Topic,
		}, err)
	}
	return nil
}

// ListPending returns up to limit pending messages, oldest first
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]*entity.OutboxMessage, error) {
	var messageModels []model.OutboxMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", string(entity.OutboxPending)).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&messageModels).Error
	if err != nil {
		return nil, r.mapError("listing pending outbox messages", map[string]any{"limit": limit}, err)
	}

	messages := make([]*entity.OutboxMessage, 0, len(messageModels))
	for i := range messageModels {
		messages = append(messages, messageModels[i].ToEntity())
	}
	return messages, nil
}

// MarkSent marks a message delivered
func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.update(ctx, "marking outbox message sent", id, map[string]interface{}{
		"status": string(entity.OutboxSent),
	})
}

// IncrementRetry records a failed delivery attempt
func (r *OutboxRepository) IncrementRetry(ctx context.Context, id string) error {
	return r.update(ctx, "recording outbox retry", id, map[string]interface{}{
		"retry_count": gorm.Expr("retry_count + 1"),
	})
}

// MarkFailed stops further delivery attempts
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string) error {
	return r.update(ctx, "marking outbox message failed", id, map[string]interface{}{
		"status": string(entity.OutboxFailed),
	})
}

func (r *OutboxRepository) update(ctx context.Context, operation, id string, values map[string]interface{}) error {
	values["updated_at"] = r.timeProvider.Now()
	result := r.db.WithContext(ctx).Model(&model.OutboxMessage{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return r.mapError(operation, map[string]any{"message_id": id}, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrInvalidRequest
	}
	return nil
}
