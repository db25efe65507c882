package model

import (
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// OutboxMessage represents a domain event waiting to be relayed to the broker
type OutboxMessage struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	MessageKey string    `gorm:"size:128;not null" json:"messageKey"`
	Topic      string    `gorm:"size:64;not null" json:"topic"`
	Payload    string    `gorm:"type:text;not null" json:"payload"`
	Status     string    `gorm:"size:16;not null;index:idx_outbox_status_created,priority:1" json:"status"`
	RetryCount int       `gorm:"not null;default:0" json:"retryCount"`
	CreatedAt  time.Time `gorm:"not null;index:idx_outbox_status_created,priority:2" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for OutboxMessage
func (OutboxMessage) TableName() string {
	return "outbox_messages"
}

// NewOutboxMessage converts an outbox entity into its database model
func NewOutboxMessage(m *entity.OutboxMessage) *OutboxMessage {
	return &OutboxMessage{
		ID:         m.ID,
		MessageKey: m.MessageKey,
		Topic:      m.Topic,
		Payload:    m.Payload,
		Status:     string(m.Status),
		RetryCount: m.RetryCount,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ToEntity converts the model back into an outbox entity
func (m *OutboxMessage) ToEntity() *entity.OutboxMessage {
	return &entity.OutboxMessage{
		ID:         m.ID,
		MessageKey: m.MessageKey,
		Topic:      m.Topic,
		Payload:    m.Payload,
		Status:     entity.OutboxStatus(m.Status),
		RetryCount: m.RetryCount,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
