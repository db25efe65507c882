package entity

import (
	"encoding/json"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// OutboxStatus is the delivery state of an outbox message
type OutboxStatus string

// Outbox statuses
const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxFailed  OutboxStatus = "FAILED"
)

// Event topics
const (
	TopicOrderPlaced        = "order.placed"
	TopicOrderClaimed       = "order.claimed"
	TopicOrderStatusChanged = "order.status_changed"
	TopicTopUpRequested     = "topup.requested"
	TopicTopUpApproved      = "topup.approved"
	TopicTopUpDeclined      = "topup.declined"
)

// OutboxMessage is a domain event stored in the same unit as the change it describes
type OutboxMessage struct {
	ID         string
	MessageKey string
	Topic      string
	Payload    string
	Status     OutboxStatus
	RetryCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOutboxMessage serializes event as JSON into a pending message
func NewOutboxMessage(id, topic, key string, event any, timeProvider coreport.TimeProvider) (*OutboxMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", topic, err)
	}
	now := timeProvider.Now()
	return &OutboxMessage{
		ID:         id,
		MessageKey: key,
		Topic:      topic,
		Payload:    string(payload),
		Status:     OutboxPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// OrderEvent is the payload of order topics
type OrderEvent struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	PrevStatus  string    `json:"prevStatus,omitempty"`
	TotalAmount string    `json:"totalAmount"`
	MealType    string    `json:"mealType,omitempty"`
	ItemCount   int       `json:"itemCount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// NewOrderEvent builds the event payload for order
func NewOrderEvent(order *Order, prev OrderStatus, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		PrevStatus:  string(prev),
		TotalAmount: AmountInCentsToString(order.TotalInCents),
		MealType:    string(order.MealType),
		ItemCount:   len(order.Items),
		OccurredAt:  at,
	}
}

// TopUpEvent is the payload of top-up topics
type TopUpEvent struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	ResultBalance string    `json:"resultBalance,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewTopUpEvent builds the event payload for a top-up; resultBalance may be empty
func NewTopUpEvent(t *Transaction, resultBalance string, at time.Time) TopUpEvent {
	return TopUpEvent{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Amount:        AmountInCentsToString(t.AmountInCents),
		Status:        string(t.Status),
		ResultBalance: resultBalance,
		OccurredAt:    at,
	}
}
