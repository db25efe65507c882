package common

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
)

// EventRecorder writes domain events to the outbox of the caller's unit,
// so an event exists exactly when the change it describes was committed
type EventRecorder struct {
	uow          persistence.UnitOfWork
	idGen        coreport.IDGenerator
	timeProvider coreport.TimeProvider
}

// NewEventRecorder creates a new EventRecorder
func NewEventRecorder(uow persistence.UnitOfWork, idGen coreport.IDGenerator, timeProvider coreport.TimeProvider) *EventRecorder {
	return &EventRecorder{uow: uow, idGen: idGen, timeProvider: timeProvider}
}

// Record adds event under topic, partitioned by key
func (r *EventRecorder) Record(ctx context.Context, topic, key string, event any) error {
	msg, err := entity.NewOutboxMessage(r.idGen.NewID(), topic, key, event, r.timeProvider)
	if err != nil {
		return err
	}
	return r.uow.GetOutboxRepository(ctx).Add(ctx, msg)
}
