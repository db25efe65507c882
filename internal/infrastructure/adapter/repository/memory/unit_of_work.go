package memory

import (
	"context"
	"fmt"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const unitKey contextKey = "memory_unit"

// unit is an open atomic unit and its private working set
type unit struct {
	data   *dataset
	closed bool
}

func unitFrom(ctx context.Context) *unit {
	u, _ := ctx.Value(unitKey).(*unit)
	return u
}

// UnitOfWork implements the unit of work pattern on top of the memory store
type UnitOfWork struct {
	store  *Store
	logger coreport.Logger
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(store *Store, logger coreport.Logger) persistence.UnitOfWork {
	return &UnitOfWork{store: store, logger: logger}
}

// Begin opens a unit and returns a context carrying it
func (w *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if unitFrom(ctx) != nil {
		return ctx, fmt.Errorf("transaction already started in context")
	}
	u, err := w.store.begin(ctx)
	if err != nil {
		w.logger.Error("Failed to begin memory transaction", map[string]any{"error": err.Error()})
		return ctx, err
	}
	return context.WithValue(ctx, unitKey, u), nil
}

// Commit publishes the unit in the given context
func (w *UnitOfWork) Commit(ctx context.Context) error {
	u := unitFrom(ctx)
	if u == nil {
		return fmt.Errorf("no transaction found in context")
	}
	return w.store.commit(u)
}

// Rollback discards the unit in the given context
func (w *UnitOfWork) Rollback(ctx context.Context) error {
	u := unitFrom(ctx)
	if u == nil {
		return fmt.Errorf("no transaction found in context")
	}
	return w.store.rollback(u)
}

// Execute runs fn as one atomic unit. Units never overlap here, so a conditional
// update can only miss through a logic error and no retry is attempted.
func (w *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if unitFrom(ctx) != nil {
		return fn(ctx)
	}

	txCtx, err := w.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = w.Rollback(txCtx)
			panic(r)
		}
	}()

	if err = fn(txCtx); err != nil {
		_ = w.Rollback(txCtx)
		return err
	}
	return w.Commit(txCtx)
}

// GetUserRepository returns a user repository bound to the unit in ctx, if any
func (w *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return &UserRepository{store: w.store}
}

// GetProductRepository returns a product repository bound to the unit in ctx, if any
func (w *UnitOfWork) GetProductRepository(ctx context.Context) persistence.ProductRepository {
	return &ProductRepository{store: w.store}
}

// GetOrderRepository returns an order repository bound to the unit in ctx, if any
func (w *UnitOfWork) GetOrderRepository(ctx context.Context) persistence.OrderRepository {
	return &OrderRepository{store: w.store}
}

// GetTransactionRepository returns a transaction repository bound to the unit in ctx, if any
func (w *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return &TransactionRepository{store: w.store}
}

// GetCounterRepository returns a counter repository bound to the unit in ctx, if any
func (w *UnitOfWork) GetCounterRepository(ctx context.Context) persistence.CounterRepository {
	return &CounterRepository{store: w.store}
}

// GetOutboxRepository returns an outbox repository bound to the unit in ctx, if any
func (w *UnitOfWork) GetOutboxRepository(ctx context.Context) persistence.OutboxRepository {
	return &OutboxRepository{store: w.store}
}
