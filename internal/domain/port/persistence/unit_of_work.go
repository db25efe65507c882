package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating atomic units
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// Execute runs fn as one atomic unit. Repositories obtained from the context passed to fn
	// are bound to the unit. The unit is committed when fn returns nil and rolled back otherwise.
	// Store conflicts restart the whole unit until the retry budget is spent, after which
	// ErrStoreConflict is returned. When ctx already carries a unit, fn joins it.
	Execute(ctx context.Context, fn func(ctx context.Context) error) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetProductRepository returns a product repository bound to the current transaction
	GetProductRepository(ctx context.Context) ProductRepository

	// GetOrderRepository returns an order repository bound to the current transaction
	GetOrderRepository(ctx context.Context) OrderRepository

	// GetTransactionRepository returns a transaction repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetCounterRepository returns a counter repository bound to the current transaction
	GetCounterRepository(ctx context.Context) CounterRepository

	// GetOutboxRepository returns an outbox repository bound to the current transaction
	GetOutboxRepository(ctx context.Context) OutboxRepository
}
