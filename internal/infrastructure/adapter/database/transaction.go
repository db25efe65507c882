package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const txKey contextKey = "tx"

// UnitOfWork implements the unit of work pattern for database transactions
type UnitOfWork struct {
	db           *gorm.DB
	isolation    sql.IsolationLevel
	retry        RetryConfig
	errorMapper  *ErrorMapper
	metrics      *MetricsCollector
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(
	db *gorm.DB,
	isolation sql.IsolationLevel,
	retry RetryConfig,
	metrics *MetricsCollector,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		isolation:    isolation,
		retry:        retry,
		errorMapper:  NewErrorMapper(),
		metrics:      metrics,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// Begin starts a new database transaction
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.logger.Debug("Beginning database transaction", map[string]any{
		"isolation": u.isolation.String(),
	})

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: u.isolation})
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, u.errorMapper.MapError(tx.Error, "begin transaction")
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("%w: no transaction found in context", errs.ErrInternalServer)
	}

	u.logger.Debug("Committing database transaction", nil)
	if err := tx.Commit().Error; err != nil {
		mapped := u.errorMapper.MapError(err, "commit transaction")
		if errs.IsStoreConflictError(mapped) {
			u.logger.Warn("Commit lost a serialization conflict", map[string]any{"error": err.Error()})
		} else {
			u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		}
		return mapped
	}

	return nil
}

// Rollback rolls back the current transaction
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("%w: no transaction found in context", errs.ErrInternalServer)
	}

	u.logger.Debug("Rolling back database transaction", nil)

	err := tx.Rollback().Error
	if err == nil || errors.Is(err, sql.ErrTxDone) ||
		strings.Contains(err.Error(), "already been committed or rolled back") {
		return nil
	}

	u.logger.Error("Failed to rollback transaction", map[string]any{
		"error": err.Error(),
	})
	return u.errorMapper.MapError(err, "rollback transaction")
}

// Execute runs fn inside one database transaction, restarting the whole unit
// after a store conflict until the retry budget is spent
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	_, err := u.metrics.MeasureUnit(func() (int, error) {
		attempts := 0
		err := RetryOnConflict(ctx, u.retry, func() error {
			attempts++
			return u.runOnce(ctx, fn)
		}, u.logger)
		return attempts, err
	})
	return err
}

func (u *UnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	txCtx, err := u.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = u.Rollback(txCtx)
			panic(r)
		}
	}()

	if err = fn(txCtx); err != nil {
		if rbErr := u.Rollback(txCtx); rbErr != nil {
			u.logger.Warn("Rollback after failed unit did not complete", map[string]any{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		// Aborted serializable transactions surface from any statement
		if !errs.IsStoreConflictError(err) && u.errorMapper.IsConflict(err) {
			return fmt.Errorf("%w: %v", errs.ErrStoreConflict, err)
		}
		return err
	}

	return u.Commit(txCtx)
}

// GetUserRepository returns a user repository in the current transaction
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return repository.NewUserRepository(u.getDbFromContext(ctx), u.logger)
}

// GetProductRepository returns a product repository in the current transaction
func (u *UnitOfWork) GetProductRepository(ctx context.Context) persistence.ProductRepository {
	return repository.NewProductRepository(u.getDbFromContext(ctx), u.logger)
}

// GetOrderRepository returns an order repository in the current transaction
func (u *UnitOfWork) GetOrderRepository(ctx context.Context) persistence.OrderRepository {
	return repository.NewOrderRepository(u.getDbFromContext(ctx), u.logger)
}

// GetTransactionRepository returns a transaction repository in the current transaction
func (u *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return repository.NewTransactionRepository(u.getDbFromContext(ctx), u.logger)
}

// GetCounterRepository returns a counter repository in the current transaction
func (u *UnitOfWork) GetCounterRepository(ctx context.Context) persistence.CounterRepository {
	return repository.NewCounterRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// GetOutboxRepository returns an outbox repository in the current transaction
func (u *UnitOfWork) GetOutboxRepository(ctx context.Context) persistence.OutboxRepository {
	return repository.NewOutboxRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// getDbFromContext retrieves the database instance from context
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
