package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// OrderRepository defines methods to store and transition orders
type OrderRepository interface {
	// Create saves a new order with its line items
	Create(ctx context.Context, order *entity.Order) error

	// GetByID retrieves an order with its line items
	//
	// Possible errors:
	// - ErrOrderNotFound: If the order doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// GetByIDForUpdate retrieves an order and locks the row until the unit ends
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)

	// ListByUser returns a user's orders, newest first
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)

	// ListAll returns every order, newest first
	ListAll(ctx context.Context) ([]*entity.Order, error)

	// ListByStatuses returns the orders in any of statuses, newest first
	ListByStatuses(ctx context.Context, statuses []entity.OrderStatus) ([]*entity.Order, error)

	// FindOldestPendingByUser returns the user's pending order with the earliest creation time,
	// ties broken by ID, locking it until the unit ends
	//
	// Possible errors:
	// - ErrOrderNotFound: If the user has no pending order
	FindOldestPendingByUser(ctx context.Context, userID string) (*entity.Order, error)

	// FindPendingByUserAndCode returns the user's pending order carrying claim code, locking it
	//
	// Possible errors:
	// - ErrOrderNotFound: If no pending order has the code
	FindPendingByUserAndCode(ctx context.Context, userID, code string) (*entity.Order, error)

	// UpdateStatus moves the order from status from to status to, only if it is still in from.
	// ClaimedAt is set to at when to is claimed.
	//
	// Possible errors:
	// - ErrStoreConflict: If the order is no longer in from
	UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus, at time.Time) error
}
