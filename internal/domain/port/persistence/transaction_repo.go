package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// TransactionRepository defines essential methods to interact with ledger entries
type TransactionRepository interface {
	// Create saves a new ledger entry
	//
	// Possible errors:
	// - ErrUserNotFound: If referenced user does not exist
	// - ErrStoreUnavailable: If the store cannot be reached
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a ledger entry
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the entry doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// GetByIDForUpdate retrieves a ledger entry and locks the row until the unit ends
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Transaction, error)

	// UpdateStatus moves a top-up from status from to status to, only if it is still in from,
	// and records at as the processing time
	//
	// Possible errors:
	// - ErrStoreConflict: If the top-up is no longer in from
	UpdateStatus(ctx context.Context, id string, from, to entity.TopUpStatus, at time.Time) error

	// ListByUser returns a user's ledger entries, newest first
	ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error)

	// ListPendingTopUps returns top-ups waiting for a decision, newest first
	ListPendingTopUps(ctx context.Context) ([]*entity.Transaction, error)
}
