package memory

import (
	"context"
	"sort"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
)

// TransactionRepository implements persistence.TransactionRepository on the memory store
type TransactionRepository struct {
	store *Store
}

// Create saves a new ledger entry
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	m := model.NewTransaction(transaction)
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.transactions[m.ID]; exists {
			return errs.ErrInvalidRequest
		}
		if _, exists := d.users[m.UserID]; !exists {
			return errs.ErrUserNotFound
		}
		d.transactions[m.ID] = m
		return nil
	})
}

// GetByID retrieves a ledger entry
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var transaction *entity.Transaction
	err := r.store.read(ctx, func(d *dataset) error {
		m, ok := d.transactions[id]
		if !ok {
			return errs.ErrTransactionNotFound
		}
		transaction = m.ToEntity()
		return nil
	})
	return transaction, err
}

// GetByIDForUpdate retrieves a ledger entry; units are serialized so no extra lock is taken
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus moves a top-up from status from to status to, only if it is still in from
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, from, to entity.TopUpStatus, at time.Time) error {
	return r.store.write(ctx, func(d *dataset) error {
		m, ok := d.transactions[id]
		if !ok {
			return errs.ErrTransactionNotFound
		}
		if m.Kind != string(entity.KindTopUp) || m.Status != string(from) {
			return errs.ErrStoreConflict
		}
		processedAt := at
		m.Status = string(to)
		m.ProcessedAt = &processedAt
		return nil
	})
}

// ListByUser returns a user's ledger entries, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	return r.list(ctx, func(m *model.Transaction) bool { return m.UserID == userID })
}

// ListPendingTopUps returns top-ups waiting for a decision, newest first
func (r *TransactionRepository) ListPendingTopUps(ctx context.Context) ([]*entity.Transaction, error) {
	return r.list(ctx, func(m *model.Transaction) bool {
		return m.Kind == string(entity.KindTopUp) && m.Status == string(entity.TopUpPending)
	})
}

func (r *TransactionRepository) list(ctx context.Context, match func(m *model.Transaction) bool) ([]*entity.Transaction, error) {
	var transactions []*entity.Transaction
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range d.transactions {
			if match(m) {
				transactions = append(transactions, m.ToEntity())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return transactions, nil
}
