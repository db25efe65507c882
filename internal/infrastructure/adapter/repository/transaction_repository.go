package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *TransactionRepository) mapError(operation string, fields map[string]any, err error) error {
	if r.errorClassifier.IsForeignKeyError(err) {
		return errs.ErrUserNotFound
	}
	mapped := r.errorClassifier.ToDomain(err, errs.ErrTransactionNotFound, errs.ErrInvalidRequest)
	if errs.IsStoreUnavailableError(mapped) {
		fields["error"] = err.Error()
		r.logger.Error("Database error when "+operation, fields)
	}
	return mapped
}

// Create saves a new ledger entry
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(model.NewTransaction(transaction)).Error; err != nil {
		return r.mapError("creating transaction", map[string]any{
			"transaction_id": transaction.ID,
			"user_id":        transaction.UserID,
		}, err)
	}

	r.logger.Debug("Transaction created", map[string]any{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"type":           string(transaction.Kind),
	})
	return nil
}

// GetByID retrieves a ledger entry
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel).Error; err != nil {
		return nil, r.mapError("getting transaction", map[string]any{"transaction_id": id}, err)
	}
	return transactionModel.ToEntity(), nil
}

// GetByIDForUpdate retrieves a ledger entry and locks its row until the unit ends
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&transactionModel).Error; err != nil {
		return nil, r.mapError("locking transaction", map[string]any{"transaction_id": id}, err)
	}
	return transactionModel.ToEntity(), nil
}

// UpdateStatus moves a top-up from status from to status to, only if it is still in from
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, from, to entity.TopUpStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND type = ? AND status = ?", id, string(entity.KindTopUp), string(from)).
		Updates(map[string]interface{}{
			"status":       string(to),
			"processed_at": at,
		})
	if result.Error != nil {
		return r.mapError("updating top-up status", map[string]any{"transaction_id": id}, result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Top-up status changed concurrently", map[string]any{
			"transaction_id": id,
			"from":           string(from),
			"to":             string(to),
		})
		return errs.ErrStoreConflict
	}
	return nil
}

// ListByUser returns a user's ledger entries, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// ListPendingTopUps returns top-ups waiting for a decision, newest first
func (r *TransactionRepository) ListPendingTopUps(ctx context.Context) ([]*entity.Transaction, error) {
	return r.list(r.db.WithContext(ctx).Where("type = ? AND status = ?", string(entity.KindTopUp), string(entity.TopUpPending)))
}

func (r *TransactionRepository) list(query *gorm.DB) ([]*entity.Transaction, error) {
	var transactionModels []model.Transaction
	if err := query.Order("created_at DESC, id DESC").Find(&transactionModels).Error; err != nil {
		return nil, r.mapError("listing transactions", map[string]any{}, err)
	}
	transactions := make([]*entity.Transaction, 0, len(transactionModels))
	for i := range transactionModels {
		transactions = append(transactions, transactionModels[i].ToEntity())
	}
	return transactions, nil
}
