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

// OrderRepository implements OrderRepository interface using GORM
type OrderRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewOrderRepository creates a new OrderRepository instance
func NewOrderRepository(db *gorm.DB, logger coreport.Logger) *OrderRepository {
	return &OrderRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *OrderRepository) mapError(operation string, fields map[string]any, err error) error {
	mapped := r.errorClassifier.ToDomain(err, errs.ErrOrderNotFound, errs.ErrInvalidRequest)
	if errs.IsStoreUnavailableError(mapped) {
		fields["error"] = err.Error()
		r.logger.Error("Database error when "+operation, fields)
	}
	return mapped
}

// withItems preloads line items in their original order
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// Create saves a new order with its line items
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if err := r.db.WithContext(ctx).Create(model.NewOrder(order)).Error; err != nil {
		return r.mapError("creating order", map[string]any{"order_id": order.ID, "user_id": order.UserID}, err)
	}
	return nil
}

// GetByID retrieves an order with its line items
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var orderModel model.Order
	if err := withItems(r.db.WithContext(ctx)).Where("id = ?", id).First(&orderModel).Error; err != nil {
		return nil, r.mapError("getting order", map[string]any{"order_id": id}, err)
	}
	return orderModel.ToEntity(), nil
}

// GetByIDForUpdate retrieves an order and locks its row until the unit ends
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	var orderModel model.Order
	if err := withItems(forUpdate(r.db.WithContext(ctx))).Where("id = ?", id).First(&orderModel).Error; err != nil {
		return nil, r.mapError("locking order", map[string]any{"order_id": id}, err)
	}
	return orderModel.ToEntity(), nil
}

// ListByUser returns a user's orders, newest first
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// ListAll returns every order, newest first
func (r *OrderRepository) ListAll(ctx context.Context) ([]*entity.Order, error) {
	return r.list(r.db.WithContext(ctx))
}

// ListByStatuses returns the orders in any of statuses, newest first
func (r *OrderRepository) ListByStatuses(ctx context.Context, statuses []entity.OrderStatus) ([]*entity.Order, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return r.list(r.db.WithContext(ctx).Where("status IN ?", names))
}

// FindOldestPendingByUser returns the user's earliest pending order, ties broken by ID, and locks it
func (r *OrderRepository) FindOldestPendingByUser(ctx context.Context, userID string) (*entity.Order, error) {
	var orderModel model.Order
	err := withItems(forUpdate(r.db.WithContext(ctx))).
		Where("user_id = ? AND status = ?", userID, string(entity.OrderPending)).
		Order("created_at ASC, id ASC").
		First(&orderModel).Error
	if err != nil {
		return nil, r.mapError("finding pending order", map[string]any{"user_id": userID}, err)
	}
	return orderModel.ToEntity(), nil
}

// FindPendingByUserAndCode returns the user's pending order carrying code and locks it
func (r *OrderRepository) FindPendingByUserAndCode(ctx context.Context, userID, code string) (*entity.Order, error) {
	var orderModel model.Order
	err := withItems(forUpdate(r.db.WithContext(ctx))).
		Where("user_id = ? AND status = ? AND claim_code = ?", userID, string(entity.OrderPending), code).
		Order("created_at ASC, id ASC").
		First(&orderModel).Error
	if err != nil {
		return nil, r.mapError("finding order by claim code", map[string]any{"user_id": userID}, err)
	}
	return orderModel.ToEntity(), nil
}

// UpdateStatus moves the order from status from to status to, only if it is still in from.
// Zero affected rows means another unit got there first.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus, at time.Time) error {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": at,
	}
	if to == entity.OrderClaimed {
		updates["claimed_at"] = at
	}

	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return r.mapError("updating order status", map[string]any{"order_id": id}, result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Order status changed concurrently", map[string]any{
			"order_id": id,
			"from":     string(from),
			"to":       string(to),
		})
		return errs.ErrStoreConflict
	}
	return nil
}

func (r *OrderRepository) list(query *gorm.DB) ([]*entity.Order, error) {
	var orderModels []model.Order
	if err := withItems(query).Order("created_at DESC, id DESC").Find(&orderModels).Error; err != nil {
		return nil, r.mapError("listing orders", map[string]any{}, err)
	}
	orders := make([]*entity.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, orderModels[i].ToEntity())
	}
	return orders, nil
}
