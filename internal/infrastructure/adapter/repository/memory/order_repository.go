package memory

import (
	"context"
	"sort"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
)

// OrderRepository implements persistence.OrderRepository on the memory store
type OrderRepository struct {
	store *Store
}

// Create saves a new order with its line items
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	m := model.NewOrder(order)
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.orders[m.ID]; exists {
			return errs.ErrInvalidRequest
		}
		if _, exists := d.users[m.UserID]; !exists {
			return errs.ErrUserNotFound
		}
		d.orders[m.ID] = m
		return nil
	})
}

// GetByID retrieves an order
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order *entity.Order
	err := r.store.read(ctx, func(d *dataset) error {
		m, ok := d.orders[id]
		if !ok {
			return errs.ErrOrderNotFound
		}
		order = m.ToEntity()
		return nil
	})
	return order, err
}

// GetByIDForUpdate retrieves an order; units are serialized so no extra lock is taken
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// ListByUser returns a user's orders, newest first
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	return r.list(ctx, func(m *model.Order) bool { return m.UserID == userID })
}

// ListAll returns every order, newest first
func (r *OrderRepository) ListAll(ctx context.Context) ([]*entity.Order, error) {
	return r.list(ctx, func(*model.Order) bool { return true })
}

// ListByStatuses returns the orders in any of statuses, newest first
func (r *OrderRepository) ListByStatuses(ctx context.Context, statuses []entity.OrderStatus) ([]*entity.Order, error) {
	wanted := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[string(s)] = struct{}{}
	}
	return r.list(ctx, func(m *model.Order) bool {
		_, ok := wanted[m.Status]
		return ok
	})
}

// FindOldestPendingByUser returns the user's earliest pending order
func (r *OrderRepository) FindOldestPendingByUser(ctx context.Context, userID string) (*entity.Order, error) {
	var oldest *model.Order
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range d.orders {
			if m.UserID != userID || m.Status != string(entity.OrderPending) {
				continue
			}
			if oldest == nil || olderThan(m, oldest) {
				oldest = m
			}
		}
		if oldest == nil {
			return errs.ErrOrderNotFound
		}
		oldest = oldest.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return oldest.ToEntity(), nil
}

// FindPendingByUserAndCode returns the user's pending order carrying code
func (r *OrderRepository) FindPendingByUserAndCode(ctx context.Context, userID, code string) (*entity.Order, error) {
	orders, err := r.list(ctx, func(m *model.Order) bool {
		return m.UserID == userID && m.Status == string(entity.OrderPending) && m.ClaimCode == code
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, errs.ErrOrderNotFound
	}
	return orders[len(orders)-1], nil
}

// UpdateStatus moves the order from status from to status to, only if it is still in from
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus, at time.Time) error {
	return r.store.write(ctx, func(d *dataset) error {
		m, ok := d.orders[id]
		if !ok {
			return errs.ErrOrderNotFound
		}
		if m.Status != string(from) {
			return errs.ErrStoreConflict
		}
		m.Status = string(to)
		m.UpdatedAt = at
		if to == entity.OrderClaimed {
			claimedAt := at
			m.ClaimedAt = &claimedAt
		}
		return nil
	})
}

func (r *OrderRepository) list(ctx context.Context, match func(m *model.Order) bool) ([]*entity.Order, error) {
	var found []*model.Order
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range d.orders {
			if match(m) {
				found = append(found, m.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return olderThan(found[j], found[i]) })
	orders := make([]*entity.Order, 0, len(found))
	for _, m := range found {
		orders = append(orders, m.ToEntity())
	}
	return orders, nil
}

// olderThan orders by creation time, then ID
func olderThan(a, b *model.Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
