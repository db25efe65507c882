package usecase

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// PlaceOrderRequest represents an incoming cart checkout
type PlaceOrderRequest struct {
	UserID       string
	Items        []entity.OrderItem
	TotalInCents int64
	MealType     string
}

// OrderUseCase defines the order operations
type OrderUseCase interface {
	// PlaceOrder debits the wallet, creates the order and records the debit entry
	// in one atomic unit. Nothing is written when any step fails.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*entity.Order, error)

	// GetOrder returns one order
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)

	// GetOrders returns the user's orders, newest first
	GetOrders(ctx context.Context, userID string) ([]*entity.Order, error)

	// GetAllOrders returns every order, newest first
	GetAllOrders(ctx context.Context) ([]*entity.Order, error)

	// UpdateOrderStatus moves an order along the status table; cancelling refunds the wallet
	UpdateOrderStatus(ctx context.Context, orderID string, status string) (*entity.Order, error)
}
