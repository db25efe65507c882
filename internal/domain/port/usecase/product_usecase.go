package usecase

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// NewProductRequest represents a new menu item; Price is a decimal string
type NewProductRequest struct {
	Name      string
	Price     string
	Category  string
	Image     string
	Available bool
	Stock     int
}

// ProductUpdate carries the fields to change; nil fields are kept
type ProductUpdate struct {
	Name      *string
	Price     *string
	Category  *string
	Image     *string
	Available *bool
	Stock     *int
}

// ProductUseCase defines the inventory operations
type ProductUseCase interface {
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	AddProduct(ctx context.Context, req NewProductRequest) (*entity.Product, error)
	UpdateProduct(ctx context.Context, productID string, update ProductUpdate) (*entity.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}
