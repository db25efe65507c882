package persistence

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// ProductRepository defines methods to manage the menu
type ProductRepository interface {
	// GetByID retrieves a product
	//
	// Possible errors:
	// - ErrProductNotFound: If the product doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// GetByIDForUpdate retrieves a product and locks the row until the unit ends
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)

	// List returns every product ordered by category then name
	List(ctx context.Context) ([]*entity.Product, error)

	// Create adds a product
	Create(ctx context.Context, product *entity.Product) error

	// Update saves a product
	//
	// Possible errors:
	// - ErrProductNotFound: If the product doesn't exist
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product; past orders keep their snapshots
	//
	// Possible errors:
	// - ErrProductNotFound: If the product doesn't exist
	Delete(ctx context.Context, id string) error
}
