package memory

import (
	"context"
	"sort"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
)

// ProductRepository implements persistence.ProductRepository on the memory store
type ProductRepository struct {
	store *Store
}

// GetByID retrieves a product
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var product *entity.Product
	err := r.store.read(ctx, func(d *dataset) error {
		m, ok := d.products[id]
		if !ok {
			return errs.ErrProductNotFound
		}
		product = m.ToEntity()
		return nil
	})
	return product, err
}

// GetByIDForUpdate retrieves a product; units are serialized so no extra lock is taken
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List returns every product ordered by category then name
func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	var products []*entity.Product
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range d.products {
			products = append(products, m.ToEntity())
		}
		return nil
	})
	sort.Slice(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].Name < products[j].Name
	})
	return products, err
}

// Create adds a product
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	m := model.NewProduct(product)
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.products[m.ID]; exists {
			return errs.ErrInvalidRequest
		}
		d.products[m.ID] = m
		return nil
	})
}

// Update saves a product
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	m := model.NewProduct(product)
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.products[m.ID]; !exists {
			return errs.ErrProductNotFound
		}
		d.products[m.ID] = m
		return nil
	})
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.products[id]; !exists {
			return errs.ErrProductNotFound
		}
		delete(d.products, id)
		return nil
	})
}
