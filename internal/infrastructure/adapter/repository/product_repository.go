package repository

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// ProductRepository implements ProductRepository interface using GORM
type ProductRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewProductRepository creates a new ProductRepository instance
func NewProductRepository(db *gorm.DB, logger coreport.Logger) *ProductRepository {
	return &ProductRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *ProductRepository) mapError(operation, productID string, err error) error {
	mapped := r.errorClassifier.ToDomain(err, errs.ErrProductNotFound, errs.ErrInvalidRequest)
	if errs.IsStoreUnavailableError(mapped) {
		r.logger.Error("Database error when "+operation, map[string]any{
			"product_id": productID,
			"error":      err.Error(),
		})
	}
	return mapped
}

// GetByID retrieves a product
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var productModel model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&productModel).Error; err != nil {
		return nil, r.mapError("getting product", id, err)
	}
	return productModel.ToEntity(), nil
}

// GetByIDForUpdate retrieves a product with a row lock held until the unit ends
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	var productModel model.Product
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&productModel).Error; err != nil {
		return nil, r.mapError("locking product", id, err)
	}
	return productModel.ToEntity(), nil
}

// List returns every product ordered by category then name
func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	var productModels []model.Product
	if err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&productModels).Error; err != nil {
		return nil, r.mapError("listing products", "", err)
	}
	products := make([]*entity.Product, 0, len(productModels))
	for i := range productModels {
		products = append(products, productModels[i].ToEntity())
	}
	return products, nil
}

// Create adds a product
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := r.db.WithContext(ctx).Create(model.NewProduct(product)).Error; err != nil {
		return r.mapError("creating product", product.ID, err)
	}
	return nil
}

// Update saves every column of a product
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	productModel := model.NewProduct(product)
	result := r.db.WithContext(ctx).Model(productModel).
		Select("name", "price_in_cents", "category", "image", "available", "stock", "updated_at").
		Updates(productModel)
	if result.Error != nil {
		return r.mapError("updating product", product.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrProductNotFound
	}
	return nil
}

// Delete removes a product; past orders keep their snapshots
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if result.Error != nil {
		return r.mapError("deleting product", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrProductNotFound
	}
	return nil
}
