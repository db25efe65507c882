package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
)

// ProductUseCase manages the menu
type ProductUseCase struct {
	uow          persistence.UnitOfWork
	idGen        coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewProductUseCase creates a new ProductUseCase
func NewProductUseCase(
	uow persistence.UnitOfWork,
	idGen coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		uow:          uow,
		idGen:        idGen,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

var _ usecase.ProductUseCase = (*ProductUseCase)(nil)

// ListProducts returns the menu ordered by category then name
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	return p.uow.GetProductRepository(ctx).List(ctx)
}

// GetProduct returns one product
func (p *ProductUseCase) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	return p.uow.GetProductRepository(ctx).GetByID(ctx, productID)
}

// AddProduct adds a menu item
func (p *ProductUseCase) AddProduct(ctx context.Context, req usecase.NewProductRequest) (*entity.Product, error) {
	price, err := entity.ValidatePositiveAmount(req.Price)
	if err != nil {
		return nil, err
	}
	product, err := entity.NewProduct(p.idGen.NewID(), req.Name, price, req.Category, req.Image, req.Available, req.Stock, p.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := p.uow.GetProductRepository(ctx).Create(ctx, product); err != nil {
		p.logger.Error("Failed to create product", map[string]any{
			"name":  product.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	p.logger.Info("Product added", map[string]any{
		"product_id": product.ID,
		"name":       product.Name,
		"price":      req.Price,
		"stock":      product.Stock,
	})
	return product, nil
}

// UpdateProduct applies the non-nil fields of update
func (p *ProductUseCase) UpdateProduct(ctx context.Context, productID string, update usecase.ProductUpdate) (*entity.Product, error) {
	var product *entity.Product
	err := p.uow.Execute(ctx, func(ctx context.Context) error {
		repo := p.uow.GetProductRepository(ctx)

		var err error
		product, err = repo.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := apply(product, update); err != nil {
			return err
		}
		if err := product.Validate(); err != nil {
			return err
		}
		product.UpdatedAt = p.timeProvider.Now()
		return repo.Update(ctx, product)
	})
	if err != nil {
		p.logger.Warn("Product update failed", map[string]any{
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}

	p.logger.Info("Product updated", map[string]any{
		"product_id": productID,
	})
	return product, nil
}

// DeleteProduct removes a menu item; past orders keep their snapshots
func (p *ProductUseCase) DeleteProduct(ctx context.Context, productID string) error {
	if err := p.uow.GetProductRepository(ctx).Delete(ctx, productID); err != nil {
		return err
	}
	p.logger.Info("Product deleted", map[string]any{
		"product_id": productID,
	})
	return nil
}

func apply(product *entity.Product, update usecase.ProductUpdate) error {
	if update.Name != nil {
		product.Name = strings.TrimSpace(*update.Name)
	}
	if update.Price != nil {
		price, err := entity.ValidatePositiveAmount(*update.Price)
		if err != nil {
			return err
		}
		product.PriceInCents = price
	}
	if update.Category != nil {
		product.Category = strings.TrimSpace(*update.Category)
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	if update.Available != nil {
		product.Available = *update.Available
	}
	if update.Stock != nil {
		if *update.Stock < 0 {
			return fmt.Errorf("%w: stock cannot be negative", errs.ErrInvalidQuantity)
		}
		product.Stock = *update.Stock
	}
	return nil
}
