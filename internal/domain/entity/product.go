package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// Product is a menu item sold by the canteen
type Product struct {
	ID           string
	Name         string
	PriceInCents int64
	Category     string
	Image        string
	Available    bool
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProduct creates a menu item; price must be positive and stock non-negative
func NewProduct(id, name string, priceInCents int64, category, image string, available bool, stock int, timeProvider coreport.TimeProvider) (*Product, error) {
	p := &Product{
		ID:           id,
		Name:         strings.TrimSpace(name),
		PriceInCents: priceInCents,
		Category:     strings.TrimSpace(category),
		Image:        image,
		Available:    available,
		Stock:        stock,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	now := timeProvider.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// Validate checks the catalogue constraints of the product
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: product ID is required", errs.ErrInvalidRequest)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", errs.ErrInvalidRequest)
	}
	if p.PriceInCents <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", errs.ErrInvalidAmount)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", errs.ErrInvalidQuantity)
	}
	return nil
}

// Reserve takes quantity units out of stock
func (p *Product) Reserve(quantity int, timeProvider coreport.TimeProvider) error {
	if quantity <= 0 {
		return errs.ErrInvalidQuantity
	}
	if !p.Available {
		return fmt.Errorf("%w: %s", errs.ErrProductUnavailable, p.Name)
	}
	if p.Stock < quantity {
		return errs.NewInsufficientStockError(p.ID, quantity, p.Stock)
	}
	p.Stock -= quantity
	p.UpdatedAt = timeProvider.Now()
	return nil
}

// Restock puts quantity units back, e.g. when an order is cancelled
func (p *Product) Restock(quantity int, timeProvider coreport.TimeProvider) {
	if quantity <= 0 {
		return
	}
	p.Stock += quantity
	p.UpdatedAt = timeProvider.Now()
}

// Snapshot captures the product as an order line
func (p *Product) Snapshot(quantity int) OrderItem {
	return OrderItem{
		ProductID:        p.ID,
		Name:             p.Name,
		UnitPriceInCents: p.PriceInCents,
		Category:         p.Category,
		Quantity:         quantity,
	}
}
