package model

import (
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// Product represents the database model for menu items
type Product struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	PriceInCents int64     `gorm:"not null" json:"priceInCents"`
	Category     string    `gorm:"size:100;index" json:"category"`
	Image        string    `gorm:"type:text" json:"image,omitempty"`
	Available    bool      `gorm:"not null" json:"available"`
	Stock        int       `gorm:"not null;default:0" json:"stock"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// NewProduct converts a product entity into its database model
func NewProduct(p *entity.Product) *Product {
	return &Product{
		ID:           p.ID,
		Name:         p.Name,
		PriceInCents: p.PriceInCents,
		Category:     p.Category,
		Image:        p.Image,
		Available:    p.Available,
		Stock:        p.Stock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToEntity converts the model back into a product entity
func (m *Product) ToEntity() *entity.Product {
	return &entity.Product{
		ID:           m.ID,
		Name:         m.Name,
		PriceInCents: m.PriceInCents,
		Category:     m.Category,
		Image:        m.Image,
		Available:    m.Available,
		Stock:        m.Stock,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
