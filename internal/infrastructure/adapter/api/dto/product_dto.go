package dto

import "github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"

// ProductRequest represents a new menu item; Available defaults to true
type ProductRequest struct {
	Name      string `json:"name" binding:"required"`
	Price     string `json:"price" binding:"required"`
	Category  string `json:"category"`
	Image     string `json:"image"`
	Available *bool  `json:"available"`
	Stock     int    `json:"stock"`
}

// ProductUpdateRequest carries the product fields to change
type ProductUpdateRequest struct {
	Name      *string `json:"name"`
	Price     *string `json:"price"`
	Category  *string `json:"category"`
	Image     *string `json:"image"`
	Available *bool   `json:"available"`
	Stock     *int    `json:"stock"`
}

// ProductResponse represents a menu item in API responses
type ProductResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Category  string `json:"category"`
	Image     string `json:"image,omitempty"`
	Available bool   `json:"available"`
	Stock     int    `json:"stock"`
}

// NewProductResponse converts a product entity
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     entity.AmountInCentsToString(p.PriceInCents),
		Category:  p.Category,
		Image:     p.Image,
		Available: p.Available,
		Stock:     p.Stock,
	}
}

// NewProductResponses converts a list of products
func NewProductResponses(products []*entity.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, NewProductResponse(p))
	}
	return resp
}
