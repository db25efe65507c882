package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles menu requests
type ProductHandler struct {
	productUseCase usecase.ProductUseCase
	logger         coreport.Logger
}

// NewProductHandler creates a new product handler instance
func NewProductHandler(
	productUseCase usecase.ProductUseCase,
	logger coreport.Logger,
) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
		logger:         logger,
	}
}

// ListProducts handles the GET /products endpoint
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productUseCase.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProductResponses(products))
}

// GetProduct handles the GET /products/:productId endpoint
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productUseCase.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProductResponse(product))
}

// AddProduct handles the POST /products endpoint
func (h *ProductHandler) AddProduct(c *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	product, err := h.productUseCase.AddProduct(c.Request.Context(), usecase.NewProductRequest{
		Name:      req.Name,
		Price:     req.Price,
		Category:  req.Category,
		Image:     req.Image,
		Available: available,
		Stock:     req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewProductResponse(product))
}

// UpdateProduct handles the PUT /products/:productId endpoint
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req dto.ProductUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productUseCase.UpdateProduct(c.Request.Context(), c.Param("productId"), usecase.ProductUpdate{
		Name:      req.Name,
		Price:     req.Price,
		Category:  req.Category,
		Image:     req.Image,
		Available: req.Available,
		Stock:     req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProductResponse(product))
}

// DeleteProduct handles the DELETE /products/:productId endpoint
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productUseCase.DeleteProduct(c.Request.Context(), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
