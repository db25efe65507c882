package handler

import (
	"fmt"
	"net/http"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles checkout and order administration requests
type OrderHandler struct {
	orderUseCase usecase.OrderUseCase
	logger       coreport.Logger
}

// NewOrderHandler creates a new order handler instance
func NewOrderHandler(
	orderUseCase usecase.OrderUseCase,
	logger coreport.Logger,
) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		logger:       logger,
	}
}

// PlaceOrder handles the POST /users/:userId/orders endpoint
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	total, err := entity.ValidatePositiveAmount(req.TotalAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]entity.OrderItem, 0, len(req.Items))
	for i, line := range req.Items {
		var price int64
		if line.Price != "" {
			if price, err = entity.ValidateAndConvertAmount(line.Price); err != nil {
				respondError(c, fmt.Errorf("item %d: %w", i+1, err))
				return
			}
		}
		items = append(items, entity.OrderItem{
			ProductID:        line.ProductID,
			Name:             line.Name,
			UnitPriceInCents: price,
			Category:         line.Category,
			Quantity:         line.Quantity,
		})
	}

	order, err := h.orderUseCase.PlaceOrder(c.Request.Context(), usecase.PlaceOrderRequest{
		UserID:       c.Param("userId"),
		Items:        items,
		TotalInCents: total,
		MealType:     req.MealType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

// GetUserOrders handles the GET /users/:userId/orders endpoint
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	orders, err := h.orderUseCase.GetOrders(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}

// GetAllOrders handles the GET /orders endpoint
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orderUseCase.GetAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}

// GetOrder handles the GET /orders/:orderId endpoint
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderUseCase.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// UpdateOrderStatus handles the PATCH /orders/:orderId/status endpoint
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderUseCase.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}
