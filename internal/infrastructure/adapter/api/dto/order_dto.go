package dto

import (
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// OrderItemRequest is one cart line. Name, price and category are only used when
// stock enforcement is off; otherwise the stored product is authoritative.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// PlaceOrderRequest represents the API request for checking out a cart
type PlaceOrderRequest struct {
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount string             `json:"totalAmount" binding:"required"`
	MealType    string             `json:"mealType" binding:"required"`
}

// UpdateOrderStatusRequest represents an admin status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ClaimByCodeRequest claims an order by its printed code
type ClaimByCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ScanRequest is sent by the kiosk when a card is tapped
type ScanRequest struct {
	RFID string `json:"rfid" binding:"required"`
}

// OrderItemResponse is one line of an order
type OrderItemResponse struct {
	ProductID string `json:"productId,omitempty"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	UserName    string              `json:"userName"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount string              `json:"totalAmount"`
	Status      string              `json:"status"`
	MealType    string              `json:"mealType"`
	ClaimCode   string              `json:"claimCode"`
	CreatedAt   time.Time           `json:"createdAt"`
	ClaimedAt   *time.Time          `json:"claimedAt,omitempty"`
}

// ClaimResponse is what the kiosk displays after a claim
type ClaimResponse struct {
	UserID   string        `json:"userId"`
	UserName string        `json:"userName"`
	Order    OrderResponse `json:"order"`
}

// NewOrderResponse converts an order entity
func NewOrderResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     entity.AmountInCentsToString(item.UnitPriceInCents),
			Category:  item.Category,
			Quantity:  item.Quantity,
		})
	}
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		UserName:    o.UserName,
		Items:       items,
		TotalAmount: entity.AmountInCentsToString(o.TotalInCents),
		Status:      string(o.Status),
		MealType:    string(o.MealType),
		ClaimCode:   o.ClaimCode,
		CreatedAt:   o.CreatedAt,
		ClaimedAt:   o.ClaimedAt,
	}
}

// NewOrderResponses converts a list of orders
func NewOrderResponses(orders []*entity.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, NewOrderResponse(o))
	}
	return resp
}
