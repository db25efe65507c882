package model

import (
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// Order represents the database model for orders
type Order struct {
	ID           string      `gorm:"primaryKey;size:64" json:"id"`
	UserID       string      `gorm:"not null;size:64;index:idx_orders_user_status_created,priority:1" json:"userId"`
	UserName     string      `gorm:"size:255" json:"userName"`
	TotalInCents int64       `gorm:"not null" json:"totalInCents"`
	Status       string      `gorm:"not null;size:20;index:idx_orders_user_status_created,priority:2;index" json:"status"`
	MealType     string      `gorm:"size:20" json:"mealType"`
	ClaimCode    string      `gorm:"size:6;index" json:"claimCode"`
	CreatedAt    time.Time   `gorm:"not null;index:idx_orders_user_status_created,priority:3" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updatedAt"`
	ClaimedAt    *time.Time  `json:"claimedAt,omitempty"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents one line of an order; it is a snapshot, not a product reference
type OrderItem struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID          string `gorm:"not null;size:64;index" json:"-"`
	Position         int    `gorm:"not null" json:"position"`
	ProductID        string `gorm:"size:64" json:"productId"`
	Name             string `gorm:"not null;size:255" json:"name"`
	UnitPriceInCents int64  `gorm:"not null" json:"unitPriceInCents"`
	Category         string `gorm:"size:100" json:"category"`
	Quantity         int    `gorm:"not null" json:"quantity"`
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder converts an order entity into its database model
func NewOrder(o *entity.Order) *Order {
	m := &Order{
		ID:           o.ID,
		UserID:       o.UserID,
		UserName:     o.UserName,
		TotalInCents: o.TotalInCents,
		Status:       string(o.Status),
		MealType:     string(o.MealType),
		ClaimCode:    o.ClaimCode,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		ClaimedAt:    cloneTime(o.ClaimedAt),
		Items:        make([]OrderItem, 0, len(o.Items)),
	}
	for i, item := range o.Items {
		m.Items = append(m.Items, OrderItem{
			OrderID:          o.ID,
			Position:         i,
			ProductID:        item.ProductID,
			Name:             item.Name,
			UnitPriceInCents: item.UnitPriceInCents,
			Category:         item.Category,
			Quantity:         item.Quantity,
		})
	}
	return m
}

// ToEntity converts the model back into an order entity; items must be sorted by position
func (m *Order) ToEntity() *entity.Order {
	o := &entity.Order{
		ID:           m.ID,
		UserID:       m.UserID,
		UserName:     m.UserName,
		TotalInCents: m.TotalInCents,
		Status:       entity.OrderStatus(m.Status),
		MealType:     entity.MealType(m.MealType),
		ClaimCode:    m.ClaimCode,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		ClaimedAt:    cloneTime(m.ClaimedAt),
		Items:        make([]entity.OrderItem, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		o.Items = append(o.Items, entity.OrderItem{
			ProductID:        item.ProductID,
			Name:             item.Name,
			UnitPriceInCents: item.UnitPriceInCents,
			Category:         item.Category,
			Quantity:         item.Quantity,
		})
	}
	return o
}

// Clone returns a deep copy of the model
func (m *Order) Clone() *Order {
	c := *m
	c.ClaimedAt = cloneTime(m.ClaimedAt)
	c.Items = append([]OrderItem(nil), m.Items...)
	return &c
}
