package entity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order statuses
const (
	OrderPending   OrderStatus = "pending"
	OrderReady     OrderStatus = "ready"
	OrderClaimed   OrderStatus = "claimed"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the statuses reachable from each status.
// Claimed and cancelled have no outgoing edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderReady, OrderClaimed, OrderCancelled},
	OrderReady:   {OrderClaimed, OrderCancelled},
}

// ParseOrderStatus accepts a status name in any letter case
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case OrderPending, OrderReady, OrderClaimed, OrderCancelled:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrInvalidOrderStatus, s)
}

// CanTransitionTo reports whether the order may move from s to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CountsAsSale reports whether the order total belongs in sales figures
func (s OrderStatus) CountsAsSale() bool {
	return s == OrderReady || s == OrderClaimed
}

// MealType tags the meal period an order is for
type MealType string

// Meal periods
const (
	MealRecess MealType = "recess"
	MealLunch  MealType = "lunch"
)

// ParseMealType accepts a meal period in any letter case
func ParseMealType(s string) (MealType, error) {
	meal := MealType(strings.ToLower(strings.TrimSpace(s)))
	switch meal {
	case MealRecess, MealLunch:
		return meal, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrInvalidMealType, s)
}

// OrderItem is a product snapshot taken at order time plus the ordered quantity
type OrderItem struct {
	ProductID        string
	Name             string
	UnitPriceInCents int64
	Category         string
	Quantity         int
}

// SubtotalInCents returns unit price times quantity
func (i OrderItem) SubtotalInCents() (int64, error) {
	return MultiplyCents(i.UnitPriceInCents, i.Quantity)
}

// SumItems totals the line items of a cart
func SumItems(items []OrderItem) (int64, error) {
	if len(items) == 0 {
		return 0, errs.ErrEmptyCart
	}
	var total int64
	for _, item := range items {
		if item.UnitPriceInCents <= 0 {
			return 0, fmt.Errorf("%w: price of %s must be greater than zero", errs.ErrInvalidAmount, item.Name)
		}
		subtotal, err := item.SubtotalInCents()
		if err != nil {
			return 0, err
		}
		if total, err = AddCents(total, subtotal); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Order is a purchase paid from a wallet and redeemed at the kiosk
type Order struct {
	ID           string
	UserID       string
	UserName     string
	Items        []OrderItem
	TotalInCents int64
	Status       OrderStatus
	MealType     MealType
	ClaimCode    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClaimedAt    *time.Time
}

// NewOrder creates a pending order for user
func NewOrder(id string, user *User, items []OrderItem, totalInCents int64, mealType MealType, claimCode string, timeProvider coreport.TimeProvider) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order ID is required", errs.ErrInvalidRequest)
	}
	if totalInCents <= 0 {
		return nil, fmt.Errorf("%w: total must be greater than zero", errs.ErrInvalidAmount)
	}

	now := timeProvider.Now()
	lines := make([]OrderItem, len(items))
	copy(lines, items)
	return &Order{
		ID:           id,
		UserID:       user.ID,
		UserName:     user.Name,
		Items:        lines,
		TotalInCents: totalInCents,
		Status:       OrderPending,
		MealType:     mealType,
		ClaimCode:    claimCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// TransitionTo moves the order to next if the transition table allows it
func (o *Order) TransitionTo(next OrderStatus, timeProvider coreport.TimeProvider) error {
	if !o.Status.CanTransitionTo(next) {
		return errs.NewStatusTransitionError(o.ID, string(o.Status), string(next))
	}
	now := timeProvider.Now()
	o.Status = next
	o.UpdatedAt = now
	if next == OrderClaimed {
		o.ClaimedAt = &now
	}
	return nil
}

// DebitDescription is the ledger text recorded when the order is paid
func (o *Order) DebitDescription() string {
	return fmt.Sprintf("Order for %d items", len(o.Items))
}

// RefundDescription is the ledger text recorded when a cancelled order is refunded
func (o *Order) RefundDescription() string {
	return fmt.Sprintf("Refund for cancelled order %s", o.ClaimCode)
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	c := *o
	c.Items = make([]OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	if o.ClaimedAt != nil {
		at := *o.ClaimedAt
		c.ClaimedAt = &at
	}
	return &c
}

// ClaimCodeLength is the number of characters in a claim code
const ClaimCodeLength = 6

const claimCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateClaimCode returns a random code of uppercase letters and digits.
// Codes are short and may repeat across users; they are only matched within one user's orders.
func GenerateClaimCode() (string, error) {
	var sb strings.Builder
	sb.Grow(ClaimCodeLength)
	max := big.NewInt(int64(len(claimCodeAlphabet)))
	for i := 0; i < ClaimCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate claim code: %w", err)
		}
		sb.WriteByte(claimCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeClaimCode uppercases and trims a typed claim code
func NormalizeClaimCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
