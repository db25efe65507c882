package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	testCases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderPending, OrderReady, true},
		{OrderPending, OrderClaimed, true},
		{OrderPending, OrderCancelled, true},
		{OrderReady, OrderClaimed, true},
		{OrderReady, OrderCancelled, true},
		{OrderReady, OrderPending, false},
		{OrderClaimed, OrderPending, false},
		{OrderClaimed, OrderReady, false},
		{OrderClaimed, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderPending, OrderPending, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}

	assert.True(t, OrderClaimed.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.False(t, OrderReady.IsTerminal())
}

func TestParseOrderStatusAndMealType(t *testing.T) {
	status, err := ParseOrderStatus(" Ready ")
	require.NoError(t, err)
	assert.Equal(t, OrderReady, status)

	_, err = ParseOrderStatus("served")
	assert.ErrorIs(t, err, errs.ErrInvalidOrderStatus)

	meal, err := ParseMealType("LUNCH")
	require.NoError(t, err)
	assert.Equal(t, MealLunch, meal)

	_, err = ParseMealType("dinner")
	assert.ErrorIs(t, err, errs.ErrInvalidMealType)
}

func TestSumItems(t *testing.T) {
	t.Run("Valid cart", func(t *testing.T) {
		total, err := SumItems([]OrderItem{
			{ProductID: "p-1", Name: "Adobo", UnitPriceInCents: 6000, Quantity: 1},
			{ProductID: "p-2", Name: "Juice", UnitPriceInCents: 1250, Quantity: 2},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(8500), total)
	})

	t.Run("Invalid carts", func(t *testing.T) {
		testCases := []struct {
			name  string
			items []OrderItem
			want  error
		}{
			{"Empty", nil, errs.ErrEmptyCart},
			{"Zero quantity", []OrderItem{{Name: "Adobo", UnitPriceInCents: 100, Quantity: 0}}, errs.ErrInvalidQuantity},
			{"Free item", []OrderItem{{Name: "Water", UnitPriceInCents: 0, Quantity: 1}}, errs.ErrInvalidAmount},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := SumItems(tc.items)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

func TestOrderLifecycle(t *testing.T) {
	createdTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	claimTime := time.Date(2023, 1, 1, 12, 30, 0, 0, time.UTC)

	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(createdTime).Once()

	user := RestoreUser("u-1", "Ana", "", Profile{Role: RoleStaff}, "ABC123", "0001", 10000, createdTime, createdTime)
	items := []OrderItem{{ProductID: "p-1", Name: "Adobo", UnitPriceInCents: 8500, Quantity: 1}}

	order, err := NewOrder("o-1", user, items, 8500, MealLunch, "K7Q2ZP", mockTime)
	require.NoError(t, err)
	items[0].Name = "changed"

	assert.Equal(t, OrderPending, order.Status)
	assert.Equal(t, "Ana", order.UserName)
	assert.Equal(t, "Adobo", order.Items[0].Name, "line items are a snapshot")
	assert.Equal(t, "Order for 1 items", order.DebitDescription())

	mockTime.EXPECT().Now().Return(claimTime).Once()
	require.NoError(t, order.TransitionTo(OrderClaimed, mockTime))
	require.NotNil(t, order.ClaimedAt)
	assert.Equal(t, claimTime, *order.ClaimedAt)

	err = order.TransitionTo(OrderPending, mockTime)
	assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	assert.Equal(t, OrderClaimed, order.Status)

	clone := order.Clone()
	clone.Items[0].Quantity = 9
	*clone.ClaimedAt = createdTime
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.Equal(t, claimTime, *order.ClaimedAt)
}

func TestGenerateClaimCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := GenerateClaimCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)

	assert.Equal(t, "K7Q2ZP", NormalizeClaimCode(" k7q2zp "))
}

func TestProductReserve(t *testing.T) {
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)).Maybe()

	product, err := NewProduct("p-1", "Adobo", 8500, "Meals", "", true, 3, mockTime)
	require.NoError(t, err)

	require.NoError(t, product.Reserve(2, mockTime))
	assert.Equal(t, 1, product.Stock)

	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, product.Reserve(2, mockTime), &stockErr)
	assert.Equal(t, 1, stockErr.Available)

	product.Restock(2, mockTime)
	assert.Equal(t, 3, product.Stock)

	product.Available = false
	assert.ErrorIs(t, product.Reserve(1, mockTime), errs.ErrProductUnavailable)

	_, err = NewProduct("p-2", "Water", 0, "Drinks", "", true, 1, mockTime)
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	_, err = NewProduct("p-3", "Water", 100, "Drinks", "", true, -1, mockTime)
	assert.ErrorIs(t, err, errs.ErrInvalidQuantity)
}
