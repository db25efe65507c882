package order

import (
	"context"
	"sync"
	"testing"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository/memory/memorytest"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	persistencemocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderUseCase(f *memorytest.Fixture, cfg Config) *OrderUseCase {
	return NewOrderUseCase(f.UoW, f.IDs, f.Clock, f.Logger, cfg)
}

func adoboRequest(userID string, quantity int, total int64) usecase.PlaceOrderRequest {
	return usecase.PlaceOrderRequest{
		UserID:       userID,
		Items:        []entity.OrderItem{{ProductID: "p-adobo", Quantity: quantity}},
		TotalInCents: total,
		MealType:     "lunch",
	}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Balance covers the order", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana Cruz", "ana@school.edu", "ABC123", "0001", 10000)
		f.SeedProduct(t, "p-adobo", "Chicken Adobo", 8500, 10)
		uc := newOrderUseCase(f, DefaultConfig())

		order, err := uc.PlaceOrder(ctx, adoboRequest("u-1", 1, 8500))

		require.NoError(t, err)
		assert.Equal(t, entity.OrderPending, order.Status)
		assert.Equal(t, int64(8500), order.TotalInCents)
		assert.Regexp(t, `^[A-Z0-9]{6}$`, order.ClaimCode)
		assert.Equal(t, "Chicken Adobo", order.Items[0].Name, "line items are snapshotted from the stored product")

		assert.Equal(t, int64(1500), f.Balance(t, "u-1"))
		assert.Equal(t, 9, f.Product(t, "p-adobo").Stock)

		orders := f.Orders(t, "u-1")
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)

		txs := f.Transactions(t, "u-1")
		require.Len(t, txs, 1)
		assert.Equal(t, entity.KindDebit, txs[0].Kind)
		assert.Equal(t, int64(8500), txs[0].AmountInCents)
		assert.Equal(t, order.ID, txs[0].OrderID)
		assert.Equal(t, "Order for 1 items", txs[0].Description)

		outbox := f.Outbox(t)
		require.Len(t, outbox, 1)
		assert.Equal(t, entity.TopicOrderPlaced, outbox[0].Topic)
		assert.Equal(t, "u-1", outbox[0].MessageKey)
	})

	t.Run("Insufficient balance leaves nothing behind", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana Cruz", "", "", "0001", 5000)
		f.SeedProduct(t, "p-adobo", "Chicken Adobo", 8500, 10)
		uc := newOrderUseCase(f, DefaultConfig())

		order, err := uc.PlaceOrder(ctx, adoboRequest("u-1", 1, 8500))

		assert.Nil(t, order)
		assert.True(t, errs.IsInsufficientFundsError(err))
		assert.Equal(t, "Insufficient wallet balance", errs.UserMessage(err))
		assert.Equal(t, int64(5000), f.Balance(t, "u-1"))
		assert.Empty(t, f.Orders(t, "u-1"))
		assert.Empty(t, f.Transactions(t, "u-1"))
		assert.Empty(t, f.Outbox(t))
		assert.Equal(t, 10, f.Product(t, "p-adobo").Stock, "reserved stock is rolled back")
	})

	t.Run("Total mismatch is rejected atomically", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana Cruz", "", "", "0001", 10000)
		f.SeedProduct(t, "p-adobo", "Chicken Adobo", 8500, 10)
		uc := newOrderUseCase(f, DefaultConfig())

		_, err := uc.PlaceOrder(ctx, adoboRequest("u-1", 1, 100))

		assert.ErrorIs(t, err, errs.ErrTotalMismatch)
		assert.Equal(t, int64(10000), f.Balance(t, "u-1"))
		assert.Equal(t, 10, f.Product(t, "p-adobo").Stock)
		assert.Empty(t, f.Transactions(t, "u-1"))
	})

	t.Run("Stock is enforced", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana Cruz", "", "", "0001", 100000)
		f.SeedProduct(t, "p-adobo", "Chicken Adobo", 8500, 2)
		uc := newOrderUseCase(f, DefaultConfig())

		req := adoboRequest("u-1", 2, 25500)
		req.Items = append(req.Items, entity.OrderItem{ProductID: "p-adobo", Quantity: 1})
		_, err := uc.PlaceOrder(ctx, req)

		var stockErr *errs.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "p-adobo", stockErr.ProductID)
		assert.Equal(t, 2, f.Product(t, "p-adobo").Stock)
		assert.Equal(t, int64(100000), f.Balance(t, "u-1"))
	})

	t.Run("Unknown product", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana Cruz", "", "", "0001", 10000)
		uc := newOrderUseCase(f, DefaultConfig())

		_, err := uc.PlaceOrder(ctx, adoboRequest("u-1", 1, 8500))

		assert.ErrorIs(t, err, errs.ErrProductNotFound)
	})

	t.Run("Unknown user", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedProduct(t, "p-adobo", "Chicken Adobo", 8500, 10)
		uc := newOrderUseCase(f, DefaultConfig())

		_, err := uc.PlaceOrder(ctx, adoboRequest("ghost", 1, 8500))

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		assert.Equal(t, 10, f.Product(t, "p-adobo").Stock)
	})

	t.Run("Cart snapshot without stock enforcement", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana Cruz", "", "", "0001", 10000)
		uc := newOrderUseCase(f, Config{EnforceStock: false})

		order, err := uc.PlaceOrder(ctx, usecase.PlaceOrderRequest{
			UserID: "u-1",
			Items: []entity.OrderItem{
				{Name: "Pancit", UnitPriceInCents: 4000, Quantity: 1},
				{Name: "Juice", UnitPriceInCents: 2250, Quantity: 2},
			},
			TotalInCents: 8500,
			MealType:     "recess",
		})

		require.NoError(t, err)
		assert.Equal(t, entity.MealRecess, order.MealType)
		assert.Equal(t, int64(1500), f.Balance(t, "u-1"))
		assert.Equal(t, "Order for 2 items", f.Transactions(t, "u-1")[0].Description)
	})
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	validItems := []entity.OrderItem{{ProductID: "p-1", Name: "Adobo", UnitPriceInCents: 8500, Quantity: 1}}

	testCases := []struct {
		name string
		req  usecase.PlaceOrderRequest
		want error
	}{
		{"Missing user", usecase.PlaceOrderRequest{Items: validItems, TotalInCents: 8500, MealType: "lunch"}, errs.ErrInvalidUserID},
		{"Unknown meal", usecase.PlaceOrderRequest{UserID: "u-1", Items: validItems, TotalInCents: 8500, MealType: "dinner"}, errs.ErrInvalidMealType},
		{"Empty cart", usecase.PlaceOrderRequest{UserID: "u-1", TotalInCents: 8500, MealType: "lunch"}, errs.ErrEmptyCart},
		{"Zero total", usecase.PlaceOrderRequest{UserID: "u-1", Items: validItems, MealType: "lunch"}, errs.ErrInvalidAmount},
		{"Zero quantity", usecase.PlaceOrderRequest{UserID: "u-1", Items: []entity.OrderItem{{ProductID: "p-1", Quantity: 0}}, TotalInCents: 8500, MealType: "lunch"}, errs.ErrInvalidQuantity},
		{"Missing product", usecase.PlaceOrderRequest{UserID: "u-1", Items: []entity.OrderItem{{Name: "Adobo", Quantity: 1}}, TotalInCents: 8500, MealType: "lunch"}, errs.ErrInvalidRequest},
		{"Too many lines", usecase.PlaceOrderRequest{UserID: "u-1", Items: []entity.OrderItem{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 1}, {ProductID: "c", Quantity: 1}}, TotalInCents: 8500, MealType: "lunch"}, errs.ErrInvalidRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// The store must not be touched for requests rejected up front
			mockUoW := persistencemocks.NewMockUnitOfWork(t)
			mockIDs := coremocks.NewMockIDGenerator(t)
			mockTime := coremocks.NewMockTimeProvider(t)
			mockLogger := coremocks.NewMockLogger(t)
			mockLogger.EXPECT().Warn("Invalid order request", mock.Anything).Once()

			uc := NewOrderUseCase(mockUoW, mockIDs, mockTime, mockLogger, Config{EnforceStock: true, MaxItemsPerOrder: 2})
			order, err := uc.PlaceOrder(ctx, tc.req)

			assert.Nil(t, order)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPlaceOrderStoreFailure(t *testing.T) {
	mockUoW := persistencemocks.NewMockUnitOfWork(t)
	mockIDs := coremocks.NewMockIDGenerator(t)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockLogger := coremocks.NewMockLogger(t)

	mockLogger.EXPECT().Debug("Placing order", mock.Anything).Once()
	mockUoW.EXPECT().Execute(mock.Anything, mock.Anything).Return(errs.ErrStoreUnavailable).Once()
	mockLogger.EXPECT().Error("Order placement failed", mock.MatchedBy(func(fields map[string]any) bool {
		return fields["user_id"] == "u-1" && fields["total"] == "85.00"
	})).Once()

	uc := NewOrderUseCase(mockUoW, mockIDs, mockTime, mockLogger, DefaultConfig())
	_, err := uc.PlaceOrder(context.Background(), adoboRequest("u-1", 1, 8500))

	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
}

// Concurrent checkouts against one wallet: only as many as the balance covers may
// succeed and the committed balance never goes negative.
func TestPlaceOrderConcurrentNoNegativeBalance(t *testing.T) {
	f := memorytest.New(t)
	f.SeedUser(t, "u-1", "Ana Cruz", "", "", "0001", 5500)
	f.SeedProduct(t, "p-adobo", "Chicken Adobo", 1000, 100)
	uc := newOrderUseCase(f, DefaultConfig())

	const attempts = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.PlaceOrder(context.Background(), adoboRequest("u-1", 1, 1000))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if errs.IsInsufficientFundsError(err) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, rejected)
	assert.Equal(t, int64(500), f.Balance(t, "u-1"))
	assert.Len(t, f.Orders(t, "u-1"), 5)
	assert.Len(t, f.Transactions(t, "u-1"), 5)
	assert.Equal(t, 95, f.Product(t, "p-adobo").Stock)
}
