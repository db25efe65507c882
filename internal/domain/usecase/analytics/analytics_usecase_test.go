package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository/memory/memorytest"
	timeadapter "github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/time"
	persistencemocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// seedOrderAt stores an order created at the given instant with the given status
func seedOrderAt(t *testing.T, f *memorytest.Fixture, user *entity.User, id string, at time.Time, total int64, status entity.OrderStatus) {
	t.Helper()
	clock := timeadapter.NewSteppingTimeProvider(at, 0)
	items := []entity.OrderItem{{Name: "Meal", UnitPriceInCents: total, Quantity: 1}}
	order, err := entity.NewOrder(id, user, items, total, entity.MealLunch, "CODE"+id, clock)
	require.NoError(t, err)
	if status != entity.OrderPending {
		require.NoError(t, order.TransitionTo(status, clock))
	}
	require.NoError(t, f.UoW.GetOrderRepository(context.Background()).Create(context.Background(), order))
}

func TestGetSalesByWeekday(t *testing.T) {
	f := memorytest.New(t)
	user := f.SeedUser(t, "u-1", "Ana", "", "", "0001", 0)

	monday := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)
	seedOrderAt(t, f, user, "1", monday, 8500, entity.OrderClaimed)
	seedOrderAt(t, f, user, "2", monday.Add(time.Hour), 1500, entity.OrderReady)
	seedOrderAt(t, f, user, "3", monday.Add(2*time.Hour), 9900, entity.OrderPending)
	seedOrderAt(t, f, user, "4", monday.Add(3*time.Hour), 4000, entity.OrderCancelled)
	seedOrderAt(t, f, user, "5", monday.AddDate(0, 0, 4), 3000, entity.OrderClaimed)
	// 01:00 UTC on Monday is still Sunday evening five hours west
	seedOrderAt(t, f, user, "6", time.Date(2023, 1, 2, 1, 0, 0, 0, time.UTC), 700, entity.OrderClaimed)

	t.Run("UTC", func(t *testing.T) {
		uc := NewAnalyticsUseCase(f.UoW, nil, f.Logger)

		report, err := uc.GetSalesByWeekday(context.Background())

		require.NoError(t, err)
		require.Len(t, report, 7)
		assert.Equal(t, "Mon", report[0].Name)
		assert.Equal(t, int64(10700), report[0].SalesInCents)
		assert.Equal(t, "Fri", report[4].Name)
		assert.Equal(t, int64(3000), report[4].SalesInCents)
		assert.Equal(t, "Sun", report[6].Name)
		assert.Equal(t, int64(0), report[6].SalesInCents)
	})

	t.Run("Local school time", func(t *testing.T) {
		uc := NewAnalyticsUseCase(f.UoW, time.FixedZone("UTC-5", -5*60*60), f.Logger)

		report, err := uc.GetSalesByWeekday(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(10000), report[0].SalesInCents)
		assert.Equal(t, int64(700), report[6].SalesInCents)
	})
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	f := memorytest.New(t)
	user := f.SeedUser(t, "u-1", "Ana", "", "", "0001", 0)
	uc := NewAnalyticsUseCase(f.UoW, time.UTC, f.Logger)

	t.Run("Empty store", func(t *testing.T) {
		summary, err := uc.GetSummary(ctx)

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"pending": 0, "ready": 0, "claimed": 0, "cancelled": 0}, summary.OrdersByStatus)
		assert.Zero(t, summary.CompletedSalesInCents)
		assert.Zero(t, summary.PendingTopUps)
	})

	t.Run("Counts and totals", func(t *testing.T) {
		seedOrderAt(t, f, user, "1", memorytest.Start, 8500, entity.OrderClaimed)
		seedOrderAt(t, f, user, "2", memorytest.Start, 1500, entity.OrderReady)
		seedOrderAt(t, f, user, "3", memorytest.Start, 2000, entity.OrderPending)
		seedOrderAt(t, f, user, "4", memorytest.Start, 4000, entity.OrderCancelled)

		txRepo := f.UoW.GetTransactionRepository(ctx)
		for i, amount := range []int64{20000, 5000} {
			topUp, err := entity.NewTopUpRequest(string(rune('a'+i)), user, amount, f.Clock)
			require.NoError(t, err)
			require.NoError(t, txRepo.Create(ctx, topUp))
		}

		summary, err := uc.GetSummary(ctx)

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"pending": 1, "ready": 1, "claimed": 1, "cancelled": 1}, summary.OrdersByStatus)
		assert.Equal(t, int64(10000), summary.CompletedSalesInCents)
		assert.Equal(t, 2, summary.PendingTopUps)
		assert.Equal(t, int64(25000), summary.PendingTopUpAmountInCents)
	})
}

type unitKey struct{}

func TestGetSummaryReadsInOneUnit(t *testing.T) {
	ctx := context.Background()
	unitCtx := context.WithValue(ctx, unitKey{}, "unit")

	t.Run("Both lists come from the unit", func(t *testing.T) {
		mockUoW := persistencemocks.NewMockUnitOfWork(t)
		mockOrders := persistencemocks.NewMockOrderRepository(t)
		mockTxs := persistencemocks.NewMockTransactionRepository(t)

		mockUoW.EXPECT().Execute(ctx, mock.Anything).
			RunAndReturn(func(_ context.Context, fn func(context.Context) error) error { return fn(unitCtx) }).Once()
		mockUoW.EXPECT().GetOrderRepository(unitCtx).Return(mockOrders).Once()
		mockUoW.EXPECT().GetTransactionRepository(unitCtx).Return(mockTxs).Once()
		mockOrders.EXPECT().ListAll(unitCtx).Return([]*entity.Order{
			{ID: "o-1", Status: entity.OrderClaimed, TotalInCents: 8500},
			{ID: "o-2", Status: entity.OrderPending, TotalInCents: 2000},
		}, nil).Once()
		mockTxs.EXPECT().ListPendingTopUps(unitCtx).Return([]*entity.Transaction{
			{ID: "t-1", AmountInCents: 5000},
		}, nil).Once()

		summary, err := NewAnalyticsUseCase(mockUoW, time.UTC, logger.NewNoopLogger()).GetSummary(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.OrdersByStatus["claimed"])
		assert.Equal(t, 1, summary.OrdersByStatus["pending"])
		assert.Equal(t, int64(8500), summary.CompletedSalesInCents)
		assert.Equal(t, 1, summary.PendingTopUps)
		assert.Equal(t, int64(5000), summary.PendingTopUpAmountInCents)
	})

	t.Run("Store failure aborts the summary", func(t *testing.T) {
		mockUoW := persistencemocks.NewMockUnitOfWork(t)
		mockUoW.EXPECT().Execute(ctx, mock.Anything).Return(errs.ErrStoreUnavailable).Once()

		summary, err := NewAnalyticsUseCase(mockUoW, time.UTC, logger.NewNoopLogger()).GetSummary(ctx)

		assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
		assert.Nil(t, summary)
	})
}
