package order

import (
	"context"
	"testing"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository/memory/memorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memorytest.Fixture, *OrderUseCase, *entity.Order) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana Cruz", "", "", "0001", 10000)
		f.SeedProduct(t, "p-adobo", "Chicken Adobo", 8500, 10)
		uc := newOrderUseCase(f, DefaultConfig())
		order, err := uc.PlaceOrder(ctx, adoboRequest("u-1", 1, 8500))
		require.NoError(t, err)
		return f, uc, order
	}

	t.Run("Pending to ready to claimed", func(t *testing.T) {
		f, uc, order := setup(t)

		ready, err := uc.UpdateOrderStatus(ctx, order.ID, "ready")
		require.NoError(t, err)
		assert.Equal(t, entity.OrderReady, ready.Status)

		claimed, err := uc.UpdateOrderStatus(ctx, order.ID, "claimed")
		require.NoError(t, err)
		assert.Equal(t, entity.OrderClaimed, claimed.Status)
		require.NotNil(t, claimed.ClaimedAt)

		stored, err := uc.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderClaimed, stored.Status)

		topics := make([]string, 0)
		for _, m := range f.Outbox(t) {
			topics = append(topics, m.Topic)
		}
		assert.Equal(t, []string{entity.TopicOrderPlaced, entity.TopicOrderStatusChanged, entity.TopicOrderClaimed}, topics)
	})

	t.Run("Claimed orders are terminal", func(t *testing.T) {
		_, uc, order := setup(t)
		_, err := uc.UpdateOrderStatus(ctx, order.ID, "claimed")
		require.NoError(t, err)

		for _, next := range []string{"pending", "ready", "cancelled"} {
			_, err := uc.UpdateOrderStatus(ctx, order.ID, next)
			assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition, next)
		}

		stored, err := uc.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderClaimed, stored.Status)
	})

	t.Run("Cancel refunds and restocks", func(t *testing.T) {
		f, uc, order := setup(t)
		require.Equal(t, int64(1500), f.Balance(t, "u-1"))

		cancelled, err := uc.UpdateOrderStatus(ctx, order.ID, "cancelled")
		require.NoError(t, err)
		assert.Equal(t, entity.OrderCancelled, cancelled.Status)

		assert.Equal(t, int64(10000), f.Balance(t, "u-1"))
		assert.Equal(t, 10, f.Product(t, "p-adobo").Stock)

		txs := f.Transactions(t, "u-1")
		require.Len(t, txs, 2)
		assert.Equal(t, entity.KindCredit, txs[0].Kind, "newest entry is the refund")
		assert.Equal(t, int64(8500), txs[0].AmountInCents)
		assert.Contains(t, txs[0].Description, order.ClaimCode)

		_, err = uc.UpdateOrderStatus(ctx, order.ID, "cancelled")
		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
		assert.Equal(t, int64(10000), f.Balance(t, "u-1"), "a cancelled order is refunded once")
	})

	t.Run("Cancel after product was deleted", func(t *testing.T) {
		f, uc, order := setup(t)
		require.NoError(t, f.UoW.GetProductRepository(ctx).Delete(ctx, "p-adobo"))

		_, err := uc.UpdateOrderStatus(ctx, order.ID, "cancelled")

		require.NoError(t, err)
		assert.Equal(t, int64(10000), f.Balance(t, "u-1"))
	})

	t.Run("Unknown status and order", func(t *testing.T) {
		_, uc, order := setup(t)

		_, err := uc.UpdateOrderStatus(ctx, order.ID, "served")
		assert.ErrorIs(t, err, errs.ErrInvalidOrderStatus)

		_, err = uc.UpdateOrderStatus(ctx, "missing", "ready")
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})
}

func TestOrderQueries(t *testing.T) {
	ctx := context.Background()
	f := memorytest.New(t)
	f.SeedUser(t, "u-1", "Ana Cruz", "", "", "0001", 100000)
	f.SeedUser(t, "u-2", "Ben Reyes", "", "", "0002", 100000)
	f.SeedProduct(t, "p-adobo", "Chicken Adobo", 8500, 10)
	uc := newOrderUseCase(f, DefaultConfig())

	first, err := uc.PlaceOrder(ctx, adoboRequest("u-1", 1, 8500))
	require.NoError(t, err)
	second, err := uc.PlaceOrder(ctx, adoboRequest("u-1", 2, 17000))
	require.NoError(t, err)
	other, err := uc.PlaceOrder(ctx, adoboRequest("u-2", 1, 8500))
	require.NoError(t, err)

	mine, err := uc.GetOrders(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	all, err := uc.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)

	_, err = uc.GetOrders(ctx, "ghost")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}
