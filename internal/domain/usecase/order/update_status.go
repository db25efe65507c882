package order

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// UpdateOrderStatus moves an order along the status table. Cancelling refunds the order
// total to the wallet with a credit entry and puts the stock back, in the same unit.
func (o *OrderUseCase) UpdateOrderStatus(ctx context.Context, orderID string, status string) (*entity.Order, error) {
	next, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("Updating order status", map[string]any{
		"order_id": orderID,
		"status":   string(next),
	})

	var order *entity.Order
	var prev entity.OrderStatus
	err = o.uow.Execute(ctx, func(ctx context.Context) error {
		orderRepo := o.uow.GetOrderRepository(ctx)

		var err error
		order, err = orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		prev = order.Status
		if err := order.TransitionTo(next, o.timeProvider); err != nil {
			return err
		}
		if err := orderRepo.UpdateStatus(ctx, order.ID, prev, next, order.UpdatedAt); err != nil {
			return err
		}

		if next == entity.OrderCancelled {
			if err := o.refund(ctx, order); err != nil {
				return err
			}
		}

		topic := entity.TopicOrderStatusChanged
		if next == entity.OrderClaimed {
			topic = entity.TopicOrderClaimed
		}
		return o.events.Record(ctx, topic, order.UserID, entity.NewOrderEvent(order, prev, order.UpdatedAt))
	})
	if err != nil {
		common.LogFailure(o.logger, "Order status update failed", err, map[string]any{
			"order_id": orderID,
			"status":   string(next),
		})
		return nil, err
	}

	o.logger.Info("Order status updated", map[string]any{
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"prev_status": string(prev),
		"status":      string(order.Status),
	})
	return order, nil
}

// refund credits the order total back and restocks the products that still exist
func (o *OrderUseCase) refund(ctx context.Context, order *entity.Order) error {
	userRepo := o.uow.GetUserRepository(ctx)

	user, err := userRepo.GetByIDForUpdate(ctx, order.UserID)
	if err != nil {
		return err
	}
	if err := user.Credit(order.TotalInCents, o.timeProvider); err != nil {
		return err
	}
	if err := userRepo.Update(ctx, user); err != nil {
		return err
	}

	credit, err := entity.NewOrderRefund(o.idGen.NewID(), order, o.timeProvider)
	if err != nil {
		return err
	}
	if err := o.uow.GetTransactionRepository(ctx).Create(ctx, credit); err != nil {
		return err
	}

	if !o.config.EnforceStock {
		return nil
	}
	productRepo := o.uow.GetProductRepository(ctx)
	for _, item := range order.Items {
		if item.ProductID == "" {
			continue
		}
		product, err := productRepo.GetByIDForUpdate(ctx, item.ProductID)
		if errors.Is(err, errs.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		product.Restock(item.Quantity, o.timeProvider)
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
	}
	return nil
}
