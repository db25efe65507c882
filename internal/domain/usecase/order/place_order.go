package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// PlaceOrder pays for a cart from the wallet. Inside one atomic unit it:
// 1. Re-reads and locks the user's balance
// 2. Re-reads, locks and decrements the products when stock is enforced
// 3. Checks the requested total against the line items
// 4. Debits the wallet
// 5. Creates the pending order with a fresh claim code
// 6. Records the debit ledger entry and the order.placed event
// Nothing is written when any step fails.
func (o *OrderUseCase) PlaceOrder(ctx context.Context, req usecase.PlaceOrderRequest) (*entity.Order, error) {
	mealType, err := o.validate(req)
	if err != nil {
		o.logger.Warn("Invalid order request", map[string]any{
			"user_id": req.UserID,
			"error":   err.Error(),
		})
		return nil, err
	}

	claimCode, err := entity.GenerateClaimCode()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}

	o.logger.Debug("Placing order", map[string]any{
		"user_id":    req.UserID,
		"item_count": len(req.Items),
		"total":      entity.AmountInCentsToString(req.TotalInCents),
		"meal_type":  string(mealType),
	})

	var order *entity.Order
	err = o.uow.Execute(ctx, func(ctx context.Context) error {
		userRepo := o.uow.GetUserRepository(ctx)

		user, err := userRepo.GetByIDForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}

		items := req.Items
		if o.config.EnforceStock {
			if items, err = o.reserveStock(ctx, req.Items); err != nil {
				return err
			}
		}

		total, err := entity.SumItems(items)
		if err != nil {
			return err
		}
		if total != req.TotalInCents {
			return fmt.Errorf("%w: requested %s, items sum to %s", errs.ErrTotalMismatch,
				entity.AmountInCentsToString(req.TotalInCents), entity.AmountInCentsToString(total))
		}

		if err := user.Debit(total, o.timeProvider); err != nil {
			return err
		}
		if err := userRepo.Update(ctx, user); err != nil {
			return err
		}

		order, err = entity.NewOrder(o.idGen.NewID(), user, items, total, mealType, claimCode, o.timeProvider)
		if err != nil {
			return err
		}
		if err := o.uow.GetOrderRepository(ctx).Create(ctx, order); err != nil {
			return err
		}

		debit, err := entity.NewOrderDebit(o.idGen.NewID(), order, o.timeProvider)
		if err != nil {
			return err
		}
		if err := o.uow.GetTransactionRepository(ctx).Create(ctx, debit); err != nil {
			return err
		}

		return o.events.Record(ctx, entity.TopicOrderPlaced, order.UserID,
			entity.NewOrderEvent(order, "", order.CreatedAt))
	})
	if err != nil {
		common.LogFailure(o.logger, "Order placement failed", err, map[string]any{
			"user_id": req.UserID,
			"total":   entity.AmountInCentsToString(req.TotalInCents),
		})
		return nil, err
	}

	o.logger.Info("Order placed", map[string]any{
		"user_id":    order.UserID,
		"order_id":   order.ID,
		"claim_code": order.ClaimCode,
		"total":      entity.AmountInCentsToString(order.TotalInCents),
	})
	return order, nil
}

// validate checks the parts of the request that do not need the store
func (o *OrderUseCase) validate(req usecase.PlaceOrderRequest) (entity.MealType, error) {
	if req.UserID == "" {
		return "", errs.ErrInvalidUserID
	}
	mealType, err := entity.ParseMealType(req.MealType)
	if err != nil {
		return "", err
	}
	if len(req.Items) == 0 {
		return "", errs.ErrEmptyCart
	}
	if o.config.MaxItemsPerOrder > 0 && len(req.Items) > o.config.MaxItemsPerOrder {
		return "", fmt.Errorf("%w: at most %d items per order", errs.ErrInvalidRequest, o.config.MaxItemsPerOrder)
	}
	if req.TotalInCents <= 0 {
		return "", fmt.Errorf("%w: total must be greater than zero", errs.ErrInvalidAmount)
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return "", fmt.Errorf("%w: %s", errs.ErrInvalidQuantity, item.Name)
		}
		if o.config.EnforceStock && item.ProductID == "" {
			return "", fmt.Errorf("%w: product ID is required for %s", errs.ErrInvalidRequest, item.Name)
		}
	}
	return mealType, nil
}

// reserveStock locks the ordered products in ID order, takes the quantities out of stock
// and returns line items snapshotted from the stored products
func (o *OrderUseCase) reserveStock(ctx context.Context, items []entity.OrderItem) ([]entity.OrderItem, error) {
	productRepo := o.uow.GetProductRepository(ctx)

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	sort.Strings(ids)

	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		product, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		products[id] = product
	}

	lines := make([]entity.OrderItem, 0, len(items))
	for _, item := range items {
		product := products[item.ProductID]
		if err := product.Reserve(item.Quantity, o.timeProvider); err != nil {
			return nil, err
		}
		lines = append(lines, product.Snapshot(item.Quantity))
	}

	for _, id := range ids {
		if err := productRepo.Update(ctx, products[id]); err != nil {
			return nil, err
		}
	}
	return lines, nil
}
