package claim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// CardLockKey returns the lock key that serializes scans of one card
func CardLockKey(rfid string) string {
	return "claim:card:" + rfid
}

// ClaimUseCase redeems paid orders at the kiosk.
//
// The scan lock keeps two kiosks from working on the same card at once; correctness does not
// depend on it. The claim itself is a conditional pending -> claimed transition inside an atomic
// unit, so a racing scan that loses sees a store conflict, retries, and then finds the next
// pending order or none.
type ClaimUseCase struct {
	uow          persistence.UnitOfWork
	locker       coreport.Locker
	events       *common.EventRecorder
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	lockTTL      coreport.Duration
}

// NewClaimUseCase creates a new ClaimUseCase
func NewClaimUseCase(
	uow persistence.UnitOfWork,
	locker coreport.Locker,
	idGen coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	lockTTL coreport.Duration,
) *ClaimUseCase {
	return &ClaimUseCase{
		uow:          uow,
		locker:       locker,
		events:       common.NewEventRecorder(uow, idGen, timeProvider),
		timeProvider: timeProvider,
		logger:       logger,
		lockTTL:      lockTTL,
	}
}

var _ usecase.ClaimUseCase = (*ClaimUseCase)(nil)

// ResolveClaim claims the oldest pending order of the card holder
func (c *ClaimUseCase) ResolveClaim(ctx context.Context, rfid string) (*usecase.ClaimResult, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return nil, errs.ErrInvalidCard
	}

	c.logger.Debug("Resolving card scan", map[string]any{
		"rfid": rfid,
	})

	release, err := c.locker.Acquire(ctx, CardLockKey(rfid), c.lockTTL)
	if err != nil {
		common.LogFailure(c.logger, "Failed to acquire scan lock", err, map[string]any{
			"rfid": rfid,
		})
		return nil, err
	}
	defer func() {
		// A cancelled request must still free the card
		if err := release(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("Failed to release scan lock", map[string]any{
				"rfid":  rfid,
				"error": err.Error(),
			})
		}
	}()

	var result *usecase.ClaimResult
	err = c.uow.Execute(ctx, func(ctx context.Context) error {
		user, err := c.uow.GetUserRepository(ctx).GetByRFID(ctx, rfid)
		if err != nil {
			return err
		}

		order, err := c.uow.GetOrderRepository(ctx).FindOldestPendingByUser(ctx, user.ID)
		if errors.Is(err, errs.ErrOrderNotFound) {
			return errs.NewNoPendingOrderError(user.ID, user.Name)
		}
		if err != nil {
			return err
		}

		if err := c.claim(ctx, order); err != nil {
			return err
		}
		result = &usecase.ClaimResult{UserID: user.ID, UserName: user.Name, Order: order}
		return nil
	})
	if err != nil {
		common.LogFailure(c.logger, "Card scan rejected", err, map[string]any{
			"rfid": rfid,
		})
		return nil, err
	}

	c.logger.Info("Order claimed by card", map[string]any{
		"user_id":  result.UserID,
		"order_id": result.Order.ID,
		"total":    entity.AmountInCentsToString(result.Order.TotalInCents),
	})
	return result, nil
}

// ClaimByCode claims the user's pending order carrying the printed claim code
func (c *ClaimUseCase) ClaimByCode(ctx context.Context, userID, code string) (*usecase.ClaimResult, error) {
	code = entity.NormalizeClaimCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: claim code is required", errs.ErrInvalidRequest)
	}

	var result *usecase.ClaimResult
	err := c.uow.Execute(ctx, func(ctx context.Context) error {
		user, err := c.uow.GetUserRepository(ctx).GetByID(ctx, userID)
		if err != nil {
			return err
		}

		order, err := c.uow.GetOrderRepository(ctx).FindPendingByUserAndCode(ctx, user.ID, code)
		if err != nil {
			return err
		}

		if err := c.claim(ctx, order); err != nil {
			return err
		}
		result = &usecase.ClaimResult{UserID: user.ID, UserName: user.Name, Order: order}
		return nil
	})
	if err != nil {
		common.LogFailure(c.logger, "Claim by code rejected", err, map[string]any{
			"user_id":    userID,
			"claim_code": code,
		})
		return nil, err
	}

	c.logger.Info("Order claimed by code", map[string]any{
		"user_id":  result.UserID,
		"order_id": result.Order.ID,
	})
	return result, nil
}

// claim moves order from pending to claimed, only if no one else did first
func (c *ClaimUseCase) claim(ctx context.Context, order *entity.Order) error {
	prev := order.Status
	if err := order.TransitionTo(entity.OrderClaimed, c.timeProvider); err != nil {
		return err
	}
	if err := c.uow.GetOrderRepository(ctx).UpdateStatus(ctx, order.ID, prev, entity.OrderClaimed, *order.ClaimedAt); err != nil {
		return err
	}
	return c.events.Record(ctx, entity.TopicOrderClaimed, order.UserID, entity.NewOrderEvent(order, prev, *order.ClaimedAt))
}
