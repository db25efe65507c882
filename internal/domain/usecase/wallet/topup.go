package wallet

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// RequestTopUp records a pending top-up. The requester's name and wallet number
// are copied from the store so the admin queue can show them.
func (w *WalletUseCase) RequestTopUp(ctx context.Context, userID string, amount string) (*entity.Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	amountInCents, err := entity.ValidatePositiveAmount(amount)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("Requesting top-up", map[string]any{
		"user_id": userID,
		"amount":  amount,
	})

	var topUp *entity.Transaction
	err = w.uow.Execute(ctx, func(ctx context.Context) error {
		user, err := w.uow.GetUserRepository(ctx).GetByID(ctx, userID)
		if err != nil {
			return err
		}

		topUp, err = entity.NewTopUpRequest(w.idGen.NewID(), user, amountInCents, w.timeProvider)
		if err != nil {
			return err
		}
		if err := w.uow.GetTransactionRepository(ctx).Create(ctx, topUp); err != nil {
			return err
		}

		return w.events.Record(ctx, entity.TopicTopUpRequested, topUp.UserID,
			entity.NewTopUpEvent(topUp, "", topUp.CreatedAt))
	})
	if err != nil {
		common.LogFailure(w.logger, "Top-up request failed", err, map[string]any{
			"user_id": userID,
			"amount":  amount,
		})
		return nil, err
	}

	w.logger.Info("Top-up requested", map[string]any{
		"user_id":        userID,
		"transaction_id": topUp.ID,
		"amount":         amount,
	})
	return topUp, nil
}

// ApproveTopUp credits the requester and marks the top-up approved in one atomic unit.
// The status change is conditional on the top-up still being pending, so two racing
// approvals credit the wallet once and the loser gets ErrAlreadyProcessed.
func (w *WalletUseCase) ApproveTopUp(ctx context.Context, transactionID string) (*usecase.TopUpResult, error) {
	w.logger.Debug("Approving top-up", map[string]any{
		"transaction_id": transactionID,
	})

	var result *usecase.TopUpResult
	err := w.uow.Execute(ctx, func(ctx context.Context) error {
		txRepo := w.uow.GetTransactionRepository(ctx)
		userRepo := w.uow.GetUserRepository(ctx)

		topUp, err := txRepo.GetByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if err := topUp.Approve(w.timeProvider); err != nil {
			return err
		}

		user, err := userRepo.GetByIDForUpdate(ctx, topUp.UserID)
		if err != nil {
			return err
		}
		if err := user.Credit(topUp.AmountInCents, w.timeProvider); err != nil {
			return err
		}
		if err := userRepo.Update(ctx, user); err != nil {
			return err
		}

		if err := txRepo.UpdateStatus(ctx, topUp.ID, entity.TopUpPending, entity.TopUpApproved, *topUp.ProcessedAt); err != nil {
			return err
		}

		result = &usecase.TopUpResult{Transaction: topUp, ResultBalance: user.GetBalance()}
		return w.events.Record(ctx, entity.TopicTopUpApproved, topUp.UserID,
			entity.NewTopUpEvent(topUp, result.ResultBalance, *topUp.ProcessedAt))
	})
	if err != nil {
		common.LogFailure(w.logger, "Top-up approval failed", err, map[string]any{
			"transaction_id": transactionID,
		})
		return nil, err
	}

	w.logger.Info("Top-up approved", map[string]any{
		"transaction_id": transactionID,
		"user_id":        result.Transaction.UserID,
		"amount":         entity.AmountInCentsToString(result.Transaction.AmountInCents),
		"result_balance": result.ResultBalance,
	})
	return result, nil
}

// DeclineTopUp marks a pending top-up declined. No balance is touched.
func (w *WalletUseCase) DeclineTopUp(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	w.logger.Debug("Declining top-up", map[string]any{
		"transaction_id": transactionID,
	})

	var topUp *entity.Transaction
	err := w.uow.Execute(ctx, func(ctx context.Context) error {
		txRepo := w.uow.GetTransactionRepository(ctx)

		var err error
		topUp, err = txRepo.GetByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if err := topUp.Decline(w.timeProvider); err != nil {
			return err
		}
		if err := txRepo.UpdateStatus(ctx, topUp.ID, entity.TopUpPending, entity.TopUpDeclined, *topUp.ProcessedAt); err != nil {
			return err
		}

		return w.events.Record(ctx, entity.TopicTopUpDeclined, topUp.UserID,
			entity.NewTopUpEvent(topUp, "", *topUp.ProcessedAt))
	})
	if err != nil {
		common.LogFailure(w.logger, "Top-up decline failed", err, map[string]any{
			"transaction_id": transactionID,
		})
		return nil, err
	}

	w.logger.Info("Top-up declined", map[string]any{
		"transaction_id": transactionID,
		"user_id":        topUp.UserID,
	})
	return topUp, nil
}
