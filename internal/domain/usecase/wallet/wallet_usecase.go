package wallet

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// WalletUseCase handles balances and the top-up workflow
type WalletUseCase struct {
	uow          persistence.UnitOfWork
	events       *common.EventRecorder
	idGen        coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewWalletUseCase creates a new WalletUseCase
func NewWalletUseCase(
	uow persistence.UnitOfWork,
	idGen coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *WalletUseCase {
	return &WalletUseCase{
		uow:          uow,
		events:       common.NewEventRecorder(uow, idGen, timeProvider),
		idGen:        idGen,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

var _ usecase.WalletUseCase = (*WalletUseCase)(nil)

// GetBalance returns a user's committed balance
func (w *WalletUseCase) GetBalance(ctx context.Context, userID string) (*usecase.BalanceResponse, error) {
	user, err := w.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &usecase.BalanceResponse{
		UserID:   user.ID,
		WalletID: user.WalletID,
		Balance:  user.GetBalance(),
	}, nil
}

// GetTransactions returns the user's ledger entries, newest first
func (w *WalletUseCase) GetTransactions(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	if _, err := w.uow.GetUserRepository(ctx).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return w.uow.GetTransactionRepository(ctx).ListByUser(ctx, userID)
}

// GetPendingTopUps lists the top-ups waiting for an admin decision
func (w *WalletUseCase) GetPendingTopUps(ctx context.Context) ([]*entity.Transaction, error) {
	return w.uow.GetTransactionRepository(ctx).ListPendingTopUps(ctx)
}
