package usecase

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// BalanceResponse represents the standardized balance response
type BalanceResponse struct {
	UserID   string `json:"userId"`
	WalletID string `json:"walletId,omitempty"`
	Balance  string `json:"balance"` // Formatted with 2 decimal places
}

// TopUpResult contains the decided top-up and the wallet balance after it
type TopUpResult struct {
	Transaction   *entity.Transaction
	ResultBalance string
}

// WalletUseCase defines the balance and top-up operations
type WalletUseCase interface {
	// GetBalance reads the committed balance of a user
	GetBalance(ctx context.Context, userID string) (*BalanceResponse, error)

	// GetTransactions returns the user's ledger, newest first
	GetTransactions(ctx context.Context, userID string) ([]*entity.Transaction, error)

	// RequestTopUp records a pending top-up of amount (decimal string) for the user
	RequestTopUp(ctx context.Context, userID string, amount string) (*entity.Transaction, error)

	// ApproveTopUp credits the requester and marks the top-up approved in one atomic unit.
	// A top-up that is no longer pending fails with ErrAlreadyProcessed and changes nothing.
	ApproveTopUp(ctx context.Context, transactionID string) (*TopUpResult, error)

	// DeclineTopUp marks a pending top-up declined without touching any balance
	DeclineTopUp(ctx context.Context, transactionID string) (*entity.Transaction, error)

	// GetPendingTopUps lists the top-ups waiting for a decision, newest first
	GetPendingTopUps(ctx context.Context) ([]*entity.Transaction, error)
}
