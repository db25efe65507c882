package dto

import (
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID   string `json:"userId"`
	WalletID string `json:"walletId,omitempty"`
	Balance  string `json:"balance"`
}

// TopUpRequest represents the API request for adding funds
type TopUpRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	UserName     string     `json:"userName,omitempty"`
	UserWalletID string     `json:"userWalletId,omitempty"`
	Type         string     `json:"type"`
	Amount       string     `json:"amount"`
	Description  string     `json:"description"`
	OrderID      string     `json:"orderId,omitempty"`
	Status       string     `json:"status,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ProcessedAt  *time.Time `json:"processedAt,omitempty"`
}

// TopUpDecisionResponse is returned after an approval
type TopUpDecisionResponse struct {
	Transaction   TransactionResponse `json:"transaction"`
	ResultBalance string              `json:"resultBalance"`
}

// NewTransactionResponse converts a transaction entity
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		UserName:     t.UserName,
		UserWalletID: t.UserWalletID,
		Type:         string(t.Kind),
		Amount:       entity.AmountInCentsToString(t.AmountInCents),
		Description:  t.Description,
		OrderID:      t.OrderID,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
		ProcessedAt:  t.ProcessedAt,
	}
}

// NewTransactionResponses converts a list of transactions
func NewTransactionResponses(txs []*entity.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		resp = append(resp, NewTransactionResponse(t))
	}
	return resp
}
