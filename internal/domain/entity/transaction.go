package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// TransactionKind represents the direction of a ledger entry
type TransactionKind string

// Transaction kinds
const (
	KindDebit  TransactionKind = "debit"
	KindCredit TransactionKind = "credit"
	KindTopUp  TransactionKind = "topup"
)

// TopUpStatus defines possible status values for a top-up request
type TopUpStatus string

// TopUpStatus constants
const (
	TopUpPending  TopUpStatus = "pending"
	TopUpApproved TopUpStatus = "approved"
	TopUpDeclined TopUpStatus = "declined"
)

// NoWalletID is recorded on a top-up when the requester has no wallet number yet
const NoWalletID = "N/A"

// TopUpDescription is the ledger text of a top-up request
const TopUpDescription = "Wallet Top-Up Request"

// Transaction is a ledger entry that affects a user's balance
type Transaction struct {
	ID            string          // Unique identifier for the entry
	UserID        string          // ID of the user this entry belongs to
	UserName      string          // Denormalized for admin display
	UserWalletID  string          // Denormalized for admin display
	Kind          TransactionKind // debit, credit or topup
	AmountInCents int64           // Always positive
	Description   string          // Free text shown in the history
	OrderID       string          // Set for order debits and refunds
	CreatedAt     time.Time       // When the entry was created
	Status        TopUpStatus     // Only set for top-ups
	ProcessedAt   *time.Time      // When a top-up was approved or declined (nullable)
}

func newTransaction(id, userID string, kind TransactionKind, amountInCents int64, description string, timeProvider coreport.TimeProvider) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if id == "" {
		return nil, fmt.Errorf("%w: transaction ID is required", errs.ErrInvalidRequest)
	}
	if amountInCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", errs.ErrInvalidAmount)
	}
	return &Transaction{
		ID:            id,
		UserID:        userID,
		Kind:          kind,
		AmountInCents: amountInCents,
		Description:   description,
		CreatedAt:     timeProvider.Now(),
	}, nil
}

// NewOrderDebit records the payment of an order
func NewOrderDebit(id string, order *Order, timeProvider coreport.TimeProvider) (*Transaction, error) {
	t, err := newTransaction(id, order.UserID, KindDebit, order.TotalInCents, order.DebitDescription(), timeProvider)
	if err != nil {
		return nil, err
	}
	t.UserName = order.UserName
	t.OrderID = order.ID
	return t, nil
}

// NewOrderRefund records the refund of a cancelled order
func NewOrderRefund(id string, order *Order, timeProvider coreport.TimeProvider) (*Transaction, error) {
	t, err := newTransaction(id, order.UserID, KindCredit, order.TotalInCents, order.RefundDescription(), timeProvider)
	if err != nil {
		return nil, err
	}
	t.UserName = order.UserName
	t.OrderID = order.ID
	return t, nil
}

// NewTopUpRequest creates a pending top-up for user
func NewTopUpRequest(id string, user *User, amountInCents int64, timeProvider coreport.TimeProvider) (*Transaction, error) {
	t, err := newTransaction(id, user.ID, KindTopUp, amountInCents, TopUpDescription, timeProvider)
	if err != nil {
		return nil, err
	}
	t.UserName = user.Name
	t.UserWalletID = user.WalletID
	if t.UserWalletID == "" {
		t.UserWalletID = NoWalletID
	}
	t.Status = TopUpPending
	return t, nil
}

// IsTopUp returns true for top-up requests
func (t *Transaction) IsTopUp() bool {
	return t.Kind == KindTopUp
}

// IsPending returns true for top-ups still waiting for an admin decision
func (t *Transaction) IsPending() bool {
	return t.Kind == KindTopUp && t.Status == TopUpPending
}

// Approve marks a pending top-up approved
func (t *Transaction) Approve(timeProvider coreport.TimeProvider) error {
	return t.decide(TopUpApproved, timeProvider)
}

// Decline marks a pending top-up declined
func (t *Transaction) Decline(timeProvider coreport.TimeProvider) error {
	return t.decide(TopUpDeclined, timeProvider)
}

func (t *Transaction) decide(status TopUpStatus, timeProvider coreport.TimeProvider) error {
	if !t.IsTopUp() {
		return fmt.Errorf("%w: %s", errs.ErrNotTopUp, t.ID)
	}
	if t.Status != TopUpPending {
		return errs.NewAlreadyProcessedError(t.ID, string(t.Status))
	}
	now := timeProvider.Now()
	t.Status = status
	t.ProcessedAt = &now
	return nil
}

// SignedAmountInCents returns the balance effect of the entry as recorded.
// Top-ups only count once approved.
func (t *Transaction) SignedAmountInCents() int64 {
	switch t.Kind {
	case KindDebit:
		return -t.AmountInCents
	case KindTopUp:
		if t.Status != TopUpApproved {
			return 0
		}
	}
	return t.AmountInCents
}
