package model

import (
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// Transaction represents the database model for ledger entries
type Transaction struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	UserID        string     `gorm:"not null;size:64;index" json:"userId"`
	UserName      string     `gorm:"size:255" json:"userName,omitempty"`
	UserWalletID  string     `gorm:"size:20" json:"userWalletId,omitempty"`
	Kind          string     `gorm:"column:type;not null;size:20;index:idx_transactions_type_status,priority:1" json:"type"`
	AmountInCents int64      `gorm:"not null" json:"amountInCents"`
	Description   string     `gorm:"type:text" json:"description"`
	OrderID       *string    `gorm:"size:64;index" json:"orderId,omitempty"`
	Status        string     `gorm:"size:20;index:idx_transactions_type_status,priority:2" json:"status,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction converts a ledger entity into its database model
func NewTransaction(t *entity.Transaction) *Transaction {
	return &Transaction{
		ID:            t.ID,
		UserID:        t.UserID,
		UserName:      t.UserName,
		UserWalletID:  t.UserWalletID,
		Kind:          string(t.Kind),
		AmountInCents: t.AmountInCents,
		Description:   t.Description,
		OrderID:       nullable(t.OrderID),
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		ProcessedAt:   cloneTime(t.ProcessedAt),
	}
}

// ToEntity converts the model back into a ledger entity
func (m *Transaction) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		UserName:      m.UserName,
		UserWalletID:  m.UserWalletID,
		Kind:          entity.TransactionKind(m.Kind),
		AmountInCents: m.AmountInCents,
		Description:   m.Description,
		OrderID:       deref(m.OrderID),
		Status:        entity.TopUpStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		ProcessedAt:   cloneTime(m.ProcessedAt),
	}
}

// Clone returns a copy of the model without its relations
func (m *Transaction) Clone() *Transaction {
	c := *m
	c.OrderID = cloneString(m.OrderID)
	c.ProcessedAt = cloneTime(m.ProcessedAt)
	c.User = User{}
	return &c
}
