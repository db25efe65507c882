package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// User is a wallet holder: student, parent, staff, admin or faculty
type User struct {
	ID        string  // Unique identifier for the user
	Name      string  // Display name
	Email     string  // Optional login email, unique when set
	Profile   Profile // Role tag plus role-specific fields
	RFID      string  // Bound card identifier, empty until a card is registered
	WalletID  string  // Sequential zero-padded wallet number, empty until assigned
	balance   int64   // Balance stored in cents (private, never negative)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a user with a zero balance
func NewUser(id, name, email string, profile Profile, timeProvider coreport.TimeProvider) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.ErrInvalidUserID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrInvalidRequest)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &User{
		ID:        id,
		Name:      name,
		Email:     NormalizeEmail(email),
		Profile:   profile,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RestoreUser rebuilds a user from stored state; repositories use it
func RestoreUser(id, name, email string, profile Profile, rfid, walletID string, balance int64, createdAt, updatedAt time.Time) *User {
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Profile:   profile,
		RFID:      rfid,
		WalletID:  walletID,
		balance:   balance,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Role returns the role tag of the user
func (u *User) Role() Role {
	return u.Profile.Role
}

// Balance returns the current balance in cents
func (u *User) Balance() int64 {
	return u.balance
}

// GetBalance returns the balance as a string with 2 decimal places
func (u *User) GetBalance() string {
	return AmountInCentsToString(u.balance)
}

// HasCard reports whether an RFID card is bound to the user
func (u *User) HasCard() bool {
	return u.RFID != ""
}

// Debit subtracts amountInCents from the balance, refusing to go below zero
func (u *User) Debit(amountInCents int64, timeProvider coreport.TimeProvider) error {
	if amountInCents < 0 {
		return errs.ErrNegativeAmount
	}
	if u.balance < amountInCents {
		return errs.NewInsufficientFundsError(u.ID, AmountInCentsToString(amountInCents), u.GetBalance())
	}
	u.balance -= amountInCents
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// Credit adds amountInCents to the balance
func (u *User) Credit(amountInCents int64, timeProvider coreport.TimeProvider) error {
	if amountInCents < 0 {
		return errs.ErrNegativeAmount
	}
	newBalance, err := AddCents(u.balance, amountInCents)
	if err != nil {
		return err
	}
	u.balance = newBalance
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// BindCard stores the card identifier on the user
func (u *User) BindCard(rfid string, timeProvider coreport.TimeProvider) error {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return errs.ErrInvalidCard
	}
	u.RFID = rfid
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// AssignWalletID sets the sequential wallet number once; later calls keep the first value
func (u *User) AssignWalletID(walletID string, timeProvider coreport.TimeProvider) bool {
	if u.WalletID != "" {
		return false
	}
	u.WalletID = walletID
	u.UpdatedAt = timeProvider.Now()
	return true
}

// Rename changes the display name
func (u *User) Rename(name string, timeProvider coreport.TimeProvider) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalidRequest)
	}
	u.Name = name
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// UpdateStudentDetails changes grade and section of a student
func (u *User) UpdateStudentDetails(gradeLevel, section string, timeProvider coreport.TimeProvider) error {
	if u.Profile.Role != RoleStudent {
		return fmt.Errorf("%w: only students have a grade level", errs.ErrInvalidProfile)
	}
	profile, err := NewStudentProfile(gradeLevel, section)
	if err != nil {
		return err
	}
	u.Profile = profile
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// LinkStudent adds a student to a parent's linked students
func (u *User) LinkStudent(student *User, timeProvider coreport.TimeProvider) error {
	if u.Profile.Role != RoleParent {
		return fmt.Errorf("%w: only parents can link students", errs.ErrInvalidProfile)
	}
	if student.Role() != RoleStudent {
		return fmt.Errorf("%w: user %s is not a student", errs.ErrInvalidProfile, student.ID)
	}
	if u.Profile.Parent.HasStudent(student.ID) {
		return nil
	}
	u.Profile.Parent.LinkedStudentIDs = append(u.Profile.Parent.LinkedStudentIDs, student.ID)
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// WalletCounter is the name of the counter that numbers wallets
const WalletCounter = "users"

// FormatWalletID renders a wallet sequence number as a zero-padded 4 digit string
func FormatWalletID(n int64) string {
	return fmt.Sprintf("%04d", n)
}
