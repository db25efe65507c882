package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest          = 4000
	CodeInsufficientFunds       = 4001
	CodeInvalidAmount           = 4002
	CodeInvalidUserID           = 4003
	CodeEmptyCart               = 4004
	CodeInvalidQuantity         = 4005
	CodeAmountOverflow          = 4006
	CodeTotalMismatch           = 4007
	CodeInvalidRole             = 4008
	CodeInvalidProfile          = 4009
	CodeInvalidMealType         = 4010
	CodeInvalidOrderStatus      = 4011
	CodeInvalidCard             = 4012
	CodeNotTopUp                = 4013
	CodeProductUnavailable      = 4014
	CodeInsufficientStock       = 4015
	CodeUserNotFound            = 4040
	CodeCardNotRegistered       = 4041
	CodeNoPendingOrder          = 4042
	CodeOrderNotFound           = 4043
	CodeTransactionNotFound     = 4044
	CodeProductNotFound         = 4045
	CodeAlreadyProcessed        = 4090
	CodeInvalidStatusTransition = 4091
	CodeCardAlreadyRegistered   = 4092
	CodeDuplicateUser           = 4093
	CodeStoreConflict           = 4099

	// 5xxx - Server errors
	CodeInternalServer   = 5000
	CodeStoreUnavailable = 5030
)

// Base error types
var (
	// ErrInsufficientFunds is returned when an order total exceeds the wallet balance at commit time
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyProcessed is returned when a top-up that is no longer pending is approved or declined
	ErrAlreadyProcessed = errors.New("transaction already processed")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrCardNotRegistered is returned when a scanned card is not bound to any user
	ErrCardNotRegistered = errors.New("card not registered")

	// ErrNoPendingOrder is returned when a claim finds nothing to claim
	ErrNoPendingOrder = errors.New("no pending order")

	// ErrStoreConflict is returned when concurrent writers collided and retries were exhausted
	ErrStoreConflict = errors.New("store conflict")

	// ErrStoreUnavailable is returned when the backing store cannot be reached
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidAmount is returned when an amount is malformed
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when an amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrAmountOverflow is returned when the amount is too large and would cause overflow
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrInvalidUserID is returned when a user ID is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidRole is returned when a role is not one of the known roles
	ErrInvalidRole = errors.New("invalid user role")

	// ErrInvalidProfile is returned when role-specific fields do not match the role
	ErrInvalidProfile = errors.New("invalid profile for role")

	// ErrEmptyCart is returned when an order has no line items
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidQuantity is returned when a line item quantity is not positive
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrTotalMismatch is returned when the requested total differs from the sum of the line items
	ErrTotalMismatch = errors.New("order total does not match line items")

	// ErrInvalidMealType is returned when the meal period is unknown
	ErrInvalidMealType = errors.New("invalid meal type")

	// ErrInvalidOrderStatus is returned when an order status is unknown
	ErrInvalidOrderStatus = errors.New("invalid order status")

	// ErrInvalidStatusTransition is returned when a status change is not allowed from the current status
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrOrderNotFound is returned when the requested order doesn't exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotTopUp is returned when a top-up operation targets a debit or credit entry
	ErrNotTopUp = errors.New("transaction is not a top-up")

	// ErrProductNotFound is returned when the requested product doesn't exist
	ErrProductNotFound = errors.New("product not found")

	// ErrProductUnavailable is returned when an ordered product is flagged unavailable
	ErrProductUnavailable = errors.New("product is not available")

	// ErrInsufficientStock is returned when an ordered quantity exceeds product stock
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidCard is returned when a card identifier is empty
	ErrInvalidCard = errors.New("card identifier cannot be empty")

	// ErrCardAlreadyRegistered is returned when a card is bound to a different user
	ErrCardAlreadyRegistered = errors.New("card already registered to another user")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrAlreadyProcessed):
		return CodeAlreadyProcessed
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrCardNotRegistered):
		return CodeCardNotRegistered
	case errors.Is(err, ErrNoPendingOrder):
		return CodeNoPendingOrder
	case errors.Is(err, ErrStoreConflict):
		return CodeStoreConflict
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidRole):
		return CodeInvalidRole
	case errors.Is(err, ErrInvalidProfile):
		return CodeInvalidProfile
	case errors.Is(err, ErrEmptyCart):
		return CodeEmptyCart
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrTotalMismatch):
		return CodeTotalMismatch
	case errors.Is(err, ErrInvalidMealType):
		return CodeInvalidMealType
	case errors.Is(err, ErrInvalidOrderStatus):
		return CodeInvalidOrderStatus
	case errors.Is(err, ErrInvalidStatusTransition):
		return CodeInvalidStatusTransition
	case errors.Is(err, ErrOrderNotFound):
		return CodeOrderNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrNotTopUp):
		return CodeNotTopUp
	case errors.Is(err, ErrProductNotFound):
		return CodeProductNotFound
	case errors.Is(err, ErrProductUnavailable):
		return CodeProductUnavailable
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrInvalidCard):
		return CodeInvalidCard
	case errors.Is(err, ErrCardAlreadyRegistered):
		return CodeCardAlreadyRegistered
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps an error to the HTTP status the API answers with
func HTTPStatus(err error) int {
	code := ErrorCode(err)
	switch {
	case code == CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case code >= 5000:
		return http.StatusInternalServerError
	case code >= 4090:
		return http.StatusConflict
	case code >= 4040:
		return http.StatusNotFound
	case code == CodeInsufficientFunds, code == CodeInsufficientStock, code == CodeProductUnavailable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// UserMessage returns the plain message shown to kiosk and wallet users
func UserMessage(err error) string {
	var noPending *NoPendingOrderError
	if errors.As(err, &noPending) && noPending.UserName != "" {
		return fmt.Sprintf("No pending orders for %s.", noPending.UserName)
	}

	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient wallet balance"
	case errors.Is(err, ErrCardNotRegistered):
		return "Card not registered."
	case errors.Is(err, ErrNoPendingOrder):
		return "No pending orders."
	case errors.Is(err, ErrAlreadyProcessed):
		return "Transaction already processed"
	case errors.Is(err, ErrUserNotFound):
		return "User not found."
	case errors.Is(err, ErrStoreConflict):
		return "The request collided with another update. Please try again."
	case errors.Is(err, ErrStoreUnavailable), ErrorCode(err) == CodeInternalServer:
		return "System error."
	default:
		return err.Error()
	}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	UserID    string
	Required  string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: required %s, available %s",
		e.UserID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID, required, available string) error {
	return &InsufficientFundsError{
		UserID:    userID,
		Required:  required,
		Available: available,
	}
}

// AlreadyProcessedError reports the terminal status a top-up already reached
type AlreadyProcessedError struct {
	TransactionID string
	Status        string
}

// Error implements the error interface
func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("transaction %s already processed (status: %s)", e.TransactionID, e.Status)
}

// Is checks if the target error is an ErrAlreadyProcessed
func (e *AlreadyProcessedError) Is(target error) bool {
	return target == ErrAlreadyProcessed
}

// LogFields returns a map of fields for structured logging
func (e *AlreadyProcessedError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "already_processed",
		"transaction_id": e.TransactionID,
		"status":         e.Status,
		"error_code":     CodeAlreadyProcessed,
	}
}

// NewAlreadyProcessedError creates a new already processed error
func NewAlreadyProcessedError(transactionID, status string) error {
	return &AlreadyProcessedError{TransactionID: transactionID, Status: status}
}

// NoPendingOrderError names the card holder that had nothing to claim
type NoPendingOrderError struct {
	UserID   string
	UserName string
}

// Error implements the error interface
func (e *NoPendingOrderError) Error() string {
	return fmt.Sprintf("no pending order for user %s (%s)", e.UserID, e.UserName)
}

// Is checks if the target error is an ErrNoPendingOrder
func (e *NoPendingOrderError) Is(target error) bool {
	return target == ErrNoPendingOrder
}

// LogFields returns a map of fields for structured logging
func (e *NoPendingOrderError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "no_pending_order",
		"user_id":    e.UserID,
		"user_name":  e.UserName,
		"error_code": CodeNoPendingOrder,
	}
}

// NewNoPendingOrderError creates a new no pending order error
func NewNoPendingOrderError(userID, userName string) error {
	return &NoPendingOrderError{UserID: userID, UserName: userName}
}

// InsufficientStockError reports a product that cannot cover the ordered quantity
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Is checks if the target error is an ErrInsufficientStock
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientStockError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_stock",
		"product_id": e.ProductID,
		"requested":  e.Requested,
		"available":  e.Available,
		"error_code": CodeInsufficientStock,
	}
}

// NewInsufficientStockError creates a new insufficient stock error
func NewInsufficientStockError(productID string, requested, available int) error {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

// StatusTransitionError reports a rejected order status change
type StatusTransitionError struct {
	OrderID string
	From    string
	To      string
}

// Error implements the error interface
func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.OrderID, e.From, e.To)
}

// Is checks if the target error is an ErrInvalidStatusTransition
func (e *StatusTransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

// LogFields returns a map of fields for structured logging
func (e *StatusTransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_status_transition",
		"order_id":   e.OrderID,
		"from":       e.From,
		"to":         e.To,
		"error_code": CodeInvalidStatusTransition,
	}
}

// NewStatusTransitionError creates a new status transition error
func NewStatusTransitionError(orderID, from, to string) error {
	return &StatusTransitionError{OrderID: orderID, From: from, To: to}
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsAlreadyProcessedError checks if the error is an already processed error
func IsAlreadyProcessedError(err error) bool {
	return errors.Is(err, ErrAlreadyProcessed)
}

// IsUserNotFoundError checks if the error is a user not found error
func IsUserNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsStoreConflictError checks if the error is a retryable store conflict
func IsStoreConflictError(err error) bool {
	return errors.Is(err, ErrStoreConflict)
}

// IsStoreUnavailableError checks if the error is a store connectivity failure
func IsStoreUnavailableError(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCardNotRegistered) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrProductNotFound)
}
