package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	if ErrInsufficientFunds.Error() != "insufficient funds" {
		t.Errorf("ErrInsufficientFunds has unexpected message: %s", ErrInsufficientFunds.Error())
	}
	if ErrAlreadyProcessed.Error() != "transaction already processed" {
		t.Errorf("ErrAlreadyProcessed has unexpected message: %s", ErrAlreadyProcessed.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InsufficientFunds", ErrInsufficientFunds, 4001},
		{"AlreadyProcessed", ErrAlreadyProcessed, 4090},
		{"UserNotFound", ErrUserNotFound, 4040},
		{"CardNotRegistered", ErrCardNotRegistered, 4041},
		{"NoPendingOrder", ErrNoPendingOrder, 4042},
		{"StoreConflict", ErrStoreConflict, 4099},
		{"StoreUnavailable", ErrStoreUnavailable, 5030},
		{"NegativeAmount", ErrNegativeAmount, 4002},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrInvalidUserID), 4003},
		{"TypedInsufficientFunds", NewInsufficientFundsError("u1", "85.00", "50.00"), 4001},
		{"TypedNoPendingOrder", NewNoPendingOrderError("u1", "Ana"), 4042},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InsufficientFunds", ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"AlreadyProcessed", ErrAlreadyProcessed, http.StatusConflict},
		{"CardNotRegistered", ErrCardNotRegistered, http.StatusNotFound},
		{"StoreConflict", fmt.Errorf("%w: retries exhausted", ErrStoreConflict), http.StatusConflict},
		{"StoreUnavailable", ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"EmptyCart", ErrEmptyCart, http.StatusBadRequest},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.expected {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{"InsufficientFunds", NewInsufficientFundsError("u1", "85.00", "50.00"), "Insufficient wallet balance"},
		{"CardNotRegistered", ErrCardNotRegistered, "Card not registered."},
		{"NoPendingOrderWithName", NewNoPendingOrderError("u1", "Ana"), "No pending orders for Ana."},
		{"NoPendingOrderBare", ErrNoPendingOrder, "No pending orders."},
		{"StoreUnavailable", ErrStoreUnavailable, "System error."},
		{"Unknown", errors.New("boom"), "System error."},
		{"Validation", ErrEmptyCart, "cart is empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UserMessage(tc.err); got != tc.expected {
				t.Errorf("UserMessage(%v) = %q, want %q", tc.err, got, tc.expected)
			}
		})
	}
}

func TestInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError("user-1", "85.00", "50.00")

	expectedErrMsg := "insufficient funds for user user-1: required 85.00, available 50.00"
	if err.Error() != expectedErrMsg {
		t.Errorf("InsufficientFundsError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("errors.Is(err, ErrInsufficientFunds) = false, want true")
	}
	if !IsInsufficientFundsError(fmt.Errorf("place order: %w", err)) {
		t.Errorf("IsInsufficientFundsError on wrapped error = false, want true")
	}

	var typed *InsufficientFundsError
	if !errors.As(err, &typed) {
		t.Fatalf("errors.As failed for InsufficientFundsError")
	}
	fields := typed.LogFields()
	if fields["error_code"] != CodeInsufficientFunds {
		t.Errorf("LogFields error_code = %v, want %d", fields["error_code"], CodeInsufficientFunds)
	}
}

func TestAlreadyProcessedError(t *testing.T) {
	err := NewAlreadyProcessedError("txn-1", "approved")

	if !IsAlreadyProcessedError(err) {
		t.Errorf("IsAlreadyProcessedError = false, want true")
	}
	if err.Error() != "transaction txn-1 already processed (status: approved)" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestStatusTransitionError(t *testing.T) {
	err := NewStatusTransitionError("ord-1", "claimed", "pending")

	if !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("errors.Is(err, ErrInvalidStatusTransition) = false, want true")
	}
	if ErrorCode(err) != CodeInvalidStatusTransition {
		t.Errorf("ErrorCode = %d, want %d", ErrorCode(err), CodeInvalidStatusTransition)
	}
}

func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError("p-1", 3, 1)

	if !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("errors.Is(err, ErrInsufficientStock) = false, want true")
	}
	var typed *InsufficientStockError
	if !errors.As(err, &typed) || typed.Available != 1 {
		t.Errorf("errors.As did not expose the available stock")
	}
}

func TestIsNotFoundError(t *testing.T) {
	notFound := []error{ErrUserNotFound, ErrCardNotRegistered, ErrOrderNotFound, ErrTransactionNotFound, ErrProductNotFound}
	for _, err := range notFound {
		if !IsNotFoundError(fmt.Errorf("lookup: %w", err)) {
			t.Errorf("IsNotFoundError(%v) = false, want true", err)
		}
	}
	if IsNotFoundError(ErrInsufficientFunds) {
		t.Errorf("IsNotFoundError(ErrInsufficientFunds) = true, want false")
	}
}

func TestStoreErrorHelpers(t *testing.T) {
	if !IsStoreConflictError(fmt.Errorf("%w: serialization failure", ErrStoreConflict)) {
		t.Errorf("IsStoreConflictError = false, want true")
	}
	if !IsStoreUnavailableError(fmt.Errorf("%w: dial tcp", ErrStoreUnavailable)) {
		t.Errorf("IsStoreUnavailableError = false, want true")
	}
	if IsStoreConflictError(ErrStoreUnavailable) {
		t.Errorf("IsStoreConflictError(ErrStoreUnavailable) = true, want false")
	}
}
