package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// ValidateAndConvertAmount parses a decimal amount such as "85", "85.5" or "85.50" into cents.
// The fraction is padded to two digits before the point is dropped, so no float arithmetic is involved.
func ValidateAndConvertAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}
	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}
	amount = strings.TrimPrefix(amount, "+")

	whole, fraction, hasPoint := strings.Cut(amount, ".")
	if whole == "" && (!hasPoint || fraction == "") {
		return 0, fmt.Errorf("%w: no digits", errs.ErrInvalidAmount)
	}
	if whole == "" {
		whole = "0"
	}
	if len(fraction) > MaxDecimalPlaces {
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}
	if !isDigits(whole) || !isDigits(fraction) {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}
	fraction += strings.Repeat("0", MaxDecimalPlaces-len(fraction))

	value, err := strconv.ParseInt(whole+fraction, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, errs.ErrAmountOverflow
		}
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	return value, nil
}

// ValidatePositiveAmount parses an amount and rejects zero
func ValidatePositiveAmount(amount string) (int64, error) {
	cents, err := ValidateAndConvertAmount(amount)
	if err != nil {
		return 0, err
	}
	if cents == 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", errs.ErrInvalidAmount)
	}
	return cents, nil
}

// AmountInCentsToString converts an amount in cents to a decimal string.
// For example 1015 becomes "10.15" and 8500 becomes "85.00".
func AmountInCentsToString(amountInCents int64) string {
	sign := ""
	abs := uint64(amountInCents)
	if amountInCents < 0 {
		sign = "-"
		abs = uint64(-(amountInCents + 1)) + 1
	}
	return fmt.Sprintf("%s%d.%02d", sign, abs/100, abs%100)
}

// AddCents adds two non-negative amounts, reporting overflow
func AddCents(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, errs.ErrAmountOverflow
	}
	return a + b, nil
}

// MultiplyCents multiplies a unit price by a quantity, reporting overflow
func MultiplyCents(unitPrice int64, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, errs.ErrInvalidQuantity
	}
	if unitPrice > math.MaxInt64/int64(quantity) {
		return 0, errs.ErrAmountOverflow
	}
	return unitPrice * int64(quantity), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
