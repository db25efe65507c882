package entity

import (
	"math"
	"testing"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndConvertAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{"85", 8500},
			{"10.", 1000},
			{".5", 50},
			{" 215.00 ", 21500},
			{"1234567.89", 123456789},
			{"0", 0},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				cents, err := ValidateAndConvertAmount(tc.input)
				require.NoError(t, err)
				assert.Equal(t, tc.expected, cents)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			errorType   error
			description string
		}{
			{"", errs.ErrInvalidAmount, "Empty string"},
			{"   ", errs.ErrInvalidAmount, "Whitespace only"},
			{".", errs.ErrInvalidAmount, "Lone decimal point"},
			{"-1.00", errs.ErrNegativeAmount, "Negative amount"},
			{"1.234", errs.ErrInvalidAmount, "Too many decimal places"},
			{"abc", errs.ErrInvalidAmount, "Non-numeric"},
			{"1,000.00", errs.ErrInvalidAmount, "Comma as thousands separator"},
			{"1.00.00", errs.ErrInvalidAmount, "Multiple decimal points"},
			{"$100", errs.ErrInvalidAmount, "Currency symbol"},
			{"99999999999999999999", errs.ErrAmountOverflow, "Overflow"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ValidateAndConvertAmount(tc.input)
				assert.ErrorIs(t, err, tc.errorType)
			})
		}
	})
}

func TestValidatePositiveAmount(t *testing.T) {
	cents, err := ValidatePositiveAmount("200")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), cents)

	_, err = ValidatePositiveAmount("0.00")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)
}

func TestAmountInCentsToString(t *testing.T) {
	testCases := []struct {
		cents    int64
		expected string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{10, "0.10"},
		{1015, "10.15"},
		{8500, "85.00"},
		{-150, "-1.50"},
		{math.MinInt64, "-92233720368547758.08"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, AmountInCentsToString(tc.cents))
		})
	}
}

func TestAddCents(t *testing.T) {
	sum, err := AddCents(1500, 20000)
	require.NoError(t, err)
	assert.Equal(t, int64(21500), sum)

	_, err = AddCents(math.MaxInt64, 1)
	assert.ErrorIs(t, err, errs.ErrAmountOverflow)
}

func TestMultiplyCents(t *testing.T) {
	total, err := MultiplyCents(4250, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(8500), total)

	_, err = MultiplyCents(100, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidQuantity)

	_, err = MultiplyCents(math.MaxInt64/2+1, 2)
	assert.ErrorIs(t, err, errs.ErrAmountOverflow)
}
