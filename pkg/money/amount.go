package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when user input is not a usable amount
var ErrInvalidAmount = errors.New("invalid amount")

// ParseInput converts a user-typed amount to a decimal.
// Both "150,75" and "150.75" are accepted; only the first comma is treated
// as the decimal separator.
func ParseInput(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.Replace(s, ",", ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParsePositiveInput is ParseInput restricted to values > 0
func ParsePositiveInput(s string) (decimal.Decimal, error) {
	d, err := ParseInput(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
