// Package core holds the domain model shared by storage, the budget
// engine and the HTTP layer: calendar dates, decimal money amounts,
// financial items and their validation rules.
package core

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as plain JSON numbers, matching the web client.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount parses a monetary amount from its string form.
//
// The value must be strictly positive. Anything past the second decimal
// place is rounded half-up, so "12.345" becomes 12.35.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// NormalizeAmount rounds an amount to two decimal places and validates
// that it is strictly positive.
func NormalizeAmount(d decimal.Decimal) (decimal.Decimal, error) {
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
