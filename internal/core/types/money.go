// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MulInt multiplies a Money value by an integer count.
func MulInt(m Money, n int64) Money {
	return m.Mul(decimal.NewFromInt(n))
}

// Liters represents a water amount in liters (e.g. 0.5, 10, 20).
// Stored as decimal so fractional bottle sizes keep exact values.
type Liters = decimal.Decimal

// NewLiters creates a Liters value from an integer liter count.
func NewLiters(l int64) Liters {
	return decimal.NewFromInt(l)
}

// MustLiters creates a Liters value from a string, panics on error.
// Use only for constants and tests.
func MustLiters(s string) Liters {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
