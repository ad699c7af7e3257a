package decimal

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the money amount to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// RoundDollars rounds to whole dollars, half away from zero.
func (m Money) RoundDollars() Money {
	return Money{m.Decimal.Round(0)}
}

// Float64 returns the nearest float64, used at the boundary to the projection engine.
func (m Money) Float64() float64 {
	return m.Decimal.InexactFloat64()
}

// Millions returns the amount in millions rounded to one decimal, e.g. 1.2 for $1,234,567.
func (m Money) Millions() decimal.Decimal {
	return m.Decimal.Div(decimal.NewFromInt(1_000_000)).Round(1)
}

// IsNegative checks if the amount is negative
func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

// String returns the string representation with proper formatting
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format formats the money amount with proper currency formatting
func (m Money) Format() string {
	return "$" + m.String()
}
