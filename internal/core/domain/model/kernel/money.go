package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a value object for monetary amounts. It is backed by fixed-point
// decimal arithmetic so persisted amounts never lose precision; conversion to
// floating point happens only at the event-publication boundary via Float64.
//
// The zero value is a valid zero amount. Negative amounts are rejected at
// construction.
//
// Example usage:
//
//	price, err := kernel.MoneyFromString("10.50")
//	if err != nil {
//	    // handle error
//	}
//	total := price.MulInt(2) // 21.00
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// MoneyFromString parses a decimal string such as "10.50".
// Returns an error for malformed or negative input.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return moneyFrom(d)
}

// MoneyFromFloat64 converts a floating-point amount arriving from an external
// boundary (HTTP payloads, event replays) into a fixed-point amount. Use only
// at ingestion; domain code works with Money values.
func MoneyFromFloat64(f float64) (Money, error) {
	return moneyFrom(decimal.NewFromFloat(f))
}

// MoneyFromDecimal wraps a raw decimal read back from persistence.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	return moneyFrom(d)
}

func moneyFrom(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", d.String()))
	}
	return Money{amount: d}, nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MulInt returns the amount multiplied by a whole quantity.
func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsEqual compares two amounts numerically, ignoring trailing zeros.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal returns the underlying fixed-point value for persistence.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 converts the amount to floating point. Precision loss is acceptable
// for display and notification consumers; persisted amounts must never pass
// through this method.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns the decimal string representation, e.g. "21.00" for 21.
func (m Money) String() string {
	return m.amount.String()
}
