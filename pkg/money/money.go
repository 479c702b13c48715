// Package money provides an exact fixed-point currency value used by every
// monetary field in the system. Amounts are held as decimals, never binary
// floats, and inputs are bounded to two decimal places and eight integer
// digits to match the numeric(10,2) storage contract.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxIntegerDigits caps the whole part of any accepted amount.
const MaxIntegerDigits = 8

// MaxDecimalPlaces caps the fractional precision of any accepted amount.
const MaxDecimalPlaces = 2

var integerLimit = decimal.New(1, MaxIntegerDigits)

// Money is an immutable decimal currency amount.
type Money struct {
	value decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Money {
	return Money{}
}

// FromDecimal validates a raw decimal against the precision bounds.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.Exponent() < -MaxDecimalPlaces && !d.Equal(d.Truncate(MaxDecimalPlaces)) {
		return Money{}, fmt.Errorf("amount %s has more than %d decimal places", d, MaxDecimalPlaces)
	}
	if d.Abs().GreaterThanOrEqual(integerLimit) {
		return Money{}, fmt.Errorf("amount %s exceeds %d integer digits", d, MaxIntegerDigits)
	}
	return Money{value: d}, nil
}

// Parse converts a decimal string such as "12.50" into Money.
func Parse(raw string) (Money, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return FromDecimal(d)
}

// MustParse is a test/fixture helper; it panics on invalid input.
func MustParse(raw string) Money {
	m, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value)}
}

// Sub returns m − other.
func (m Money) Sub(other Money) Money {
	return Money{value: m.value.Sub(other.value)}
}

// MulInt returns m × qty, the line-total operation.
func (m Money) MulInt(qty int) Money {
	return Money{value: m.value.Mul(decimal.NewFromInt(int64(qty)))}
}

// FloorZero clamps negative amounts to zero.
func (m Money) FloorZero() Money {
	if m.value.IsNegative() {
		return Zero()
	}
	return m
}

// Cmp compares m to other: -1 if less, 0 if equal, +1 if greater.
func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.value.GreaterThan(other.value)
}

// IsNegative reports m < 0.
func (m Money) IsNegative() bool {
	return m.value.IsNegative()
}

// IsZero reports m == 0.
func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// Equal reports numeric equality regardless of exponent representation.
func (m Money) Equal(other Money) bool {
	return m.value.Equal(other.value)
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	return m.value.StringFixed(MaxDecimalPlaces)
}
