package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents).
type Money int64

// Zero is the additive identity.
const Zero Money = 0

// ErrOverflow reports a result outside the int64 cent range.
var ErrOverflow = errors.New("amount out of range")

var (
	errNegative  = errors.New("amount must not be negative")
	errPrecision = errors.New("amount has more than two fractional digits")
)

// Cents builds a Money value from a cent count.
func Cents(n int64) Money {
	return Money(n)
}

// Int64 returns the raw cent count.
func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) Add(o Money) Money {
	return m + o
}

func (m Money) Sub(o Money) Money {
	return m - o
}

// Mul multiplies by an item quantity.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// AddChecked is Add that fails instead of wrapping around.
func (m Money) AddChecked(o Money) (Money, error) {
	if (o > 0 && m > math.MaxInt64-o) || (o < 0 && m < math.MinInt64-o) {
		return Zero, ErrOverflow
	}
	return m + o, nil
}

// MulChecked is Mul that fails instead of wrapping around.
func (m Money) MulChecked(qty int) (Money, error) {
	if m == 0 || qty == 0 {
		return Zero, nil
	}
	r := m * Money(qty)
	if r/Money(qty) != m || (qty == -1 && m == math.MinInt64) {
		return Zero, ErrOverflow
	}
	return r, nil
}

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

func (m Money) IsNegative() bool {
	return m < 0
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Decimal converts the amount to major units, e.g. 3000 -> 30.00.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String renders the amount in major units with two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Parse reads a non-negative major-unit amount such as "10.5" or "10.50".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a major-unit decimal to cents without rounding.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Zero, errNegative
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return Zero, errPrecision
	}
	return Money(cents.IntPart()), nil
}
