package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	price := Cents(1000)

	assert.Equal(t, Cents(3000), price.Mul(3))
	assert.Equal(t, Cents(1099), price.Add(Cents(99)))
	assert.Equal(t, Cents(901), price.Sub(Cents(99)))
	assert.Equal(t, Zero, Sum())
	assert.Equal(t, Cents(60), Sum(Cents(10), Cents(20), Cents(30)))
	assert.True(t, Cents(-1).IsNegative())
	assert.False(t, Zero.IsNegative())
}

func TestCmp(t *testing.T) {
	assert.Equal(t, -1, Cents(1).Cmp(Cents(2)))
	assert.Equal(t, 0, Cents(2).Cmp(Cents(2)))
	assert.Equal(t, 1, Cents(3).Cmp(Cents(2)))
}

func TestString(t *testing.T) {
	assert.Equal(t, "30.00", Cents(3000).String())
	assert.Equal(t, "0.07", Cents(7).String())
	assert.Equal(t, "0.00", Zero.String())
	assert.Equal(t, "1234.56", Cents(123456).String())
}

func TestParse(t *testing.T) {
	cases := map[string]Money{
		"10":     Cents(1000),
		"10.5":   Cents(1050),
		"10.50":  Cents(1050),
		"0.01":   Cents(1),
		"199.99": Cents(19999),
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-1.00", "1.005"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 in cents must be exact.
	a, err := Parse("0.10")
	require.NoError(t, err)
	b, err := Parse("0.20")
	require.NoError(t, err)
	assert.Equal(t, "0.30", a.Add(b).String())
}

func TestCheckedArithmetic(t *testing.T) {
	got, err := Cents(1000).MulChecked(3)
	require.NoError(t, err)
	assert.Equal(t, Cents(3000), got)

	got, err = Cents(2500).AddChecked(Cents(250))
	require.NoError(t, err)
	assert.Equal(t, Cents(2750), got)

	_, err = Cents(math.MaxInt64 / 2).MulChecked(3)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Cents(math.MaxInt64).AddChecked(Cents(1))
	assert.ErrorIs(t, err, ErrOverflow)

	// Unchecked Mul wraps, which is why totals use the checked form.
	assert.True(t, Cents(math.MaxInt64/2).Mul(3).IsNegative())
}
