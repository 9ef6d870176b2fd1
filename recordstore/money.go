package recordstore

import (
	"fmt"
	"math"
)

// Money is an amount in minor currency units (cents). Arithmetic on it is exact.
type Money int64

// MoneyFromFloat converts a decimal amount like 3.99 into Money, rounding to the nearest cent.
// NaN, infinities and amounts beyond the int64 cent range return ErrMoneyOutOfRange.
func MoneyFromFloat(amount float64) (Money, error) {
	cents := math.Round(amount * 100)
	if math.IsNaN(cents) || cents >= math.MaxInt64 || cents < math.MinInt64 {
		return 0, ErrMoneyOutOfRange
	}

	return Money(cents), nil
}

// Times multiplies the amount by a whole number of units.
// It returns ErrMoneyOutOfRange instead of wrapping around.
func (m Money) Times(units int64) (Money, error) {
	product := m * Money(units)
	if units != 0 && (product/Money(units) != m || (units == -1 && m == math.MinInt64)) {
		return 0, ErrMoneyOutOfRange
	}

	return product, nil
}

// Float64 returns the decimal amount, e.g. 19.95.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	sign := ""
	v := uint64(m)
	if m < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
