package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Amount is an unsigned fixed-point quantity at 1e6 scale (micro-units),
// the same USDC-style convention the oracle price is normalized to.
type Amount uint64

// AmountScale is the number of decimal places carried by an Amount.
const AmountScale = 6

var maxAmountDecimal = decimal.NewFromUint64(math.MaxUint64)

// CheckedAdd returns a+b or ErrAmountOverflow instead of wrapping.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// CheckedSub returns a-b or ErrAmountOverflow on underflow.
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	if b > a {
		return 0, ErrAmountOverflow
	}
	return a - b, nil
}

// Decimal returns the amount as an exact decimal in whole units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromUint64(uint64(a)).Shift(-AmountScale)
}

// AmountFromDecimal converts a non-negative decimal in whole units to an
// Amount, truncating toward zero below the 1e-6 resolution.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	scaled := d.Shift(AmountScale).Truncate(0)
	if scaled.IsNegative() || scaled.GreaterThan(maxAmountDecimal) {
		return 0, ErrAmountOverflow
	}
	return Amount(scaled.BigInt().Uint64()), nil
}

// WinPayout computes stake * (winPool + losePool) / winPool with integer
// truncation toward zero. The intermediate product is carried at full
// precision, so the only overflow to guard is the final conversion back to
// the 64-bit fixed-point range.
func WinPayout(stake, winPool, losePool Amount) (Amount, error) {
	if winPool == 0 {
		return 0, ErrAmountOverflow
	}
	total, err := winPool.CheckedAdd(losePool)
	if err != nil {
		return 0, err
	}

	product := decimal.NewFromUint64(uint64(stake)).Mul(decimal.NewFromUint64(uint64(total)))
	quotient, _ := product.QuoRem(decimal.NewFromUint64(uint64(winPool)), 0)
	if quotient.GreaterThan(maxAmountDecimal) {
		return 0, ErrAmountOverflow
	}
	return Amount(quotient.BigInt().Uint64()), nil
}
