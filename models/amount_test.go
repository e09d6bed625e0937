package models

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	t.Run("CheckedAdd", func(t *testing.T) {
		sum, err := Amount(100).CheckedAdd(Amount(200))
		assert.NoError(t, err)
		assert.Equal(t, Amount(300), sum)

		_, err = Amount(math.MaxUint64).CheckedAdd(Amount(1))
		assert.Equal(t, ErrAmountOverflow, err)

		sum, err = Amount(math.MaxUint64).CheckedAdd(0)
		assert.NoError(t, err)
		assert.Equal(t, Amount(math.MaxUint64), sum)
	})

	t.Run("CheckedSub", func(t *testing.T) {
		diff, err := Amount(300).CheckedSub(Amount(100))
		assert.NoError(t, err)
		assert.Equal(t, Amount(200), diff)

		_, err = Amount(100).CheckedSub(Amount(101))
		assert.Equal(t, ErrAmountOverflow, err)
	})

	t.Run("Decimal", func(t *testing.T) {
		assert.True(t, decimal.NewFromFloat(1.5).Equal(Amount(1_500_000).Decimal()))
		assert.True(t, decimal.Zero.Equal(Amount(0).Decimal()))
	})

	t.Run("AmountFromDecimal", func(t *testing.T) {
		a, err := AmountFromDecimal(decimal.NewFromFloat(63000))
		assert.NoError(t, err)
		assert.Equal(t, Amount(63_000_000_000), a)

		// truncation below resolution
		a, err = AmountFromDecimal(decimal.RequireFromString("0.0000019"))
		assert.NoError(t, err)
		assert.Equal(t, Amount(1), a)

		_, err = AmountFromDecimal(decimal.NewFromInt(-1))
		assert.Equal(t, ErrAmountOverflow, err)
	})
}

func TestWinPayout(t *testing.T) {
	t.Run("lone winner takes the whole pool", func(t *testing.T) {
		payout, err := WinPayout(100, 100, 200)
		assert.NoError(t, err)
		assert.Equal(t, Amount(300), payout)
	})

	t.Run("no losing pool means stake back only", func(t *testing.T) {
		payout, err := WinPayout(100, 300, 0)
		assert.NoError(t, err)
		assert.Equal(t, Amount(100), payout)
	})

	t.Run("two winners split the combined pool pro rata", func(t *testing.T) {
		p1, err := WinPayout(100, 300, 600)
		assert.NoError(t, err)
		p2, err := WinPayout(200, 300, 600)
		assert.NoError(t, err)
		assert.Equal(t, Amount(300), p1)
		assert.Equal(t, Amount(600), p2)
		assert.Equal(t, Amount(900), p1+p2)
	})

	t.Run("truncates toward zero", func(t *testing.T) {
		// 10 * 100 / 30 = 33.33... -> 33
		payout, err := WinPayout(10, 30, 70)
		assert.NoError(t, err)
		assert.Equal(t, Amount(33), payout)
	})

	t.Run("large stakes do not wrap", func(t *testing.T) {
		huge := Amount(math.MaxUint64 / 2)
		payout, err := WinPayout(huge, huge, 0)
		assert.NoError(t, err)
		assert.Equal(t, huge, payout)

		// winner's share can never exceed the combined pool, so a valid
		// call cannot overflow; the zero winning pool is rejected outright
		_, err = WinPayout(1, 0, 100)
		assert.Equal(t, ErrAmountOverflow, err)
	})
}
