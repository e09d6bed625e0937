package oracle

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/flashpred/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func freshFeed(price int64, expo int32, conf uint64) []byte {
	return EncodePriceAccount(price, expo, conf, StatusTrading, testNow)
}

func TestPythReader_Read(t *testing.T) {
	reader := NewReader(GetDefaultConfig())

	t.Run("valid feed normalizes to 1e6 scale", func(t *testing.T) {
		// 63500.00 USD published as 6350000000000 * 10^-8
		obs, err := reader.Read(freshFeed(6_350_000_000_000, -8, 0), testNow)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(63_500_000_000), obs.Normalized)
		assert.Equal(t, int64(6_350_000_000_000), obs.Price)
		assert.Equal(t, int32(-8), obs.Exponent)
		assert.Equal(t, testNow.Unix(), obs.PublishedAt.Unix())
	})

	t.Run("positive exponent", func(t *testing.T) {
		obs, err := reader.Read(freshFeed(63, 3, 0), testNow)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(63_000_000_000), obs.Normalized)
	})

	t.Run("sub-resolution digits truncate toward zero", func(t *testing.T) {
		// 1.2345678 -> 1.234567
		obs, err := reader.Read(freshFeed(12_345_678, -7, 0), testNow)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(1_234_567), obs.Normalized)
	})

	t.Run("short buffer", func(t *testing.T) {
		_, err := reader.Read(make([]byte, 100), testNow)
		assert.ErrorIs(t, err, models.ErrOracleMalformed)
	})

	t.Run("bad magic", func(t *testing.T) {
		feed := freshFeed(100, -2, 0)
		binary.LittleEndian.PutUint32(feed[offMagic:], 0xdeadbeef)
		_, err := reader.Read(feed, testNow)
		assert.ErrorIs(t, err, models.ErrOracleMalformed)
	})

	t.Run("bad version", func(t *testing.T) {
		feed := freshFeed(100, -2, 0)
		binary.LittleEndian.PutUint32(feed[offVersion:], 1)
		_, err := reader.Read(feed, testNow)
		assert.ErrorIs(t, err, models.ErrOracleMalformed)
	})

	t.Run("bad account type", func(t *testing.T) {
		feed := freshFeed(100, -2, 0)
		binary.LittleEndian.PutUint32(feed[offAccountType:], 2)
		_, err := reader.Read(feed, testNow)
		assert.ErrorIs(t, err, models.ErrOracleMalformed)
	})

	t.Run("not trading", func(t *testing.T) {
		feed := EncodePriceAccount(100, -2, 0, 0, testNow)
		_, err := reader.Read(feed, testNow)
		assert.ErrorIs(t, err, models.ErrOracleNotTrading)
	})

	t.Run("stale observation", func(t *testing.T) {
		feed := EncodePriceAccount(100, -2, 0, StatusTrading, testNow.Add(-2*time.Minute))
		_, err := reader.Read(feed, testNow)
		assert.ErrorIs(t, err, models.ErrOracleStale)
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := reader.Read(freshFeed(0, -2, 0), testNow)
		assert.ErrorIs(t, err, models.ErrOracleInvalidPrice)

		_, err = reader.Read(freshFeed(-500, -2, 0), testNow)
		assert.ErrorIs(t, err, models.ErrOracleInvalidPrice)
	})

	t.Run("confidence bound", func(t *testing.T) {
		// 5% of 10000 is 500; conf at the bound passes, above fails
		_, err := reader.Read(freshFeed(10_000, -2, 500), testNow)
		assert.NoError(t, err)

		_, err = reader.Read(freshFeed(10_000, -2, 501), testNow)
		assert.ErrorIs(t, err, models.ErrOracleUntrusted)
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, cfg.Validate())

	bad := *cfg
	bad.StaleAfter = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.MaxConfidenceBps = 20_000
	assert.Error(t, bad.Validate())
}

func TestMemoryProviderWithFeed(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider()

	_, err := provider.Fetch(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrRecordNotFound)

	feed := freshFeed(100, -2, 0)
	provider.Set("btc-usd", feed)

	got, err := provider.Fetch(ctx, "btc-usd")
	assert.NoError(t, err)
	assert.Equal(t, feed, got)

	// mutation of the returned slice must not leak back
	got[0] = 0
	again, err := provider.Fetch(ctx, "btc-usd")
	assert.NoError(t, err)
	assert.Equal(t, feed, again)
}
