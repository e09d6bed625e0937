package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/flashpred/app/oracle"
	"github.com/joefazee/flashpred/app/vault"
	"github.com/joefazee/flashpred/internal/logger"
	"github.com/joefazee/flashpred/internal/store"
	"github.com/joefazee/flashpred/models"
)

const (
	strike63000 = 63_000_000_000 // 63000 at 1e6 scale
	stake100    = 100_000_000
	stake200    = 200_000_000
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	svc     Service
	store   *store.Memory
	custody *vault.MemoryCustody
	feeds   *oracle.MemoryProvider
	clock   *testClock
	cfg     *Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	st := store.NewMemory()
	custody := vault.NewMemoryCustody()
	feeds := oracle.NewMemoryProvider()
	cfg := GetDefaultConfig()
	svc := NewService(st, custody, feeds, oracle.NewReader(oracle.GetDefaultConfig()), cfg, logger.NewNullLogger(), clock.Now)
	return &fixture{svc: svc, store: st, custody: custody, feeds: feeds, clock: clock, cfg: cfg}
}

type marketParams struct {
	duration int64
	cutoff   int64
	grace    int64
	maxDelay int64
}

func (f *fixture) createMarket(t *testing.T, p marketParams) (*MarketResponse, uuid.UUID) {
	t.Helper()
	keeper := uuid.New()
	resp, err := f.svc.CreateMarket(context.Background(), &CreateMarketRequest{
		CreatorID:    uuid.New(),
		KeeperID:     keeper,
		Symbol:       "BTC/USD",
		OracleFeedID: "pyth-btc-usd",
		StrikePrice:  strike63000,
		DurationSecs: p.duration,
		CutoffSecs:   p.cutoff,
		GraceSecs:    p.grace,
		MaxDelaySecs: p.maxDelay,
	})
	require.NoError(t, err)
	return resp, keeper
}

func (f *fixture) fundedUser(t *testing.T, amount models.Amount) uuid.UUID {
	t.Helper()
	user := uuid.New()
	require.NoError(t, f.custody.Fund(context.Background(), user, amount))
	return user
}

func (f *fixture) bet(t *testing.T, marketID, user uuid.UUID, side models.Side, amount uint64) {
	t.Helper()
	_, err := f.svc.PlaceBet(context.Background(), &PlaceBetRequest{
		MarketID: marketID, UserID: user, Side: side, Amount: amount,
	})
	require.NoError(t, err)
}

// publishPrice writes a fresh trading observation for the market's feed.
// mantissa is at exponent -8, so 6_350_000_000_000 is a price of 63500.
func (f *fixture) publishPrice(feedID string, mantissa int64) {
	f.feeds.Set(feedID, oracle.EncodePriceAccount(mantissa, -8, 1, oracle.StatusTrading, f.clock.Now()))
}

func TestCreateMarket(t *testing.T) {
	ctx := context.Background()

	t.Run("derives the time boundaries", func(t *testing.T) {
		f := newFixture(t)
		resp, _ := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		created := f.clock.Now()
		assert.Equal(t, created.Add(3*time.Second), resp.ExpiresAt)
		assert.Equal(t, created.Add(2*time.Second), resp.BettingDeadline)
		assert.Equal(t, created.Add(4*time.Second), resp.ResolutionOpenAt)
		assert.Equal(t, created.Add(34*time.Second), resp.ResolutionDeadline)
		assert.Equal(t, models.OutcomePending, resp.Outcome)
	})

	t.Run("cutoff must leave a betting window", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateMarket(ctx, &CreateMarketRequest{
			CreatorID:    uuid.New(),
			KeeperID:     uuid.New(),
			Symbol:       "BTC/USD",
			OracleFeedID: "pyth-btc-usd",
			StrikePrice:  strike63000,
			DurationSecs: 5,
			CutoffSecs:   5,
			MaxDelaySecs: 30,
		})
		assert.ErrorIs(t, err, models.ErrInvalidWindow)
	})

	t.Run("duration capped by config", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.MaxDurationSecs = 60
		_, err := f.svc.CreateMarket(ctx, &CreateMarketRequest{
			CreatorID:    uuid.New(),
			KeeperID:     uuid.New(),
			Symbol:       "BTC/USD",
			OracleFeedID: "pyth-btc-usd",
			StrikePrice:  strike63000,
			DurationSecs: 61,
			MaxDelaySecs: 30,
		})
		assert.ErrorIs(t, err, models.ErrInvalidWindow)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateMarket(ctx, &CreateMarketRequest{})
		assert.Error(t, err)
	})
}

func TestPlaceBet(t *testing.T) {
	ctx := context.Background()

	t.Run("stake moves into the side vault", func(t *testing.T) {
		f := newFixture(t)
		m, _ := f.createMarket(t, marketParams{duration: 60, cutoff: 10, grace: 5, maxDelay: 30})
		alice := f.fundedUser(t, stake100)

		resp, err := f.svc.PlaceBet(ctx, &PlaceBetRequest{
			MarketID: m.ID, UserID: alice, Side: models.SideYes, Amount: stake100,
		})
		require.NoError(t, err)
		assert.Equal(t, models.SideYes, resp.Side)
		assert.False(t, resp.Claimed)

		market, err := f.svc.GetMarket(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, market.YesPool.Equal(models.Amount(stake100).Decimal()))
		assert.True(t, market.NoPool.IsZero())

		stored, err := f.store.GetMarket(ctx, m.ID)
		require.NoError(t, err)
		balance, err := f.custody.VaultBalance(ctx, stored.YesVaultID)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(stake100), balance)

		userBalance, err := f.custody.UserBalance(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(0), userBalance)
	})

	t.Run("closed at the betting deadline", func(t *testing.T) {
		f := newFixture(t)
		// deadline is 2s after creation
		m, _ := f.createMarket(t, marketParams{duration: 5, cutoff: 3, grace: 1, maxDelay: 30})
		alice := f.fundedUser(t, stake100)

		f.clock.Advance(2 * time.Second)
		_, err := f.svc.PlaceBet(ctx, &PlaceBetRequest{
			MarketID: m.ID, UserID: alice, Side: models.SideYes, Amount: stake100,
		})
		assert.ErrorIs(t, err, models.ErrBettingClosed)
	})

	t.Run("one position per user even on the same side", func(t *testing.T) {
		f := newFixture(t)
		m, _ := f.createMarket(t, marketParams{duration: 60, cutoff: 10, grace: 5, maxDelay: 30})
		alice := f.fundedUser(t, stake200)
		f.bet(t, m.ID, alice, models.SideYes, stake100)

		_, err := f.svc.PlaceBet(ctx, &PlaceBetRequest{
			MarketID: m.ID, UserID: alice, Side: models.SideYes, Amount: stake100,
		})
		assert.ErrorIs(t, err, models.ErrDuplicatePosition)

		_, err = f.svc.PlaceBet(ctx, &PlaceBetRequest{
			MarketID: m.ID, UserID: alice, Side: models.SideNo, Amount: stake100,
		})
		assert.ErrorIs(t, err, models.ErrDuplicatePosition)
	})

	t.Run("unknown side rejected", func(t *testing.T) {
		f := newFixture(t)
		m, _ := f.createMarket(t, marketParams{duration: 60, cutoff: 10, grace: 5, maxDelay: 30})
		alice := f.fundedUser(t, stake100)

		_, err := f.svc.PlaceBet(ctx, &PlaceBetRequest{
			MarketID: m.ID, UserID: alice, Side: models.Side("maybe"), Amount: stake100,
		})
		assert.ErrorIs(t, err, models.ErrInvalidSide)
	})

	t.Run("insufficient funds leaves the market untouched", func(t *testing.T) {
		f := newFixture(t)
		m, _ := f.createMarket(t, marketParams{duration: 60, cutoff: 10, grace: 5, maxDelay: 30})
		alice := f.fundedUser(t, stake100-1)

		_, err := f.svc.PlaceBet(ctx, &PlaceBetRequest{
			MarketID: m.ID, UserID: alice, Side: models.SideYes, Amount: stake100,
		})
		assert.ErrorIs(t, err, models.ErrInsufficientFunds)

		market, err := f.svc.GetMarket(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, market.YesPool.IsZero())

		_, err = f.svc.GetPosition(ctx, m.ID, alice)
		assert.ErrorIs(t, err, models.ErrRecordNotFound)
	})

	t.Run("unknown market", func(t *testing.T) {
		f := newFixture(t)
		alice := f.fundedUser(t, stake100)
		_, err := f.svc.PlaceBet(ctx, &PlaceBetRequest{
			MarketID: uuid.New(), UserID: alice, Side: models.SideYes, Amount: stake100,
		})
		assert.ErrorIs(t, err, models.ErrRecordNotFound)
	})
}

func TestResolveAndClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("full happy path pays the lone winner the whole pool", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})
		alice := f.fundedUser(t, stake100)
		bob := f.fundedUser(t, stake200)

		f.bet(t, m.ID, alice, models.SideYes, stake100)
		f.bet(t, m.ID, bob, models.SideNo, stake200)

		// resolution opens 4s after creation
		f.clock.Advance(4 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000) // 63500, above strike

		resolved, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeYes, resolved.Outcome)
		assert.True(t, resolved.SettlementPrice.Equal(models.Amount(63_500_000_000).Decimal()))
		require.NotNil(t, resolved.ResolvedAt)

		rec, err := f.svc.Claim(ctx, &ClaimRequest{MarketID: m.ID, UserID: alice})
		require.NoError(t, err)
		assert.Equal(t, models.SettlementTypeWin, rec.SettlementType)
		// 100 * (100+200)/100 = exactly 300
		assert.True(t, rec.PayoutAmount.Equal(models.Amount(300_000_000).Decimal()))

		balance, err := f.custody.UserBalance(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(300_000_000), balance)

		// both vaults fully drained
		stored, err := f.store.GetMarket(ctx, m.ID)
		require.NoError(t, err)
		for _, vaultID := range []uuid.UUID{stored.YesVaultID, stored.NoVaultID} {
			vb, err := f.custody.VaultBalance(ctx, vaultID)
			require.NoError(t, err)
			assert.Equal(t, models.Amount(0), vb)
		}

		_, err = f.svc.Claim(ctx, &ClaimRequest{MarketID: m.ID, UserID: bob})
		assert.ErrorIs(t, err, models.ErrNotAWinner)

		_, err = f.svc.Claim(ctx, &ClaimRequest{MarketID: m.ID, UserID: alice})
		assert.ErrorIs(t, err, models.ErrAlreadyClaimed)

		_, err = f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		assert.ErrorIs(t, err, models.ErrMarketAlreadyResolved)
	})

	t.Run("price exactly at strike resolves yes", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		f.clock.Advance(4 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_300_000_000_000) // exactly 63000

		resolved, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeYes, resolved.Outcome)
	})

	t.Run("price below strike resolves no", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		f.clock.Advance(4 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_299_999_900_000) // 62999.999

		resolved, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeNo, resolved.Outcome)
	})

	t.Run("winners with no losers get exactly their stake back", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})
		alice := f.fundedUser(t, stake100)
		f.bet(t, m.ID, alice, models.SideYes, stake100)

		f.clock.Advance(4 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		_, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		require.NoError(t, err)

		rec, err := f.svc.Claim(ctx, &ClaimRequest{MarketID: m.ID, UserID: alice})
		require.NoError(t, err)
		assert.True(t, rec.PayoutAmount.Equal(models.Amount(stake100).Decimal()))

		balance, err := f.custody.UserBalance(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(stake100), balance)
	})

	t.Run("pro-rata payouts truncate and never exceed the pool", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})
		alice := f.fundedUser(t, 100)
		carol := f.fundedUser(t, 50)
		bob := f.fundedUser(t, 100)

		f.bet(t, m.ID, alice, models.SideYes, 100)
		f.bet(t, m.ID, carol, models.SideYes, 50)
		f.bet(t, m.ID, bob, models.SideNo, 100)

		f.clock.Advance(4 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		_, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		require.NoError(t, err)

		// total pool 250, winning pool 150: 100*250/150 = 166.66 -> 166
		aliceRec, err := f.svc.Claim(ctx, &ClaimRequest{MarketID: m.ID, UserID: alice})
		require.NoError(t, err)
		assert.True(t, aliceRec.PayoutAmount.Equal(models.Amount(166).Decimal()))

		// 50*250/150 = 83.33 -> 83
		carolRec, err := f.svc.Claim(ctx, &ClaimRequest{MarketID: m.ID, UserID: carol})
		require.NoError(t, err)
		assert.True(t, carolRec.PayoutAmount.Equal(models.Amount(83).Decimal()))

		// truncation remainder stays behind in the losing vault
		stored, err := f.store.GetMarket(ctx, m.ID)
		require.NoError(t, err)
		remainder, err := f.custody.VaultBalance(ctx, stored.NoVaultID)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(1), remainder)
	})

	t.Run("claim before resolution", func(t *testing.T) {
		f := newFixture(t)
		m, _ := f.createMarket(t, marketParams{duration: 60, cutoff: 10, grace: 5, maxDelay: 30})
		alice := f.fundedUser(t, stake100)
		f.bet(t, m.ID, alice, models.SideYes, stake100)

		_, err := f.svc.Claim(ctx, &ClaimRequest{MarketID: m.ID, UserID: alice})
		assert.ErrorIs(t, err, models.ErrMarketNotResolved)
	})
}

func TestResolveGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("too early in the dead zone", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		// past expiry, inside the grace period
		f.clock.Advance(3 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		_, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		assert.ErrorIs(t, err, models.ErrResolveTooEarly)
	})

	t.Run("window expired", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		f.clock.Advance(35 * time.Second) // deadline is at 34s
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		_, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		assert.ErrorIs(t, err, models.ErrResolveWindowExpired)
	})

	t.Run("keeper identity enforced", func(t *testing.T) {
		f := newFixture(t)
		m, _ := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		f.clock.Advance(4 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		_, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: uuid.New()})
		assert.ErrorIs(t, err, models.ErrInvalidKeeper)
	})

	t.Run("any caller may resolve when enforcement is off", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.EnforceKeeperIdentity = false
		m, _ := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		f.clock.Advance(4 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		resolved, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeYes, resolved.Outcome)
	})

	t.Run("oracle failures leave the market pending and retryable", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		f.clock.Advance(4 * time.Second)

		// stale observation
		f.feeds.Set("pyth-btc-usd", oracle.EncodePriceAccount(
			6_350_000_000_000, -8, 1, oracle.StatusTrading, f.clock.Now().Add(-2*time.Minute)))
		_, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		assert.ErrorIs(t, err, models.ErrOracleStale)

		// halted feed
		f.feeds.Set("pyth-btc-usd", oracle.EncodePriceAccount(
			6_350_000_000_000, -8, 1, 0, f.clock.Now()))
		_, err = f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		assert.ErrorIs(t, err, models.ErrOracleNotTrading)

		market, err := f.svc.GetMarket(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomePending, market.Outcome)

		// a fresh observation still resolves inside the window
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		resolved, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeYes, resolved.Outcome)
	})

	t.Run("missing feed", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 3, cutoff: 1, grace: 1, maxDelay: 30})

		f.clock.Advance(4 * time.Second)
		_, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		assert.ErrorIs(t, err, models.ErrRecordNotFound)
	})
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("missed window refunds exact stakes and poisons resolution", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 2, cutoff: 1, grace: 0, maxDelay: 3})
		alice := f.fundedUser(t, stake100)
		bob := f.fundedUser(t, stake200)
		f.bet(t, m.ID, alice, models.SideYes, stake100)
		f.bet(t, m.ID, bob, models.SideNo, stake200)

		// resolution deadline is at 5s; nobody resolved
		f.clock.Advance(6 * time.Second)

		rec, err := f.svc.Refund(ctx, &RefundRequest{MarketID: m.ID, UserID: alice})
		require.NoError(t, err)
		assert.Equal(t, models.SettlementTypeRefund, rec.SettlementType)
		assert.True(t, rec.PayoutAmount.Equal(models.Amount(stake100).Decimal()))

		balance, err := f.custody.UserBalance(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, models.Amount(stake100), balance)

		market, err := f.svc.GetMarket(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeRefundable, market.Outcome)

		// a late keeper can no longer settle
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		_, err = f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		assert.ErrorIs(t, err, models.ErrMarketRefundable)

		// and winners-to-be cannot claim
		_, err = f.svc.Claim(ctx, &ClaimRequest{MarketID: m.ID, UserID: alice})
		assert.ErrorIs(t, err, models.ErrMarketRefundable)

		// the other side refunds too, exactly
		rec, err = f.svc.Refund(ctx, &RefundRequest{MarketID: m.ID, UserID: bob})
		require.NoError(t, err)
		assert.True(t, rec.PayoutAmount.Equal(models.Amount(stake200).Decimal()))

		_, err = f.svc.Refund(ctx, &RefundRequest{MarketID: m.ID, UserID: alice})
		assert.ErrorIs(t, err, models.ErrAlreadyClaimed)
	})

	t.Run("not open before the resolution deadline passes", func(t *testing.T) {
		f := newFixture(t)
		m, _ := f.createMarket(t, marketParams{duration: 2, cutoff: 1, grace: 0, maxDelay: 3})
		alice := f.fundedUser(t, stake100)
		f.bet(t, m.ID, alice, models.SideYes, stake100)

		f.clock.Advance(4 * time.Second) // inside the resolution window
		_, err := f.svc.Refund(ctx, &RefundRequest{MarketID: m.ID, UserID: alice})
		assert.ErrorIs(t, err, models.ErrRefundNotOpen)
	})

	t.Run("no refunds on a resolved market", func(t *testing.T) {
		f := newFixture(t)
		m, keeper := f.createMarket(t, marketParams{duration: 2, cutoff: 1, grace: 0, maxDelay: 3})
		alice := f.fundedUser(t, stake100)
		f.bet(t, m.ID, alice, models.SideYes, stake100)

		f.clock.Advance(2 * time.Second)
		f.publishPrice("pyth-btc-usd", 6_350_000_000_000)
		_, err := f.svc.Resolve(ctx, &ResolveRequest{MarketID: m.ID, KeeperID: keeper})
		require.NoError(t, err)

		f.clock.Advance(10 * time.Second)
		_, err = f.svc.Refund(ctx, &RefundRequest{MarketID: m.ID, UserID: alice})
		assert.ErrorIs(t, err, models.ErrMarketAlreadyResolved)
	})

	t.Run("non-bettor has nothing to refund", func(t *testing.T) {
		f := newFixture(t)
		m, _ := f.createMarket(t, marketParams{duration: 2, cutoff: 1, grace: 0, maxDelay: 3})
		alice := f.fundedUser(t, stake100)
		f.bet(t, m.ID, alice, models.SideYes, stake100)

		f.clock.Advance(6 * time.Second)
		_, err := f.svc.Refund(ctx, &RefundRequest{MarketID: m.ID, UserID: uuid.New()})
		assert.ErrorIs(t, err, models.ErrRecordNotFound)
	})
}

func TestListMarkets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, _ := f.createMarket(t, marketParams{duration: 60, cutoff: 10, grace: 5, maxDelay: 30})
	second, _ := f.createMarket(t, marketParams{duration: 60, cutoff: 10, grace: 5, maxDelay: 30})

	markets, err := f.svc.ListMarkets(ctx)
	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, first.ID, markets[0].ID)
	assert.Equal(t, second.ID, markets[1].ID)
}
