package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/joefazee/flashpred/app/oracle"
	"github.com/joefazee/flashpred/app/vault"
	"github.com/joefazee/flashpred/internal/logger"
	"github.com/joefazee/flashpred/models"
)

// service implements the Service interface
type service struct {
	store     Store
	custody   vault.Custody
	feeds     oracle.FeedProvider
	reader    oracle.Reader
	config    *Config
	logger    logger.Logger
	validator *validator.Validate
	now       func() time.Time
}

// NewService creates the settlement engine. A nil clock defaults to
// time.Now; tests inject a fixed clock for deterministic windows.
func NewService(
	store Store,
	custody vault.Custody,
	feeds oracle.FeedProvider,
	reader oracle.Reader,
	config *Config,
	lg logger.Logger,
	clock func() time.Time,
) Service {
	if clock == nil {
		clock = time.Now
	}
	return &service{
		store:     store,
		custody:   custody,
		feeds:     feeds,
		reader:    reader,
		config:    config,
		logger:    lg,
		validator: validator.New(),
		now:       clock,
	}
}

// CreateMarket validates the market terms, allocates one pooled vault per
// side and persists the market with its derived time boundaries.
func (s *service) CreateMarket(ctx context.Context, req *CreateMarketRequest) (*MarketResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if req.DurationSecs > s.config.MaxDurationSecs {
		return nil, fmt.Errorf("duration %ds exceeds maximum %ds: %w",
			req.DurationSecs, s.config.MaxDurationSecs, models.ErrInvalidWindow)
	}

	yesVault, err := s.custody.CreateVault(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate yes vault: %w", err)
	}
	noVault, err := s.custody.CreateVault(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate no vault: %w", err)
	}

	market := &models.Market{
		ID:           uuid.New(),
		CreatorID:    req.CreatorID,
		KeeperID:     req.KeeperID,
		Symbol:       req.Symbol,
		OracleFeedID: req.OracleFeedID,
		StrikePrice:  models.Amount(req.StrikePrice),
		DurationSecs: req.DurationSecs,
		CutoffSecs:   req.CutoffSecs,
		GraceSecs:    req.GraceSecs,
		MaxDelaySecs: req.MaxDelaySecs,
		Outcome:      models.OutcomePending,
		YesVaultID:   yesVault,
		NoVaultID:    noVault,
	}
	market.SetWindows(s.now())

	if err := market.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateMarket(ctx, market); err != nil {
		return nil, fmt.Errorf("create market: %w", err)
	}

	s.logger.Info("market created", map[string]interface{}{
		"market_id": market.ID,
		"symbol":    market.Symbol,
		"strike":    market.StrikePrice.Decimal(),
		"expires":   market.ExpiresAt,
	})

	return ToMarketResponse(market), nil
}

// PlaceBet admits a stake on one side of a pending market before the
// betting deadline. A user may hold at most one position per market,
// switching sides included.
func (s *service) PlaceBet(ctx context.Context, req *PlaceBetRequest) (*PositionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if !req.Side.Valid() {
		return nil, models.ErrInvalidSide
	}
	amount := models.Amount(req.Amount)
	if amount == 0 {
		return nil, models.ErrInvalidBetAmount
	}
	now := s.now()

	var position *models.UserPosition
	err := s.store.Atomic(ctx, req.MarketID, func(st Store) error {
		market, err := st.GetMarket(ctx, req.MarketID)
		if err != nil {
			return err
		}
		if !market.CanBet(now) {
			return models.ErrBettingClosed
		}

		if _, err := st.GetPosition(ctx, req.MarketID, req.UserID); err == nil {
			return models.ErrDuplicatePosition
		} else if !errors.Is(err, models.ErrRecordNotFound) {
			return fmt.Errorf("check existing position: %w", err)
		}

		if err := market.AddStake(req.Side, amount); err != nil {
			return err
		}

		position = &models.UserPosition{
			ID:        uuid.New(),
			MarketID:  req.MarketID,
			UserID:    req.UserID,
			Side:      req.Side,
			Amount:    amount,
			CreatedAt: now,
		}
		if err := position.Validate(); err != nil {
			return err
		}

		// Funds move before the records do: a failed transfer leaves the
		// market untouched.
		if err := s.custody.Deposit(ctx, market.VaultFor(req.Side), req.UserID, amount); err != nil {
			return err
		}

		if err := st.UpdateMarket(ctx, market); err != nil {
			return fmt.Errorf("update market pools: %w", err)
		}
		return st.CreatePosition(ctx, position)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bet placed", map[string]interface{}{
		"market_id": req.MarketID,
		"user_id":   req.UserID,
		"side":      req.Side,
		"amount":    amount.Decimal(),
	})

	return ToPositionResponse(position), nil
}

// Resolve reads a fresh oracle observation and fixes the market outcome:
// normalized price at or above the strike resolves yes, otherwise no. Any
// oracle failure leaves the market pending and retryable until the
// resolution deadline.
func (s *service) Resolve(ctx context.Context, req *ResolveRequest) (*MarketResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	now := s.now()

	var resp *MarketResponse
	err := s.store.Atomic(ctx, req.MarketID, func(st Store) error {
		market, err := st.GetMarket(ctx, req.MarketID)
		if err != nil {
			return err
		}
		if market.Outcome == models.OutcomeRefundable {
			return models.ErrMarketRefundable
		}
		if !market.IsPending() {
			return models.ErrMarketAlreadyResolved
		}
		if !market.ResolutionOpen(now) {
			return models.ErrResolveTooEarly
		}
		if market.ResolutionExpired(now) {
			return models.ErrResolveWindowExpired
		}
		if s.config.EnforceKeeperIdentity && req.KeeperID != market.KeeperID {
			return models.ErrInvalidKeeper
		}

		feed, err := s.feeds.Fetch(ctx, market.OracleFeedID)
		if err != nil {
			return fmt.Errorf("fetch oracle feed %s: %w", market.OracleFeedID, err)
		}
		obs, err := s.reader.Read(feed, now)
		if err != nil {
			return err
		}

		if err := market.Resolve(obs.Normalized, now); err != nil {
			return err
		}
		if err := st.UpdateMarket(ctx, market); err != nil {
			return fmt.Errorf("update market outcome: %w", err)
		}

		resp = ToMarketResponse(market)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("market resolved", map[string]interface{}{
		"market_id":        resp.ID,
		"outcome":          resp.Outcome,
		"settlement_price": resp.SettlementPrice,
	})

	return resp, nil
}

// Claim pays a winning position its stake plus a pro-rata share of the
// losing pool, truncated toward zero. The stake comes out of the winning
// vault and the profit out of the losing vault; post-resolution the two
// are one logical settlement pool.
func (s *service) Claim(ctx context.Context, req *ClaimRequest) (*SettlementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var record *models.Settlement
	err := s.store.Atomic(ctx, req.MarketID, func(st Store) error {
		market, err := st.GetMarket(ctx, req.MarketID)
		if err != nil {
			return err
		}
		if market.Outcome == models.OutcomeRefundable {
			return models.ErrMarketRefundable
		}
		if market.IsPending() {
			return models.ErrMarketNotResolved
		}

		position, err := st.GetPosition(ctx, req.MarketID, req.UserID)
		if err != nil {
			return err
		}
		if !position.IsWinner(market.Outcome) {
			return models.ErrNotAWinner
		}
		if position.Claimed {
			return models.ErrAlreadyClaimed
		}

		winner := market.WinningSide()
		loser := models.SideNo
		if winner == models.SideNo {
			loser = models.SideYes
		}

		payout, err := models.WinPayout(position.Amount, market.PoolFor(winner), market.PoolFor(loser))
		if err != nil {
			return err
		}
		profit := payout - position.Amount

		if err := s.custody.Withdraw(ctx, market.VaultFor(winner), req.UserID, position.Amount); err != nil {
			return err
		}
		if profit > 0 {
			if err := s.custody.Withdraw(ctx, market.VaultFor(loser), req.UserID, profit); err != nil {
				return err
			}
		}

		if err := position.MarkClaimed(); err != nil {
			return err
		}
		if err := st.UpdatePosition(ctx, position); err != nil {
			return fmt.Errorf("update position: %w", err)
		}

		record = models.CreateWinSettlement(market.ID, req.UserID, position.ID, position.Amount, payout)
		record.CreatedAt = s.now()
		return st.CreateSettlement(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("winnings claimed", map[string]interface{}{
		"market_id": req.MarketID,
		"user_id":   req.UserID,
		"payout":    record.PayoutAmount.Decimal(),
	})

	return ToSettlementResponse(record), nil
}

// Refund returns exactly the original stake once the resolution window has
// lapsed with the market still pending. The first successful refund flips
// the market to refundable so a late keeper can no longer settle it.
func (s *service) Refund(ctx context.Context, req *RefundRequest) (*SettlementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	now := s.now()

	var record *models.Settlement
	err := s.store.Atomic(ctx, req.MarketID, func(st Store) error {
		market, err := st.GetMarket(ctx, req.MarketID)
		if err != nil {
			return err
		}

		switch {
		case market.Outcome == models.OutcomeRefundable:
			// already flipped by an earlier refund
		case market.IsPending() && market.ResolutionExpired(now):
			if err := market.MarkRefundable(now); err != nil {
				return err
			}
			if err := st.UpdateMarket(ctx, market); err != nil {
				return fmt.Errorf("mark market refundable: %w", err)
			}
		case market.IsPending():
			return models.ErrRefundNotOpen
		default:
			return models.ErrMarketAlreadyResolved
		}

		position, err := st.GetPosition(ctx, req.MarketID, req.UserID)
		if err != nil {
			return err
		}
		if position.Claimed {
			return models.ErrAlreadyClaimed
		}

		if err := s.custody.Withdraw(ctx, market.VaultFor(position.Side), req.UserID, position.Amount); err != nil {
			return err
		}

		if err := position.MarkClaimed(); err != nil {
			return err
		}
		if err := st.UpdatePosition(ctx, position); err != nil {
			return fmt.Errorf("update position: %w", err)
		}

		record = models.CreateRefundSettlement(market.ID, req.UserID, position.ID, position.Amount)
		record.CreatedAt = now
		return st.CreateSettlement(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stake refunded", map[string]interface{}{
		"market_id": req.MarketID,
		"user_id":   req.UserID,
		"amount":    record.PayoutAmount.Decimal(),
	})

	return ToSettlementResponse(record), nil
}

// GetMarket returns a single market by ID.
func (s *service) GetMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error) {
	market, err := s.store.GetMarket(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToMarketResponse(market), nil
}

// GetPosition returns one user's position in a market.
func (s *service) GetPosition(ctx context.Context, marketID, userID uuid.UUID) (*PositionResponse, error) {
	position, err := s.store.GetPosition(ctx, marketID, userID)
	if err != nil {
		return nil, err
	}
	return ToPositionResponse(position), nil
}

// ListMarkets returns all markets in creation order.
func (s *service) ListMarkets(ctx context.Context) ([]MarketResponse, error) {
	markets, err := s.store.ListMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}

	responses := make([]MarketResponse, len(markets))
	for i := range markets {
		responses[i] = *ToMarketResponse(&markets[i])
	}
	return responses, nil
}
