package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/flashpred/models"
)

// CreateMarketRequest represents the request to create a market.
// Durations are in seconds; amounts and prices are 1e6-scale fixed point.
type CreateMarketRequest struct {
	CreatorID    uuid.UUID `json:"creator_id" validate:"required"`
	KeeperID     uuid.UUID `json:"keeper_id" validate:"required"`
	Symbol       string    `json:"symbol" validate:"required,max=32"`
	OracleFeedID string    `json:"oracle_feed_id" validate:"required"`
	StrikePrice  uint64    `json:"strike_price" validate:"required,gt=0"`
	DurationSecs int64     `json:"duration_secs" validate:"required,gt=0"`
	CutoffSecs   int64     `json:"cutoff_secs" validate:"gte=0"`
	GraceSecs    int64     `json:"grace_secs" validate:"gte=0"`
	MaxDelaySecs int64     `json:"max_delay_secs" validate:"required,gt=0"`
}

// PlaceBetRequest represents the request to stake on one side of a market
type PlaceBetRequest struct {
	MarketID uuid.UUID   `json:"market_id" validate:"required"`
	UserID   uuid.UUID   `json:"user_id" validate:"required"`
	Side     models.Side `json:"side" validate:"required"`
	Amount   uint64      `json:"amount" validate:"required,gt=0"`
}

// ResolveRequest represents the request to resolve a market from the oracle
type ResolveRequest struct {
	MarketID uuid.UUID `json:"market_id" validate:"required"`
	KeeperID uuid.UUID `json:"keeper_id" validate:"required"`
}

// ClaimRequest represents a winner's request for their pro-rata payout
type ClaimRequest struct {
	MarketID uuid.UUID `json:"market_id" validate:"required"`
	UserID   uuid.UUID `json:"user_id" validate:"required"`
}

// RefundRequest represents a bettor's request for a liveness-failure refund
type RefundRequest struct {
	MarketID uuid.UUID `json:"market_id" validate:"required"`
	UserID   uuid.UUID `json:"user_id" validate:"required"`
}

// MarketResponse represents a market in API responses
type MarketResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CreatorID          uuid.UUID       `json:"creator_id"`
	KeeperID           uuid.UUID       `json:"keeper_id"`
	Symbol             string          `json:"symbol"`
	OracleFeedID       string          `json:"oracle_feed_id"`
	StrikePrice        decimal.Decimal `json:"strike_price"`
	ExpiresAt          time.Time       `json:"expires_at"`
	BettingDeadline    time.Time       `json:"betting_deadline"`
	ResolutionOpenAt   time.Time       `json:"resolution_open_at"`
	ResolutionDeadline time.Time       `json:"resolution_deadline"`
	YesPool            decimal.Decimal `json:"yes_pool"`
	NoPool             decimal.Decimal `json:"no_pool"`
	Outcome            models.Outcome  `json:"outcome"`
	SettlementPrice    decimal.Decimal `json:"settlement_price"`
	ResolvedAt         *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// PositionResponse represents a user position in API responses
type PositionResponse struct {
	ID        uuid.UUID       `json:"id"`
	MarketID  uuid.UUID       `json:"market_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Side      models.Side     `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	Claimed   bool            `json:"claimed"`
	CreatedAt time.Time       `json:"created_at"`
}

// SettlementResponse represents a payout or refund in API responses
type SettlementResponse struct {
	ID             uuid.UUID             `json:"id"`
	MarketID       uuid.UUID             `json:"market_id"`
	UserID         uuid.UUID             `json:"user_id"`
	SettlementType models.SettlementType `json:"settlement_type"`
	OriginalAmount decimal.Decimal       `json:"original_amount"`
	PayoutAmount   decimal.Decimal       `json:"payout_amount"`
	CreatedAt      time.Time             `json:"created_at"`
}

// ToMarketResponse converts a models.Market to MarketResponse
func ToMarketResponse(m *models.Market) *MarketResponse {
	return &MarketResponse{
		ID:                 m.ID,
		CreatorID:          m.CreatorID,
		KeeperID:           m.KeeperID,
		Symbol:             m.Symbol,
		OracleFeedID:       m.OracleFeedID,
		StrikePrice:        m.StrikePrice.Decimal(),
		ExpiresAt:          m.ExpiresAt,
		BettingDeadline:    m.BettingDeadline,
		ResolutionOpenAt:   m.ResolutionOpenAt,
		ResolutionDeadline: m.ResolutionDeadline,
		YesPool:            m.YesPool.Decimal(),
		NoPool:             m.NoPool.Decimal(),
		Outcome:            m.Outcome,
		SettlementPrice:    m.SettlementPrice.Decimal(),
		ResolvedAt:         m.ResolvedAt,
		CreatedAt:          m.CreatedAt,
	}
}

// ToPositionResponse converts a models.UserPosition to PositionResponse
func ToPositionResponse(p *models.UserPosition) *PositionResponse {
	return &PositionResponse{
		ID:        p.ID,
		MarketID:  p.MarketID,
		UserID:    p.UserID,
		Side:      p.Side,
		Amount:    p.Amount.Decimal(),
		Claimed:   p.Claimed,
		CreatedAt: p.CreatedAt,
	}
}

// ToSettlementResponse converts a models.Settlement to SettlementResponse
func ToSettlementResponse(s *models.Settlement) *SettlementResponse {
	return &SettlementResponse{
		ID:             s.ID,
		MarketID:       s.MarketID,
		UserID:         s.UserID,
		SettlementType: s.SettlementType,
		OriginalAmount: s.OriginalAmount.Decimal(),
		PayoutAmount:   s.PayoutAmount.Decimal(),
		CreatedAt:      s.CreatedAt,
	}
}
