package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementType represents the type of settlement
type SettlementType string

const (
	SettlementTypeWin    SettlementType = "win"
	SettlementTypeRefund SettlementType = "refund"
)

// Settlement is the immutable record of funds leaving the pool for one
// position: a pro-rata win payout or a liveness-failure refund.
type Settlement struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	MarketID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_settlements_market" json:"market_id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_settlements_user" json:"user_id"`
	PositionID     uuid.UUID      `gorm:"type:uuid;not null" json:"position_id"`
	SettlementType SettlementType `gorm:"type:varchar(20);not null" json:"settlement_type"`
	OriginalAmount Amount         `gorm:"type:numeric(20,0);not null" json:"original_amount"`
	PayoutAmount   Amount         `gorm:"type:numeric(20,0);not null" json:"payout_amount"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Settlement model
func (*Settlement) TableName() string {
	return "settlements"
}

// BeforeCreate sets up the model before creation
func (s *Settlement) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsWin checks if this is a winning settlement
func (s *Settlement) IsWin() bool {
	return s.SettlementType == SettlementTypeWin
}

// IsRefund checks if this is a refund settlement
func (s *Settlement) IsRefund() bool {
	return s.SettlementType == SettlementTypeRefund
}

// NetAmount returns payout minus original stake.
func (s *Settlement) NetAmount() int64 {
	return int64(s.PayoutAmount) - int64(s.OriginalAmount)
}

// Validate performs validation on the settlement model
func (s *Settlement) Validate() error {
	if s.MarketID == uuid.Nil {
		return ErrInvalidMarketID
	}
	if s.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if s.OriginalAmount == 0 {
		return ErrInvalidBetAmount
	}
	return nil
}

// CreateWinSettlement creates a winning settlement
func CreateWinSettlement(marketID, userID, positionID uuid.UUID, originalAmount, payoutAmount Amount) *Settlement {
	return &Settlement{
		MarketID:       marketID,
		UserID:         userID,
		PositionID:     positionID,
		SettlementType: SettlementTypeWin,
		OriginalAmount: originalAmount,
		PayoutAmount:   payoutAmount,
	}
}

// CreateRefundSettlement creates a refund settlement. Refunds are a pure
// reversal of the stake, never a pro-rata share.
func CreateRefundSettlement(marketID, userID, positionID uuid.UUID, originalAmount Amount) *Settlement {
	return &Settlement{
		MarketID:       marketID,
		UserID:         userID,
		PositionID:     positionID,
		SettlementType: SettlementTypeRefund,
		OriginalAmount: originalAmount,
		PayoutAmount:   originalAmount,
	}
}
