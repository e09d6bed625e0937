package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPosition is one bettor's stake in one market. At most one position
// exists per (market, user); the amount is set once and the claimed flag
// flips false to true exactly once, on claim or refund.
type UserPosition struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MarketID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_positions_market_user" json:"market_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_positions_market_user" json:"user_id"`
	Side     Side      `gorm:"type:varchar(8);not null" json:"side"`
	Amount   Amount    `gorm:"type:numeric(20,0);not null" json:"amount"`
	Claimed  bool      `gorm:"not null;default:false" json:"claimed"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for UserPosition model
func (*UserPosition) TableName() string {
	return "user_positions"
}

// BeforeCreate sets up the model before creation
func (p *UserPosition) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the position model
func (p *UserPosition) Validate() error {
	if p.MarketID == uuid.Nil {
		return ErrInvalidMarketID
	}
	if p.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if !p.Side.Valid() {
		return ErrInvalidSide
	}
	if p.Amount == 0 {
		return ErrInvalidBetAmount
	}
	return nil
}

// IsWinner checks if the position sits on the winning side
func (p *UserPosition) IsWinner(outcome Outcome) bool {
	return p.Side.Outcome() == outcome
}

// MarkClaimed flips the claimed flag, once.
func (p *UserPosition) MarkClaimed() error {
	if p.Claimed {
		return ErrAlreadyClaimed
	}
	p.Claimed = true
	return nil
}
