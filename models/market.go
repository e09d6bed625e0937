package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/flashpred/internal/validator"
)

// Outcome represents the settlement state of a market.
type Outcome string

const (
	OutcomePending    Outcome = "pending"
	OutcomeYes        Outcome = "yes"
	OutcomeNo         Outcome = "no"
	OutcomeRefundable Outcome = "refundable"
)

// IsTerminal reports whether the outcome can never change again.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeYes || o == OutcomeNo || o == OutcomeRefundable
}

// Side is the direction of a bet.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Valid reports whether the side is one of the two known values.
func (s Side) Valid() bool {
	return validator.In(s, SideYes, SideNo)
}

// Outcome maps a side to the outcome that pays it.
func (s Side) Outcome() Outcome {
	if s == SideYes {
		return OutcomeYes
	}
	return OutcomeNo
}

// Market represents one binary-outcome proposition: will the oracle price be
// at or above the strike when the market expires. Pools accumulate stakes per
// side until the betting deadline; the outcome transitions out of pending
// exactly once.
type Market struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	KeeperID     uuid.UUID `gorm:"type:uuid;not null" json:"keeper_id"`
	Symbol       string    `gorm:"type:varchar(32);not null" json:"symbol"`
	OracleFeedID string    `gorm:"type:varchar(128);not null" json:"oracle_feed_id"`
	StrikePrice  Amount    `gorm:"type:numeric(20,0);not null" json:"strike_price"`

	DurationSecs int64 `gorm:"not null" json:"duration_secs"`
	CutoffSecs   int64 `gorm:"not null" json:"cutoff_secs"`
	GraceSecs    int64 `gorm:"not null" json:"grace_secs"`
	MaxDelaySecs int64 `gorm:"not null" json:"max_delay_secs"`

	// Derived boundaries, fixed at creation time.
	ExpiresAt          time.Time `gorm:"type:timestamptz;not null" json:"expires_at"`
	BettingDeadline    time.Time `gorm:"type:timestamptz;not null" json:"betting_deadline"`
	ResolutionOpenAt   time.Time `gorm:"type:timestamptz;not null" json:"resolution_open_at"`
	ResolutionDeadline time.Time `gorm:"type:timestamptz;not null" json:"resolution_deadline"`

	YesPool Amount `gorm:"type:numeric(20,0);not null;default:0" json:"yes_pool"`
	NoPool  Amount `gorm:"type:numeric(20,0);not null;default:0" json:"no_pool"`

	Outcome         Outcome    `gorm:"type:varchar(20);not null;default:'pending';index" json:"outcome"`
	SettlementPrice Amount     `gorm:"type:numeric(20,0);not null;default:0" json:"settlement_price"`
	ResolvedAt      *time.Time `gorm:"type:timestamptz" json:"resolved_at"`

	YesVaultID uuid.UUID `gorm:"type:uuid;not null" json:"yes_vault_id"`
	NoVaultID  uuid.UUID `gorm:"type:uuid;not null" json:"no_vault_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Market model
func (*Market) TableName() string {
	return "markets"
}

// BeforeCreate sets up the model before creation
func (m *Market) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SetWindows derives the time boundaries from the creation instant.
func (m *Market) SetWindows(now time.Time) {
	m.CreatedAt = now
	m.ExpiresAt = now.Add(time.Duration(m.DurationSecs) * time.Second)
	m.BettingDeadline = m.ExpiresAt.Add(-time.Duration(m.CutoffSecs) * time.Second)
	m.ResolutionOpenAt = m.ExpiresAt.Add(time.Duration(m.GraceSecs) * time.Second)
	m.ResolutionDeadline = m.ResolutionOpenAt.Add(time.Duration(m.MaxDelaySecs) * time.Second)
}

// Validate performs validation on the market model
func (m *Market) Validate() error {
	if m.CreatorID == uuid.Nil || m.KeeperID == uuid.Nil {
		return ErrInvalidUserID
	}
	if !validator.IsSymbol(m.Symbol) {
		return ErrInvalidSymbol
	}
	if m.OracleFeedID == "" {
		return ErrInvalidOracleFeed
	}
	if m.StrikePrice == 0 {
		return ErrInvalidStrikePrice
	}
	if m.DurationSecs <= 0 || m.CutoffSecs < 0 || m.CutoffSecs >= m.DurationSecs {
		return ErrInvalidWindow
	}
	if m.GraceSecs < 0 || m.MaxDelaySecs <= 0 {
		return ErrInvalidWindow
	}
	// betting_deadline < resolution_open_ts <= resolution_deadline
	if !m.BettingDeadline.Before(m.ResolutionOpenAt) || m.ResolutionDeadline.Before(m.ResolutionOpenAt) {
		return ErrInvalidWindow
	}
	return nil
}

// IsPending checks if the market is still unresolved
func (m *Market) IsPending() bool {
	return m.Outcome == OutcomePending
}

// CanBet checks if betting is allowed at the given instant
func (m *Market) CanBet(now time.Time) bool {
	return m.IsPending() && now.Before(m.BettingDeadline)
}

// ResolutionOpen checks if the grace period has elapsed
func (m *Market) ResolutionOpen(now time.Time) bool {
	return !now.Before(m.ResolutionOpenAt)
}

// ResolutionExpired checks if the keeper missed the resolution window
func (m *Market) ResolutionExpired(now time.Time) bool {
	return now.After(m.ResolutionDeadline)
}

// AddStake credits a stake to the pool for the given side with a checked add.
func (m *Market) AddStake(side Side, amount Amount) error {
	switch side {
	case SideYes:
		sum, err := m.YesPool.CheckedAdd(amount)
		if err != nil {
			return err
		}
		m.YesPool = sum
	case SideNo:
		sum, err := m.NoPool.CheckedAdd(amount)
		if err != nil {
			return err
		}
		m.NoPool = sum
	default:
		return ErrInvalidSide
	}
	return nil
}

// PoolFor returns the pool total for a side.
func (m *Market) PoolFor(side Side) Amount {
	if side == SideYes {
		return m.YesPool
	}
	return m.NoPool
}

// VaultFor returns the custody vault holding a side's stakes.
func (m *Market) VaultFor(side Side) uuid.UUID {
	if side == SideYes {
		return m.YesVaultID
	}
	return m.NoVaultID
}

// WinningSide returns the side paid by the market's outcome. Only meaningful
// once the outcome is yes or no.
func (m *Market) WinningSide() Side {
	if m.Outcome == OutcomeYes {
		return SideYes
	}
	return SideNo
}

// Resolve fixes the outcome from the settlement price. Single irreversible
// transition out of pending.
func (m *Market) Resolve(settlementPrice Amount, now time.Time) error {
	if !m.IsPending() {
		if m.Outcome == OutcomeRefundable {
			return ErrMarketRefundable
		}
		return ErrMarketAlreadyResolved
	}

	if settlementPrice >= m.StrikePrice {
		m.Outcome = OutcomeYes
	} else {
		m.Outcome = OutcomeNo
	}
	m.SettlementPrice = settlementPrice
	m.ResolvedAt = &now
	return nil
}

// MarkRefundable flips a pending market to the refundable terminal state.
func (m *Market) MarkRefundable(now time.Time) error {
	if !m.IsPending() {
		return ErrMarketAlreadyResolved
	}
	m.Outcome = OutcomeRefundable
	m.ResolvedAt = &now
	return nil
}
