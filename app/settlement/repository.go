package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/flashpred/internal/store"
	"github.com/joefazee/flashpred/models"
)

// repository implements the Store interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new settlement store backed by a SQL database
func NewRepository(db *gorm.DB) Store {
	return &repository{
		db: db,
	}
}

// CreateMarket creates a new market
func (r *repository) CreateMarket(ctx context.Context, m *models.Market) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// GetMarket returns a market by ID
func (r *repository) GetMarket(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&market).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &market, nil
}

// UpdateMarket updates an existing market
func (r *repository) UpdateMarket(ctx context.Context, m *models.Market) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// ListMarkets returns all markets in creation order
func (r *repository) ListMarkets(ctx context.Context) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&markets).Error
	return markets, err
}

// ListPendingDue returns pending markets whose resolution window has opened
func (r *repository) ListPendingDue(ctx context.Context, now time.Time) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("outcome = ? AND resolution_open_at <= ?", models.OutcomePending, now).
		Order("created_at ASC").
		Find(&markets).Error
	return markets, err
}

// CreatePosition creates a new position. The unique index on
// (market_id, user_id) backs the one-position-per-user rule.
func (r *repository) CreatePosition(ctx context.Context, p *models.UserPosition) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicatePosition
	}
	return err
}

// GetPosition returns one user's position in a market
func (r *repository) GetPosition(ctx context.Context, marketID, userID uuid.UUID) (*models.UserPosition, error) {
	var position models.UserPosition
	err := r.db.WithContext(ctx).
		Where("market_id = ? AND user_id = ?", marketID, userID).
		First(&position).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &position, nil
}

// UpdatePosition updates an existing position
func (r *repository) UpdatePosition(ctx context.Context, p *models.UserPosition) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// CreateSettlement creates a settlement record
func (r *repository) CreateSettlement(ctx context.Context, s *models.Settlement) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// ListSettlements returns the settlement records for one market, oldest first
func (r *repository) ListSettlements(ctx context.Context, marketID uuid.UUID) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("created_at ASC").
		Find(&settlements).Error
	return settlements, err
}

// Atomic runs fn inside a database transaction holding a row lock on the
// market, so concurrent settlement operations on the same market serialize.
func (r *repository) Atomic(ctx context.Context, marketID uuid.UUID, fn func(store.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var market models.Market
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", marketID).
			First(&market).Error
		if err != nil {
			return translateNotFound(err)
		}
		return fn(&repository{db: tx})
	})
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrRecordNotFound
	}
	return err
}
