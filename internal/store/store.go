package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/flashpred/models"
)

// Store persists markets, positions and settlement records. Atomic runs fn
// with all mutations of one market serialized against every other operation
// on that market, and rolled back as a unit if fn fails: no interleaved or
// partial writes ever become visible.
type Store interface {
	CreateMarket(ctx context.Context, m *models.Market) error
	GetMarket(ctx context.Context, id uuid.UUID) (*models.Market, error)
	UpdateMarket(ctx context.Context, m *models.Market) error
	ListMarkets(ctx context.Context) ([]models.Market, error)
	ListPendingDue(ctx context.Context, now time.Time) ([]models.Market, error)

	CreatePosition(ctx context.Context, p *models.UserPosition) error
	GetPosition(ctx context.Context, marketID, userID uuid.UUID) (*models.UserPosition, error)
	UpdatePosition(ctx context.Context, p *models.UserPosition) error

	CreateSettlement(ctx context.Context, s *models.Settlement) error
	ListSettlements(ctx context.Context, marketID uuid.UUID) ([]models.Settlement, error)

	Atomic(ctx context.Context, marketID uuid.UUID, fn func(Store) error) error
}
