package settlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/joefazee/flashpred/internal/store"
)

// Service is the public operation surface of the settlement engine.
type Service interface {
	CreateMarket(ctx context.Context, req *CreateMarketRequest) (*MarketResponse, error)
	PlaceBet(ctx context.Context, req *PlaceBetRequest) (*PositionResponse, error)
	Resolve(ctx context.Context, req *ResolveRequest) (*MarketResponse, error)
	Claim(ctx context.Context, req *ClaimRequest) (*SettlementResponse, error)
	Refund(ctx context.Context, req *RefundRequest) (*SettlementResponse, error)

	GetMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error)
	GetPosition(ctx context.Context, marketID, userID uuid.UUID) (*PositionResponse, error)
	ListMarkets(ctx context.Context) ([]MarketResponse, error)
}

// Store is the persistence surface the engine runs on. The interface lives
// in internal/store so both the SQL and in-memory implementations can share
// the Atomic callback type.
type Store = store.Store
