package settlement

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joefazee/flashpred/app/oracle"
	"github.com/joefazee/flashpred/app/vault"
	"github.com/joefazee/flashpred/internal/logger"
	"github.com/joefazee/flashpred/internal/sanitizer"
)

// Dependencies represents the dependencies needed for the settlement module
type Dependencies struct {
	DB      *gorm.DB
	Store   Store // overrides DB when set, e.g. the in-memory store
	Custody   vault.Custody
	Feeds     oracle.FeedProvider
	Reader    oracle.Reader
	Config    *Config
	Sanitizer sanitizer.HTMLStripperer
	Logger    logger.Logger
}

// Init initializes the settlement module and mounts routes. The returned
// service and store are shared with the keeper worker.
func Init(r *gin.RouterGroup, deps Dependencies) (Service, Store) {
	config := deps.Config
	if config == nil {
		config = GetDefaultConfig()
	}
	if err := config.Validate(); err != nil {
		panic("Invalid settlement configuration: " + err.Error())
	}

	st := deps.Store
	if st == nil {
		st = NewRepository(deps.DB)
	}

	svc := NewService(st, deps.Custody, deps.Feeds, deps.Reader, config, deps.Logger, nil)
	handler := NewHandler(svc, deps.Sanitizer)

	marketsGroup := r.Group("/markets")
	marketsGroup.POST("", handler.CreateMarket)
	marketsGroup.GET("", handler.GetMarkets)
	marketsGroup.GET("/:id", handler.GetMarketByID)
	marketsGroup.POST("/:id/bets", handler.PlaceBet)
	marketsGroup.POST("/:id/resolve", handler.ResolveMarket)
	marketsGroup.POST("/:id/claim", handler.ClaimWinnings)
	marketsGroup.POST("/:id/refund", handler.RefundStake)
	marketsGroup.GET("/:id/positions/:user_id", handler.GetPosition)

	return svc, st
}
