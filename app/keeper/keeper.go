// Package keeper runs the background worker that resolves markets as soon
// as their resolution window opens, so bettors normally never reach the
// refund path.
package keeper

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/flashpred/app/settlement"
	"github.com/joefazee/flashpred/internal/logger"
	"github.com/joefazee/flashpred/internal/store"
)

// Worker periodically scans for pending markets whose resolution window has
// opened and resolves each one under its own keeper identity.
type Worker struct {
	svc      settlement.Service
	store    store.Store
	id       uuid.UUID
	interval time.Duration
	logger   logger.Logger
	now      func() time.Time
}

// NewWorker creates a keeper worker. A nil clock defaults to time.Now.
func NewWorker(svc settlement.Service, st store.Store, config *Config, lg logger.Logger, clock func() time.Time) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}

	id := uuid.New()
	if config.KeeperID != "" {
		parsed, err := uuid.Parse(config.KeeperID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	return &Worker{
		svc:      svc,
		store:    st,
		id:       id,
		interval: config.Interval,
		logger:   lg,
		now:      clock,
	}, nil
}

// ID returns the keeper identity markets must be created with for this
// worker to resolve them.
func (w *Worker) ID() uuid.UUID {
	return w.id
}

// Run ticks until the context is canceled. The first scan happens
// immediately, not after the first interval.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("keeper started", map[string]interface{}{
		"keeper_id": w.id,
		"interval":  w.interval.String(),
	})

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Tick(ctx)
	for {
		select {
		case <-ticker.C:
			w.Tick(ctx)
		case <-ctx.Done():
			w.logger.Info("keeper stopped", map[string]interface{}{"keeper_id": w.id})
			return
		}
	}
}

// Tick resolves every due market once. Failures are logged and skipped;
// the next tick retries anything still pending inside its window.
func (w *Worker) Tick(ctx context.Context) {
	now := w.now()
	due, err := w.store.ListPendingDue(ctx, now)
	if err != nil {
		w.logger.Error(err, map[string]interface{}{"keeper_id": w.id})
		return
	}

	for i := range due {
		market := &due[i]
		if market.ResolutionExpired(now) {
			// past the deadline; only refunds remain
			continue
		}
		if market.KeeperID != w.id {
			continue
		}

		resolved, err := w.svc.Resolve(ctx, &settlement.ResolveRequest{
			MarketID: market.ID,
			KeeperID: w.id,
		})
		if err != nil {
			w.logger.Error(err, map[string]interface{}{
				"keeper_id": w.id,
				"market_id": market.ID,
			})
			continue
		}
		w.logger.Info("market resolved by keeper", map[string]interface{}{
			"keeper_id": w.id,
			"market_id": resolved.ID,
			"outcome":   resolved.Outcome,
		})
	}
}
