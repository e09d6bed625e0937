// Package store provides an in-memory implementation of the settlement
// engine's persistence surface, used for tests and single-node deployments
// without a database.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/flashpred/models"
)

type posKey struct {
	marketID uuid.UUID
	userID   uuid.UUID
}

// Memory keeps all records in process. Writes to one market are serialized
// through a per-market mutex and rolled back as a unit when an atomic block
// fails, matching the transactional guarantees of the SQL store.
type Memory struct {
	mu          sync.Mutex
	markets     map[uuid.UUID]*models.Market
	order       []uuid.UUID
	positions   map[posKey]*models.UserPosition
	settlements []models.Settlement

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		markets:   make(map[uuid.UUID]*models.Market),
		positions: make(map[posKey]*models.UserPosition),
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Memory) marketLock(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// CreateMarket stores a new market. Creation order is preserved for listing.
func (s *Memory) CreateMarket(_ context.Context, m *models.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.markets[m.ID] = &cp
	s.order = append(s.order, m.ID)
	return nil
}

// GetMarket returns a copy of the market, or ErrRecordNotFound.
func (s *Memory) GetMarket(_ context.Context, id uuid.UUID) (*models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.markets[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

// UpdateMarket overwrites the stored market.
func (s *Memory) UpdateMarket(_ context.Context, m *models.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.markets[m.ID]; !ok {
		return models.ErrRecordNotFound
	}
	cp := *m
	cp.UpdatedAt = time.Now()
	s.markets[m.ID] = &cp
	return nil
}

// ListMarkets returns all markets in creation order.
func (s *Memory) ListMarkets(_ context.Context) ([]models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Market, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.markets[id])
	}
	return out, nil
}

// ListPendingDue returns pending markets whose resolution window has opened.
func (s *Memory) ListPendingDue(_ context.Context, now time.Time) ([]models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Market
	for _, id := range s.order {
		m := s.markets[id]
		if m.IsPending() && m.ResolutionOpen(now) {
			out = append(out, *m)
		}
	}
	return out, nil
}

// CreatePosition stores a new position, enforcing one per (market, user).
func (s *Memory) CreatePosition(_ context.Context, p *models.UserPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := posKey{p.MarketID, p.UserID}
	if _, ok := s.positions[key]; ok {
		return models.ErrDuplicatePosition
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	s.positions[key] = &cp
	return nil
}

// GetPosition returns a copy of one user's position in a market.
func (s *Memory) GetPosition(_ context.Context, marketID, userID uuid.UUID) (*models.UserPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[posKey{marketID, userID}]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

// UpdatePosition overwrites the stored position.
func (s *Memory) UpdatePosition(_ context.Context, p *models.UserPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := posKey{p.MarketID, p.UserID}
	if _, ok := s.positions[key]; !ok {
		return models.ErrRecordNotFound
	}
	cp := *p
	cp.UpdatedAt = time.Now()
	s.positions[key] = &cp
	return nil
}

// CreateSettlement appends an immutable settlement record.
func (s *Memory) CreateSettlement(_ context.Context, rec *models.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	s.settlements = append(s.settlements, *rec)
	return nil
}

// ListSettlements returns the settlement records for one market, oldest first.
func (s *Memory) ListSettlements(_ context.Context, marketID uuid.UUID) ([]models.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Settlement
	for i := range s.settlements {
		if s.settlements[i].MarketID == marketID {
			out = append(out, s.settlements[i])
		}
	}
	return out, nil
}

// marketSnapshot captures everything owned by one market so a failed atomic
// block can be undone without touching other markets.
type marketSnapshot struct {
	market          *models.Market
	positions       map[posKey]*models.UserPosition
	settlementCount int
}

func (s *Memory) snapshot(marketID uuid.UUID) *marketSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &marketSnapshot{positions: make(map[posKey]*models.UserPosition)}
	if m, ok := s.markets[marketID]; ok {
		cp := *m
		snap.market = &cp
	}
	for key, p := range s.positions {
		if key.marketID == marketID {
			cp := *p
			snap.positions[key] = &cp
		}
	}
	for i := range s.settlements {
		if s.settlements[i].MarketID == marketID {
			snap.settlementCount++
		}
	}
	return snap
}

func (s *Memory) restore(marketID uuid.UUID, snap *marketSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.market != nil {
		s.markets[marketID] = snap.market
	} else {
		delete(s.markets, marketID)
		for i, id := range s.order {
			if id == marketID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}

	for key := range s.positions {
		if key.marketID == marketID {
			delete(s.positions, key)
		}
	}
	for key, p := range snap.positions {
		s.positions[key] = p
	}

	seen := 0
	kept := s.settlements[:0]
	for i := range s.settlements {
		if s.settlements[i].MarketID == marketID {
			seen++
			if seen > snap.settlementCount {
				continue
			}
		}
		kept = append(kept, s.settlements[i])
	}
	s.settlements = kept
}

// Atomic serializes fn against all other atomic blocks on the same market
// and rolls every write back if fn returns an error.
func (s *Memory) Atomic(ctx context.Context, marketID uuid.UUID, fn func(Store) error) error {
	lock := s.marketLock(marketID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.snapshot(marketID)
	if err := fn(s); err != nil {
		s.restore(marketID, snap)
		return err
	}
	return nil
}
