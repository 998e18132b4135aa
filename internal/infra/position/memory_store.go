// Package position provides live position stores: the single latest position
// per entity, with staleness enforced by the store itself.
package position

import (
	"context"
	"sync"
	"time"

	"farmradar/internal/domain/entity"
	"farmradar/internal/domain/repository"
	"farmradar/internal/infra/geo"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

func orbPoint(lon, lat float64) orb.Point {
	return orb.Point{lon, lat}
}

// memoryStore is the in-process PositionStore. One grid index per role keeps
// radius queries from scanning every tracked entity.
type memoryStore struct {
	mu        sync.RWMutex
	positions map[uuid.UUID]*entity.Position
	grids     map[entity.Role]*geo.Grid
	staleness time.Duration
	now       func() time.Time
}

// NewMemoryStore creates an in-memory position store.
func NewMemoryStore(staleness time.Duration, gridCellSizeKm float64) repository.PositionStore {
	return newMemoryStore(staleness, gridCellSizeKm, time.Now)
}

func newMemoryStore(staleness time.Duration, gridCellSizeKm float64, now func() time.Time) *memoryStore {
	return &memoryStore{
		positions: make(map[uuid.UUID]*entity.Position),
		grids: map[entity.Role]*geo.Grid{
			entity.RoleVendor:   geo.NewGrid(gridCellSizeKm),
			entity.RoleConsumer: geo.NewGrid(gridCellSizeKm),
		},
		staleness: staleness,
		now:       now,
	}
}

func (s *memoryStore) Upsert(_ context.Context, pos *entity.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions[pos.EntityID] = pos
	s.grids[pos.Role].Set(pos.EntityID, pos.Point)

	return nil
}

func (s *memoryStore) Latest(_ context.Context, entityID uuid.UUID) (*entity.Position, error) {
	s.mu.RLock()
	pos, ok := s.positions[entityID]
	s.mu.RUnlock()

	if !ok || pos.StaleAt(s.now(), s.staleness) {
		return nil, repository.ErrPositionNotFound
	}

	return pos, nil
}

func (s *memoryStore) ActiveWithin(_ context.Context, role entity.Role, lat, lon, radiusMeters float64) ([]*entity.Position, error) {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.grids[role].Within(orbPoint(lon, lat), radiusMeters)
	result := make([]*entity.Position, 0, len(candidates))
	for id := range candidates {
		pos, ok := s.positions[id]
		if !ok || pos.Role != role || pos.StaleAt(now, s.staleness) {
			continue
		}
		result = append(result, pos)
	}

	return result, nil
}

func (s *memoryStore) Remove(_ context.Context, entityID uuid.UUID, role entity.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.positions, entityID)
	s.grids[role].Remove(entityID)

	return nil
}

func (s *memoryStore) Staleness() time.Duration {
	return s.staleness
}

// Compact drops stale entries so the position map and grids do not grow
// without bound as entities churn.
func (s *memoryStore) Compact(_ context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, pos := range s.positions {
		if pos.StaleAt(now, s.staleness) {
			delete(s.positions, id)
			s.grids[pos.Role].Remove(id)
			removed++
		}
	}

	return removed, nil
}
