// Package repository declares the persistence interfaces the usecases
// depend on, one per aggregate.
package repository

import (
	"context"
	"time"

	"farmradar/internal/domain/entity"
	"farmradar/internal/errors"

	"github.com/google/uuid"
)

// ErrPositionNotFound is returned when no live position exists for an entity.
var ErrPositionNotFound = errors.New("position not found")

// PositionStore keeps the single latest position per entity. Implementations
// must enforce the staleness window: a position older than the window is
// reported as absent, never returned to the evaluator.
type PositionStore interface {
	// Upsert replaces the stored position for the entity. Each report
	// supersedes the previous one; no trajectory is retained.
	Upsert(ctx context.Context, pos *entity.Position) error

	// Latest returns the current non-stale position of an entity, or
	// ErrPositionNotFound when the entity is absent or stale.
	Latest(ctx context.Context, entityID uuid.UUID) (*entity.Position, error)

	// ActiveWithin returns every non-stale position of the given role within
	// radiusMeters of the center point.
	ActiveWithin(ctx context.Context, role entity.Role, lat, lon, radiusMeters float64) ([]*entity.Position, error)

	// Remove drops the entity's position, e.g. on session end.
	Remove(ctx context.Context, entityID uuid.UUID, role entity.Role) error

	// Compact garbage-collects stale entries and returns how many were
	// dropped. Queries already filter stale positions, so Compact only
	// bounds memory; the sweeper invokes it on its tick.
	Compact(ctx context.Context) (int, error)

	// Staleness returns the configured staleness window.
	Staleness() time.Duration
}
