package entity

import (
	"time"

	"farmradar/internal/errors"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Validation errors for position reports.
var (
	// ErrInvalidCoordinates is returned when a report carries out-of-range coordinates.
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	// ErrInvalidRole is returned when a report carries an unknown role.
	ErrInvalidRole = errors.New("unknown entity role")
)

// Position is the most recent reported location of a vendor or consumer.
// A new report from the same entity supersedes the previous one; no history
// is retained.
type Position struct {
	EntityID       uuid.UUID `json:"entity_id"`
	Role           Role      `json:"role"`
	Point          orb.Point `json:"point"` // orb convention: (longitude, latitude)
	AccuracyMeters *float64  `json:"accuracy_meters,omitempty"`
	CapturedAt     time.Time `json:"captured_at"`
}

// Lon returns the longitude of the position.
func (p *Position) Lon() float64 {
	return p.Point.Lon()
}

// Lat returns the latitude of the position.
func (p *Position) Lat() float64 {
	return p.Point.Lat()
}

// Validate rejects reports with out-of-range coordinates or unknown roles.
// Invalid reports are discarded whole; there is no partial update.
func (p *Position) Validate() error {
	if !p.Role.Valid() {
		return ErrInvalidRole
	}
	if p.Lat() < -90 || p.Lat() > 90 {
		return errors.Wrapf(ErrInvalidCoordinates, "latitude %f", p.Lat())
	}
	if p.Lon() < -180 || p.Lon() > 180 {
		return errors.Wrapf(ErrInvalidCoordinates, "longitude %f", p.Lon())
	}

	return nil
}

// StaleAt reports whether the position is older than the staleness window at
// the given instant. Stale entities are treated as absent by the evaluator.
func (p *Position) StaleAt(now time.Time, window time.Duration) bool {
	return now.Sub(p.CapturedAt) > window
}
