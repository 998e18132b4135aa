package usecase

import (
	"context"
	"time"

	"farmradar/internal/domain/entity"

	"github.com/google/uuid"
)

// ReportPositionInput represents one position sample reported by a client.
type ReportPositionInput struct {
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	AccuracyMeters *float64   `json:"accuracy_meters,omitempty"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`
}

// IngestResult reports what one position sample caused downstream.
type IngestResult struct {
	Position      *entity.Position `json:"position"`
	EventsEmitted int              `json:"events_emitted"`
}

// IngestUsecase is the entry point of the proximity pipeline. Every accepted
// sample updates the live position store and immediately re-evaluates the
// pairs the moved entity participates in.
type IngestUsecase interface {
	// ReportVendorPosition ingests a vendor position sample and re-evaluates
	// all consumers around the vendor.
	ReportVendorPosition(ctx context.Context, vendorID uuid.UUID, input *ReportPositionInput) (*IngestResult, error)

	// ReportConsumerPosition ingests a consumer position sample and
	// re-evaluates all vendors around the consumer.
	ReportConsumerPosition(ctx context.Context, consumerID uuid.UUID, input *ReportPositionInput) (*IngestResult, error)

	// RemovePosition drops an entity from the live position store, e.g. when
	// a vendor goes offline. Tracked pairs see the entity as departed.
	RemovePosition(ctx context.Context, entityID uuid.UUID, role entity.Role) error
}
