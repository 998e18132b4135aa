package usecase

import (
	"context"

	"farmradar/internal/domain/entity"

	"github.com/google/uuid"
)

// PairCandidate is one (vendor, consumer) pair produced by a proximity scan,
// annotated with everything the state machine needs to advance it.
type PairCandidate struct {
	VendorID       uuid.UUID
	ConsumerID     uuid.UUID
	DistanceMeters float64
	WithinRadius   bool
	Suppressed     bool
}

// VendorScan is the result of evaluating one vendor against the consumers
// around it.
type VendorScan struct {
	Vendor     *entity.VendorProfile
	Position   *entity.Position
	Candidates []*PairCandidate
}

// NearbyVendor is one row of a consumer's nearby-vendors query.
type NearbyVendor struct {
	Vendor         *entity.VendorProfile   `json:"vendor"`
	DistanceMeters float64                 `json:"distance_meters"`
	Products       []*entity.VendorProduct `json:"products,omitempty"`
}

// ProximityUsecase performs the geo scans of the pipeline: given one moved
// entity, it produces the annotated pair candidates the notifier advances.
// It holds no pair state itself.
type ProximityUsecase interface {
	// ScanVendor evaluates a vendor against all active consumers around it.
	// Consumers appear as candidates even when outside their own radius, so
	// the notifier can detect departures.
	ScanVendor(ctx context.Context, vendorID uuid.UUID) (*VendorScan, error)

	// ScanConsumer evaluates a consumer against all active vendors around it,
	// returning one VendorScan per vendor with a single candidate each.
	ScanConsumer(ctx context.Context, consumerID uuid.UUID) ([]*VendorScan, error)

	// NearbyVendors answers a consumer's pull query for active vendors within
	// the given radius, with their current product lists.
	NearbyVendors(ctx context.Context, consumerID uuid.UUID, radiusMeters float64) ([]*NearbyVendor, error)
}
