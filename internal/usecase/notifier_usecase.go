package usecase

import (
	"context"

	"farmradar/internal/domain/entity"

	"github.com/google/uuid"
)

// NotifierUsecase owns the per-pair notification state machine. It is the
// only component that mutates pair states, mints idempotency keys, and
// publishes transition events; processing is serialized per vendor so the
// per-pair sequence numbers stay monotonic.
type NotifierUsecase interface {
	// ProcessVendor advances every pair of one vendor after the vendor moved.
	// Returns the number of events emitted.
	ProcessVendor(ctx context.Context, vendorID uuid.UUID) (int, error)

	// ProcessConsumer advances every pair of one consumer after the consumer
	// moved. Returns the number of events emitted.
	ProcessConsumer(ctx context.Context, consumerID uuid.UUID) (int, error)

	// Acknowledge records a consumer's dismissal of an active notification
	// and places the pair into cooldown.
	Acknowledge(ctx context.Context, consumerID, notificationID uuid.UUID) error

	// NotificationHistory lists a consumer's notifications, newest first.
	NotificationHistory(ctx context.Context, consumerID uuid.UUID, limit, offset int) ([]*entity.ProximityNotification, error)

	// SweepStale departs pairs whose vendor position has gone stale and
	// drops settled pair records. Returns the number of pairs removed.
	SweepStale(ctx context.Context) (int, error)
}
