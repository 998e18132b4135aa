// Package service defines the interfaces of external collaborators.
package service

import (
	"context"
	"fmt"
	"time"

	"farmradar/internal/domain/entity"

	"github.com/google/uuid"
)

// notificationNamespace is the fixed UUIDv5 namespace for idempotency keys.
var notificationNamespace = uuid.MustParse("7f1f35a4-9f37-4b6d-9f3e-1c2a6d0e8b5d")

// NotificationID mints the deterministic idempotency key of one transition:
// the same (vendor, consumer, transition timestamp) always yields the same
// ID, so duplicate delivery is safely ignorable downstream.
func NotificationID(vendorID, consumerID uuid.UUID, transitionAt time.Time) uuid.UUID {
	name := fmt.Sprintf("%s|%s|%d", vendorID, consumerID, transitionAt.UnixNano())

	return uuid.NewSHA1(notificationNamespace, []byte(name))
}

// ProximityEvent is the wire schema of one transition event pushed onto the
// delivery channel.
type ProximityEvent struct {
	RequestID      string           `json:"request_id,omitempty"` // For distributed tracing
	Type           entity.EventKind `json:"type"`
	VendorID       string           `json:"vendor_id"`
	VendorName     string           `json:"vendor_name"`
	ConsumerID     string           `json:"consumer_id"`
	DistanceMeters float64          `json:"distance_meters"`
	Products       []string         `json:"products,omitempty"`
	NotificationID string           `json:"notification_id"`
	Seq            uint64           `json:"seq"`
	Timestamp      time.Time        `json:"timestamp"`
}

// EventPublisher is the delivery channel contract: at-least-once publish of
// transition events toward connected consumer sessions. Implementations are
// injected explicitly; there is no shared global instance.
type EventPublisher interface {
	// PublishProximityEvent publishes a transition event. Redelivery is safe:
	// consumers dedupe on NotificationID.
	PublishProximityEvent(ctx context.Context, event *ProximityEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
