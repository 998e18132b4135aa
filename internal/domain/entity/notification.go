package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProximityNotification is the persisted record of one emitted transition
// event. Its ID is the deterministic idempotency key minted from
// (vendorID, consumerID, transition timestamp), so redelivery of the same
// transition maps onto the same row.
type ProximityNotification struct {
	ID             uuid.UUID  `json:"id"`
	VendorID       uuid.UUID  `json:"vendor_id"`
	ConsumerID     uuid.UUID  `json:"consumer_id"`
	Kind           EventKind  `json:"kind"`
	DistanceMeters float64    `json:"distance_meters"`
	Seq            uint64     `json:"seq"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Delivered reports whether the worker has already pushed this notification
// to the consumer's devices. Used to make redelivery a no-op.
func (n *ProximityNotification) Delivered() bool {
	return n.DeliveredAt != nil
}

// Acknowledged reports whether the consumer has dismissed the notification.
func (n *ProximityNotification) Acknowledged() bool {
	return n.AcknowledgedAt != nil
}

// DeliveryLog records the outcome of one push attempt to one device.
type DeliveryLog struct {
	ID             uuid.UUID `json:"id"`
	NotificationID uuid.UUID `json:"notification_id"`
	ConsumerID     uuid.UUID `json:"consumer_id"`
	DeviceID       uuid.UUID `json:"device_id"`
	Status         string    `json:"status"` // sent, failed
	ErrorMessage   string    `json:"error_message"`
	SentAt         time.Time `json:"sent_at"`
}
