package model

import (
	"time"

	"github.com/google/uuid"
)

// ProximityNotificationModel mirrors the 'proximity_notifications' table.
// The primary key is the deterministic idempotency key minted by the
// notifier, not a database-generated UUID, so redelivery of the same
// transition collides on insert instead of creating a second row.
type ProximityNotificationModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	VendorID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ConsumerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind           string    `gorm:"type:varchar(30);not null"`
	DistanceMeters float64   `gorm:"type:decimal(10,2);not null"`
	Seq            uint64    `gorm:"not null"`
	DeliveredAt    *time.Time
	AcknowledgedAt *time.Time
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProximityNotificationModel) TableName() string {
	return "proximity_notifications"
}

// DeliveryLogModel mirrors the 'delivery_logs' table. One row per push
// attempt per device.
type DeliveryLogModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	NotificationID uuid.UUID `gorm:"type:uuid;not null;index"`
	ConsumerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	DeviceID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Status         string    `gorm:"type:text;not null;default:'sent'"`
	ErrorMessage   string    `gorm:"type:text"`
	SentAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeliveryLogModel) TableName() string {
	return "delivery_logs"
}
