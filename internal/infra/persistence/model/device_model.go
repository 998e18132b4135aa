package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConsumerDeviceModel mirrors the 'consumer_devices' table. Devices are
// registered for push delivery of proximity events.
type ConsumerDeviceModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ConsumerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_consumer_device"`
	FCMToken   string    `gorm:"type:varchar(255);not null"`
	DeviceID   string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_consumer_device"`
	Platform   string    `gorm:"type:varchar(50);not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ConsumerDeviceModel) TableName() string {
	return "consumer_devices"
}
