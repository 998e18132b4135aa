package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConsumerDevice is a device registered for push delivery of proximity events.
type ConsumerDevice struct {
	ID         uuid.UUID `json:"id"`
	ConsumerID uuid.UUID `json:"consumer_id"`
	FCMToken   string    `json:"fcm_token"`
	DeviceID   string    `json:"device_id"` // client-supplied identifier
	Platform   string    `json:"platform"`  // ios, android, web
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
