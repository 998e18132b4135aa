package model

import (
	"time"

	"github.com/google/uuid"
)

// ConsumerPreferenceModel mirrors the 'consumer_preferences' table. One row
// per consumer; ConsumerID references users.id (UUID).
type ConsumerPreferenceModel struct {
	ConsumerID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Enabled           bool      `gorm:"not null;default:true"`
	RadiusMeters      float64   `gorm:"type:decimal(10,2);not null;default:1000.0"`
	QuietHoursEnabled bool      `gorm:"not null;default:false"`
	QuietHoursStart   string    `gorm:"type:varchar(5);not null;default:'22:00'"`
	QuietHoursEnd     string    `gorm:"type:varchar(5);not null;default:'08:00'"`
	MinimumRating     float64   `gorm:"type:decimal(3,2);not null;default:0"`
	DoNotDisturb      bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (ConsumerPreferenceModel) TableName() string {
	return "consumer_preferences"
}
