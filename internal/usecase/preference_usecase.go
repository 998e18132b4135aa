package usecase

import (
	"context"

	"farmradar/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdatePreferencesInput represents a partial preferences update. Nil fields
// keep their stored value.
type UpdatePreferencesInput struct {
	Enabled       *bool    `json:"enabled,omitempty"`
	RadiusMeters  *float64 `json:"radius_meters,omitempty"`
	QuietHours    *entity.QuietHours `json:"quiet_hours,omitempty"`
	MinimumRating *float64 `json:"minimum_rating,omitempty"`
	DoNotDisturb  *bool    `json:"do_not_disturb,omitempty"`
}

// PreferenceUsecase manages consumer notification preferences.
type PreferenceUsecase interface {
	// GetPreferences returns the consumer's stored preferences, or the
	// defaults when none were ever configured.
	GetPreferences(ctx context.Context, consumerID uuid.UUID) (*entity.ConsumerPreferences, error)

	// UpdatePreferences applies a partial update after validation. The radius
	// is clamped to the configured bounds.
	UpdatePreferences(ctx context.Context, consumerID uuid.UUID, input *UpdatePreferencesInput) (*entity.ConsumerPreferences, error)

	// RegisterDevice registers a device for push delivery or refreshes its token.
	RegisterDevice(ctx context.Context, consumerID uuid.UUID, fcmToken, deviceID, platform string) (*entity.ConsumerDevice, error)

	// UnregisterDevice removes a device registration.
	UnregisterDevice(ctx context.Context, deviceID uuid.UUID) error
}
