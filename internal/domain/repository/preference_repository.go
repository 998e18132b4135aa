package repository

import (
	"context"

	"farmradar/internal/domain/entity"
	"farmradar/internal/errors"

	"github.com/google/uuid"
)

// ErrPreferencesNotFound is returned when a consumer has no stored preferences.
var ErrPreferencesNotFound = errors.New("preferences not found")

// PreferenceRepository persists per-consumer notification preferences.
type PreferenceRepository interface {
	// FindByConsumer retrieves the preferences for a consumer.
	FindByConsumer(ctx context.Context, consumerID uuid.UUID) (*entity.ConsumerPreferences, error)

	// FindByConsumers retrieves preferences for many consumers in one query.
	// Consumers without stored preferences are simply absent from the result.
	FindByConsumers(ctx context.Context, consumerIDs []uuid.UUID) (map[uuid.UUID]*entity.ConsumerPreferences, error)

	// Upsert creates or replaces the preferences for a consumer.
	Upsert(ctx context.Context, prefs *entity.ConsumerPreferences) error
}
