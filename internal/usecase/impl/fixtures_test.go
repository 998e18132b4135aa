package impl

import (
	"io"
	"log/slog"
	"time"

	"farmradar/config"
	"farmradar/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

func testConfig() *config.Config {
	return &config.Config{
		Proximity: &config.ProximityConfig{
			DefaultRadiusMeters:   1000,
			MinRadiusMeters:       100,
			MaxRadiusMeters:       10000,
			MaxSearchRadiusMeters: 10000,
			Cooldown:              time.Minute,
			StalenessWindow:       5 * time.Minute,
			SweepInterval:         30 * time.Second,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func activeVendor(rating float64) *entity.VendorProfile {
	return &entity.VendorProfile{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     "Ram's Vegetables",
		Phone:    "+911234567890",
		Rating:   rating,
		IsActive: true,
	}
}

func positionAt(entityID uuid.UUID, role entity.Role, lat, lon float64, capturedAt time.Time) *entity.Position {
	return &entity.Position{
		EntityID:   entityID,
		Role:       role,
		Point:      orb.Point{lon, lat},
		CapturedAt: capturedAt,
	}
}

func enabledPreferences(consumerID uuid.UUID, radiusMeters float64) *entity.ConsumerPreferences {
	return &entity.ConsumerPreferences{
		ConsumerID:   consumerID,
		Enabled:      true,
		RadiusMeters: radiusMeters,
		UpdatedAt:    time.Now(),
	}
}
