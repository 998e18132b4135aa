package impl

import (
	"context"
	"time"

	"farmradar/config"
	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/errors"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
)

type preferenceService struct {
	prefRepo   repository.PreferenceRepository
	deviceRepo repository.DeviceRepository
	cfg        *config.ProximityConfig
}

// NewPreferenceService creates the preferences management service.
func NewPreferenceService(
	prefRepo repository.PreferenceRepository,
	deviceRepo repository.DeviceRepository,
	cfg *config.Config,
) usecase.PreferenceUsecase {
	return &preferenceService{
		prefRepo:   prefRepo,
		deviceRepo: deviceRepo,
		cfg:        cfg.Proximity,
	}
}

// GetPreferences returns the stored preferences, or the defaults when the
// consumer never configured any.
func (s *preferenceService) GetPreferences(ctx context.Context, consumerID uuid.UUID) (*entity.ConsumerPreferences, error) {
	prefs, err := s.prefRepo.FindByConsumer(ctx, consumerID)
	if err != nil {
		if errors.Is(err, repository.ErrPreferencesNotFound) {
			return entity.DefaultConsumerPreferences(consumerID, s.cfg.DefaultRadiusMeters), nil
		}

		return nil, err
	}

	return prefs, nil
}

// UpdatePreferences applies a partial update on top of the current values.
// The radius is clamped to the configured bounds; everything else must pass
// validation or the whole update is rejected.
func (s *preferenceService) UpdatePreferences(ctx context.Context, consumerID uuid.UUID, input *usecase.UpdatePreferencesInput) (*entity.ConsumerPreferences, error) {
	prefs, err := s.GetPreferences(ctx, consumerID)
	if err != nil {
		return nil, err
	}

	if input.Enabled != nil {
		prefs.Enabled = *input.Enabled
	}
	if input.RadiusMeters != nil {
		prefs.RadiusMeters = s.clampRadius(*input.RadiusMeters)
	}
	if input.QuietHours != nil {
		prefs.QuietHours = *input.QuietHours
	}
	if input.MinimumRating != nil {
		prefs.MinimumRating = *input.MinimumRating
	}
	if input.DoNotDisturb != nil {
		prefs.DoNotDisturb = *input.DoNotDisturb
	}
	prefs.UpdatedAt = time.Now()

	if err := prefs.Validate(); err != nil {
		return nil, domainerrors.ErrMalformedPreferences.WrapMessage(err.Error())
	}

	if err := s.prefRepo.Upsert(ctx, prefs); err != nil {
		return nil, err
	}

	return prefs, nil
}

// RegisterDevice registers a device for push delivery or refreshes its token.
func (s *preferenceService) RegisterDevice(ctx context.Context, consumerID uuid.UUID, fcmToken, deviceID, platform string) (*entity.ConsumerDevice, error) {
	device := &entity.ConsumerDevice{
		ConsumerID: consumerID,
		FCMToken:   fcmToken,
		DeviceID:   deviceID,
		Platform:   platform,
		IsActive:   true,
	}

	if err := s.deviceRepo.UpsertDevice(ctx, device); err != nil {
		return nil, err
	}

	return device, nil
}

// UnregisterDevice removes a device registration.
func (s *preferenceService) UnregisterDevice(ctx context.Context, deviceID uuid.UUID) error {
	return s.deviceRepo.DeleteDevice(ctx, deviceID)
}

func (s *preferenceService) clampRadius(radius float64) float64 {
	if radius < s.cfg.MinRadiusMeters {
		return s.cfg.MinRadiusMeters
	}
	if radius > s.cfg.MaxRadiusMeters {
		return s.cfg.MaxRadiusMeters
	}

	return radius
}
