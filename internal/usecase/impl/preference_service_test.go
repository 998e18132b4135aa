package impl

import (
	"context"
	"testing"

	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPreferenceFixture() (usecase.PreferenceUsecase, *mockPreferenceRepository, *mockDeviceRepository) {
	prefRepo := new(mockPreferenceRepository)
	deviceRepo := new(mockDeviceRepository)

	return NewPreferenceService(prefRepo, deviceRepo, testConfig()), prefRepo, deviceRepo
}

func TestPreferenceService_GetPreferences_DefaultsWhenUnset(t *testing.T) {
	svc, prefRepo, _ := newPreferenceFixture()

	consumerID := uuid.New()
	prefRepo.On("FindByConsumer", mock.Anything, consumerID).Return(nil, repository.ErrPreferencesNotFound)

	prefs, err := svc.GetPreferences(context.Background(), consumerID)
	require.NoError(t, err)
	assert.Equal(t, consumerID, prefs.ConsumerID)
	assert.True(t, prefs.Enabled)
	assert.InDelta(t, 1000, prefs.RadiusMeters, 0.0001)
	assert.False(t, prefs.DoNotDisturb)
}

func TestPreferenceService_GetPreferences_Stored(t *testing.T) {
	svc, prefRepo, _ := newPreferenceFixture()

	consumerID := uuid.New()
	stored := enabledPreferences(consumerID, 2500)
	prefRepo.On("FindByConsumer", mock.Anything, consumerID).Return(stored, nil)

	prefs, err := svc.GetPreferences(context.Background(), consumerID)
	require.NoError(t, err)
	assert.Equal(t, stored, prefs)
}

func TestPreferenceService_UpdatePreferences_PartialMerge(t *testing.T) {
	svc, prefRepo, _ := newPreferenceFixture()

	consumerID := uuid.New()
	stored := enabledPreferences(consumerID, 2500)
	stored.MinimumRating = 3.0

	prefRepo.On("FindByConsumer", mock.Anything, consumerID).Return(stored, nil)
	prefRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	dnd := true
	quiet := entity.QuietHours{Enabled: true, Start: "22:00", End: "07:00"}
	updated, err := svc.UpdatePreferences(context.Background(), consumerID, &usecase.UpdatePreferencesInput{
		DoNotDisturb: &dnd,
		QuietHours:   &quiet,
	})
	require.NoError(t, err)

	// Untouched fields keep their stored values.
	assert.InDelta(t, 2500, updated.RadiusMeters, 0.0001)
	assert.InDelta(t, 3.0, updated.MinimumRating, 0.0001)
	assert.True(t, updated.DoNotDisturb)
	assert.Equal(t, quiet, updated.QuietHours)

	prefRepo.AssertCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPreferenceService_UpdatePreferences_ClampsRadius(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		want      float64
	}{
		{name: "below minimum", requested: 10, want: 100},
		{name: "above maximum", requested: 50000, want: 10000},
		{name: "within bounds", requested: 750, want: 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, prefRepo, _ := newPreferenceFixture()

			consumerID := uuid.New()
			prefRepo.On("FindByConsumer", mock.Anything, consumerID).Return(nil, repository.ErrPreferencesNotFound)
			prefRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

			updated, err := svc.UpdatePreferences(context.Background(), consumerID, &usecase.UpdatePreferencesInput{
				RadiusMeters: &tt.requested,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, updated.RadiusMeters, 0.0001)
		})
	}
}

func TestPreferenceService_UpdatePreferences_RejectsMalformedQuietHours(t *testing.T) {
	svc, prefRepo, _ := newPreferenceFixture()

	consumerID := uuid.New()
	prefRepo.On("FindByConsumer", mock.Anything, consumerID).Return(nil, repository.ErrPreferencesNotFound)

	quiet := entity.QuietHours{Enabled: true, Start: "25:99", End: "08:00"}
	_, err := svc.UpdatePreferences(context.Background(), consumerID, &usecase.UpdatePreferencesInput{
		QuietHours: &quiet,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrMalformedPreferences)

	prefRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPreferenceService_RegisterDevice(t *testing.T) {
	svc, _, deviceRepo := newPreferenceFixture()

	consumerID := uuid.New()
	deviceRepo.On("UpsertDevice", mock.Anything, mock.Anything).Return(nil)

	device, err := svc.RegisterDevice(context.Background(), consumerID, "fcm-token", "pixel-7", "android")
	require.NoError(t, err)
	assert.Equal(t, consumerID, device.ConsumerID)
	assert.Equal(t, "fcm-token", device.FCMToken)
	assert.Equal(t, "android", device.Platform)
	assert.True(t, device.IsActive)
}

func TestPreferenceService_UnregisterDevice(t *testing.T) {
	svc, _, deviceRepo := newPreferenceFixture()

	deviceID := uuid.New()
	deviceRepo.On("DeleteDevice", mock.Anything, deviceID).Return(nil)

	require.NoError(t, svc.UnregisterDevice(context.Background(), deviceID))
	deviceRepo.AssertCalled(t, "DeleteDevice", mock.Anything, deviceID)
}
