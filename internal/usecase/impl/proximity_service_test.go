package impl

import (
	"context"
	"testing"
	"time"

	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProximityFixture() (*proximityService, *mockPositionStore, *mockVendorRepository, *mockPreferenceRepository) {
	positions := new(mockPositionStore)
	vendorRepo := new(mockVendorRepository)
	prefRepo := new(mockPreferenceRepository)

	svc := NewProximityService(positions, vendorRepo, prefRepo, testConfig(), testLogger()).(*proximityService)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	return svc, positions, vendorRepo, prefRepo
}

func TestProximityService_ScanVendor_AnnotatesCandidates(t *testing.T) {
	svc, positions, vendorRepo, prefRepo := newProximityFixture()
	ctx := context.Background()

	vendor := activeVendor(4.2)
	vendorPos := positionAt(vendor.ID, entity.RoleVendor, 28.6139, 77.2090, time.Now())

	nearConsumer := uuid.New()
	farConsumer := uuid.New()
	nearPos := positionAt(nearConsumer, entity.RoleConsumer, 28.6145, 77.2095, time.Now())
	farPos := positionAt(farConsumer, entity.RoleConsumer, 28.6400, 77.2400, time.Now())

	vendorRepo.On("FindVendorByID", mock.Anything, vendor.ID).Return(vendor, nil)
	positions.On("Latest", mock.Anything, vendor.ID).Return(vendorPos, nil)
	positions.On("ActiveWithin", mock.Anything, entity.RoleConsumer, vendorPos.Lat(), vendorPos.Lon(), 10000.0).
		Return([]*entity.Position{nearPos, farPos}, nil)
	prefRepo.On("FindByConsumers", mock.Anything, mock.Anything).Return(map[uuid.UUID]*entity.ConsumerPreferences{
		nearConsumer: enabledPreferences(nearConsumer, 1000),
		// farConsumer has no stored preferences; the defaults apply.
	}, nil)

	scan, err := svc.ScanVendor(ctx, vendor.ID)
	require.NoError(t, err)
	require.NotNil(t, scan.Position)
	require.Len(t, scan.Candidates, 2)

	near := scan.Candidates[0]
	assert.Equal(t, nearConsumer, near.ConsumerID)
	assert.InDelta(t, 85, near.DistanceMeters, 15)
	assert.True(t, near.WithinRadius)
	assert.False(t, near.Suppressed)

	// About 4 km away, outside the default 1 km radius but still a candidate
	// so the notifier can observe departures.
	far := scan.Candidates[1]
	assert.Equal(t, farConsumer, far.ConsumerID)
	assert.False(t, far.WithinRadius)
	assert.False(t, far.Suppressed)
}

func TestProximityService_ScanVendor_InactiveVendor(t *testing.T) {
	svc, _, vendorRepo, _ := newProximityFixture()

	vendor := activeVendor(4.2)
	vendor.IsActive = false
	vendorRepo.On("FindVendorByID", mock.Anything, vendor.ID).Return(vendor, nil)

	scan, err := svc.ScanVendor(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Nil(t, scan.Position)
	assert.Empty(t, scan.Candidates)
}

func TestProximityService_ScanVendor_MissingPosition(t *testing.T) {
	svc, positions, vendorRepo, _ := newProximityFixture()

	vendor := activeVendor(4.2)
	vendorRepo.On("FindVendorByID", mock.Anything, vendor.ID).Return(vendor, nil)
	positions.On("Latest", mock.Anything, vendor.ID).Return(nil, repository.ErrPositionNotFound)

	scan, err := svc.ScanVendor(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, vendor, scan.Vendor)
	assert.Nil(t, scan.Position)
	assert.Empty(t, scan.Candidates)
}

func TestProximityService_ScanVendor_UnknownVendor(t *testing.T) {
	svc, _, vendorRepo, _ := newProximityFixture()

	vendorID := uuid.New()
	vendorRepo.On("FindVendorByID", mock.Anything, vendorID).Return(nil, repository.ErrVendorNotFound)

	_, err := svc.ScanVendor(context.Background(), vendorID)
	assert.ErrorIs(t, err, domainerrors.ErrVendorNotFound)
}

func TestProximityService_ScanVendor_SuppressionPolicies(t *testing.T) {
	tests := []struct {
		name         string
		vendorRating float64
		prefs        func(consumerID uuid.UUID) *entity.ConsumerPreferences
	}{
		{
			name:         "do not disturb",
			vendorRating: 4.5,
			prefs: func(consumerID uuid.UUID) *entity.ConsumerPreferences {
				prefs := enabledPreferences(consumerID, 1000)
				prefs.DoNotDisturb = true

				return prefs
			},
		},
		{
			name:         "notifications disabled",
			vendorRating: 4.5,
			prefs: func(consumerID uuid.UUID) *entity.ConsumerPreferences {
				prefs := enabledPreferences(consumerID, 1000)
				prefs.Enabled = false

				return prefs
			},
		},
		{
			name:         "quiet hours",
			vendorRating: 4.5,
			prefs: func(consumerID uuid.UUID) *entity.ConsumerPreferences {
				prefs := enabledPreferences(consumerID, 1000)
				prefs.QuietHours = entity.QuietHours{Enabled: true, Start: "11:00", End: "13:00"}

				return prefs
			},
		},
		{
			name:         "vendor below minimum rating",
			vendorRating: 4.0,
			prefs: func(consumerID uuid.UUID) *entity.ConsumerPreferences {
				prefs := enabledPreferences(consumerID, 1000)
				prefs.MinimumRating = 4.5

				return prefs
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, positions, vendorRepo, prefRepo := newProximityFixture()

			vendor := activeVendor(tt.vendorRating)
			vendorPos := positionAt(vendor.ID, entity.RoleVendor, 28.6139, 77.2090, time.Now())
			consumerID := uuid.New()
			consumerPos := positionAt(consumerID, entity.RoleConsumer, 28.6145, 77.2095, time.Now())

			vendorRepo.On("FindVendorByID", mock.Anything, vendor.ID).Return(vendor, nil)
			positions.On("Latest", mock.Anything, vendor.ID).Return(vendorPos, nil)
			positions.On("ActiveWithin", mock.Anything, entity.RoleConsumer, mock.Anything, mock.Anything, mock.Anything).
				Return([]*entity.Position{consumerPos}, nil)
			prefRepo.On("FindByConsumers", mock.Anything, mock.Anything).Return(map[uuid.UUID]*entity.ConsumerPreferences{
				consumerID: tt.prefs(consumerID),
			}, nil)

			scan, err := svc.ScanVendor(context.Background(), vendor.ID)
			require.NoError(t, err)
			require.Len(t, scan.Candidates, 1)
			assert.True(t, scan.Candidates[0].WithinRadius)
			assert.True(t, scan.Candidates[0].Suppressed)
		})
	}
}

func TestProximityService_ScanVendor_MalformedPreferencesSuppress(t *testing.T) {
	svc, positions, vendorRepo, prefRepo := newProximityFixture()

	vendor := activeVendor(4.5)
	vendorPos := positionAt(vendor.ID, entity.RoleVendor, 28.6139, 77.2090, time.Now())
	consumerID := uuid.New()
	consumerPos := positionAt(consumerID, entity.RoleConsumer, 28.6145, 77.2095, time.Now())

	broken := enabledPreferences(consumerID, -50)

	vendorRepo.On("FindVendorByID", mock.Anything, vendor.ID).Return(vendor, nil)
	positions.On("Latest", mock.Anything, vendor.ID).Return(vendorPos, nil)
	positions.On("ActiveWithin", mock.Anything, entity.RoleConsumer, mock.Anything, mock.Anything, mock.Anything).
		Return([]*entity.Position{consumerPos}, nil)
	prefRepo.On("FindByConsumers", mock.Anything, mock.Anything).Return(map[uuid.UUID]*entity.ConsumerPreferences{
		consumerID: broken,
	}, nil)

	scan, err := svc.ScanVendor(context.Background(), vendor.ID)
	require.NoError(t, err)
	require.Len(t, scan.Candidates, 1)

	// The cycle survives and the consumer is suppressed; the default radius
	// still feeds the range check so departures keep working.
	assert.True(t, scan.Candidates[0].Suppressed)
	assert.True(t, scan.Candidates[0].WithinRadius)
}

func TestProximityService_ScanConsumer(t *testing.T) {
	svc, positions, vendorRepo, prefRepo := newProximityFixture()

	consumerID := uuid.New()
	consumerPos := positionAt(consumerID, entity.RoleConsumer, 28.6139, 77.2090, time.Now())

	active := activeVendor(4.2)
	inactive := activeVendor(4.2)
	inactive.IsActive = false
	ghostID := uuid.New()

	activePos := positionAt(active.ID, entity.RoleVendor, 28.6145, 77.2095, time.Now())
	inactivePos := positionAt(inactive.ID, entity.RoleVendor, 28.6146, 77.2096, time.Now())
	ghostPos := positionAt(ghostID, entity.RoleVendor, 28.6147, 77.2097, time.Now())

	positions.On("Latest", mock.Anything, consumerID).Return(consumerPos, nil)
	prefRepo.On("FindByConsumer", mock.Anything, consumerID).Return(enabledPreferences(consumerID, 1000), nil)
	positions.On("ActiveWithin", mock.Anything, entity.RoleVendor, consumerPos.Lat(), consumerPos.Lon(), 10000.0).
		Return([]*entity.Position{activePos, inactivePos, ghostPos}, nil)
	vendorRepo.On("FindVendorByID", mock.Anything, active.ID).Return(active, nil)
	vendorRepo.On("FindVendorByID", mock.Anything, inactive.ID).Return(inactive, nil)
	vendorRepo.On("FindVendorByID", mock.Anything, ghostID).Return(nil, repository.ErrVendorNotFound)

	scans, err := svc.ScanConsumer(context.Background(), consumerID)
	require.NoError(t, err)
	require.Len(t, scans, 2)

	assert.Equal(t, active.ID, scans[0].Vendor.ID)
	assert.True(t, scans[0].Candidates[0].WithinRadius)

	// An inactive vendor reads as out of range, so active pairs depart.
	assert.Equal(t, inactive.ID, scans[1].Vendor.ID)
	assert.False(t, scans[1].Candidates[0].WithinRadius)
}

func TestProximityService_ScanConsumer_NoPosition(t *testing.T) {
	svc, positions, _, _ := newProximityFixture()

	consumerID := uuid.New()
	positions.On("Latest", mock.Anything, consumerID).Return(nil, repository.ErrPositionNotFound)

	scans, err := svc.ScanConsumer(context.Background(), consumerID)
	require.NoError(t, err)
	assert.Empty(t, scans)
}

func TestProximityService_NearbyVendors_SortedByDistance(t *testing.T) {
	svc, positions, vendorRepo, prefRepo := newProximityFixture()

	consumerID := uuid.New()
	consumerPos := positionAt(consumerID, entity.RoleConsumer, 28.6139, 77.2090, time.Now())

	near := activeVendor(4.6)
	far := activeVendor(3.1)
	inactive := activeVendor(4.0)
	inactive.IsActive = false

	nearPos := positionAt(near.ID, entity.RoleVendor, 28.6142, 77.2092, time.Now())
	farPos := positionAt(far.ID, entity.RoleVendor, 28.6180, 77.2130, time.Now())
	inactivePos := positionAt(inactive.ID, entity.RoleVendor, 28.6141, 77.2091, time.Now())

	positions.On("Latest", mock.Anything, consumerID).Return(consumerPos, nil)
	prefRepo.On("FindByConsumer", mock.Anything, consumerID).Return(enabledPreferences(consumerID, 800), nil)
	positions.On("ActiveWithin", mock.Anything, entity.RoleVendor, consumerPos.Lat(), consumerPos.Lon(), 800.0).
		Return([]*entity.Position{farPos, nearPos, inactivePos}, nil)
	vendorRepo.On("FindVendorByID", mock.Anything, near.ID).Return(near, nil)
	vendorRepo.On("FindVendorByID", mock.Anything, far.ID).Return(far, nil)
	vendorRepo.On("FindVendorByID", mock.Anything, inactive.ID).Return(inactive, nil)
	vendorRepo.On("FindActiveProducts", mock.Anything, near.ID, nearbyProductLimit).
		Return([]*entity.VendorProduct{{Name: "Tomatoes"}}, nil)
	vendorRepo.On("FindActiveProducts", mock.Anything, far.ID, nearbyProductLimit).
		Return([]*entity.VendorProduct{}, nil)

	// Radius 0 falls back to the consumer's preferred radius.
	nearby, err := svc.NearbyVendors(context.Background(), consumerID, 0)
	require.NoError(t, err)
	require.Len(t, nearby, 2)

	assert.Equal(t, near.ID, nearby[0].Vendor.ID)
	assert.Equal(t, far.ID, nearby[1].Vendor.ID)
	assert.Less(t, nearby[0].DistanceMeters, nearby[1].DistanceMeters)
	require.Len(t, nearby[0].Products, 1)
	assert.Equal(t, "Tomatoes", nearby[0].Products[0].Name)
}

func TestProximityService_NearbyVendors_ClampsRadius(t *testing.T) {
	svc, positions, _, _ := newProximityFixture()

	consumerID := uuid.New()
	consumerPos := positionAt(consumerID, entity.RoleConsumer, 28.6139, 77.2090, time.Now())

	positions.On("Latest", mock.Anything, consumerID).Return(consumerPos, nil)
	positions.On("ActiveWithin", mock.Anything, entity.RoleVendor, consumerPos.Lat(), consumerPos.Lon(), 100.0).
		Return([]*entity.Position{}, nil)

	nearby, err := svc.NearbyVendors(context.Background(), consumerID, 5)
	require.NoError(t, err)
	assert.Empty(t, nearby)

	positions.AssertCalled(t, "ActiveWithin", mock.Anything, entity.RoleVendor, consumerPos.Lat(), consumerPos.Lon(), 100.0)
}

func TestProximityService_NearbyVendors_NoPosition(t *testing.T) {
	svc, positions, _, _ := newProximityFixture()

	consumerID := uuid.New()
	positions.On("Latest", mock.Anything, consumerID).Return(nil, repository.ErrPositionNotFound)

	_, err := svc.NearbyVendors(context.Background(), consumerID, 500)
	assert.ErrorIs(t, err, domainerrors.ErrStalePosition)
}
