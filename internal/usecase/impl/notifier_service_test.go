package impl

import (
	"context"
	"testing"
	"time"

	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/domain/service"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notifierFixture struct {
	svc        *notifierService
	proximity  *mockProximityUsecase
	notifRepo  *mockNotificationRepository
	vendorRepo *mockVendorRepository
	publisher  *mockEventPublisher

	clock  time.Time
	events []*service.ProximityEvent
}

func newNotifierFixture(t *testing.T) *notifierFixture {
	t.Helper()

	fx := &notifierFixture{
		proximity:  new(mockProximityUsecase),
		notifRepo:  new(mockNotificationRepository),
		vendorRepo: new(mockVendorRepository),
		publisher:  new(mockEventPublisher),
		clock:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	fx.svc = NewNotifierService(fx.proximity, fx.notifRepo, fx.vendorRepo, fx.publisher, testConfig(), testLogger()).(*notifierService)
	fx.svc.now = func() time.Time { return fx.clock }

	fx.notifRepo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	fx.vendorRepo.On("FindActiveProducts", mock.Anything, mock.Anything, mock.Anything).
		Return([]*entity.VendorProduct{{Name: "Tomatoes"}}, nil)
	fx.publisher.On("PublishProximityEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			fx.events = append(fx.events, args.Get(1).(*service.ProximityEvent))
		}).
		Return(nil)

	return fx
}

func (fx *notifierFixture) scanFor(vendor *entity.VendorProfile, candidates ...*usecase.PairCandidate) *usecase.VendorScan {
	scan := &usecase.VendorScan{Vendor: vendor, Candidates: candidates}
	if len(candidates) > 0 {
		scan.Position = positionAt(vendor.ID, entity.RoleVendor, 28.6139, 77.2090, fx.clock)
	}

	return scan
}

func inRange(vendorID, consumerID uuid.UUID, distance float64) *usecase.PairCandidate {
	return &usecase.PairCandidate{
		VendorID:       vendorID,
		ConsumerID:     consumerID,
		DistanceMeters: distance,
		WithinRadius:   true,
	}
}

func outOfRange(vendorID, consumerID uuid.UUID, distance float64) *usecase.PairCandidate {
	return &usecase.PairCandidate{
		VendorID:       vendorID,
		ConsumerID:     consumerID,
		DistanceMeters: distance,
	}
}

func TestNotifierService_ProcessVendor_EmitsNearbyOnce(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	vendor := activeVendor(4.2)
	consumerID := uuid.New()
	scan := fx.scanFor(vendor, inRange(vendor.ID, consumerID, 85))
	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).Return(scan, nil)

	emitted, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)

	require.Len(t, fx.events, 1)
	event := fx.events[0]
	assert.Equal(t, entity.EventVendorNearby, event.Type)
	assert.Equal(t, vendor.ID.String(), event.VendorID)
	assert.Equal(t, vendor.Name, event.VendorName)
	assert.Equal(t, consumerID.String(), event.ConsumerID)
	assert.Equal(t, uint64(1), event.Seq)
	assert.Equal(t, []string{"Tomatoes"}, event.Products)
	assert.Equal(t, service.NotificationID(vendor.ID, consumerID, fx.clock).String(), event.NotificationID)

	// The same evaluation again is silent.
	emitted, err = fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, emitted)
	assert.Len(t, fx.events, 1)
}

func TestNotifierService_ProcessVendor_MovementEmitsUpdated(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	vendor := activeVendor(4.2)
	consumerID := uuid.New()

	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor, inRange(vendor.ID, consumerID, 85)), nil).Once()
	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor, inRange(vendor.ID, consumerID, 140)), nil).Once()

	_, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)

	fx.clock = fx.clock.Add(10 * time.Second)
	emitted, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)

	require.Len(t, fx.events, 2)
	updated := fx.events[1]
	assert.Equal(t, entity.EventVendorUpdated, updated.Type)
	assert.Equal(t, uint64(2), updated.Seq)
	assert.InDelta(t, 140, updated.DistanceMeters, 0.0001)
	assert.Empty(t, updated.Products)
}

func TestNotifierService_ProcessVendor_DepartureAndCooldown(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	vendor := activeVendor(4.2)
	consumerID := uuid.New()

	advance := func(candidate *usecase.PairCandidate) int {
		fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
			Return(fx.scanFor(vendor, candidate), nil).Once()
		emitted, err := fx.svc.ProcessVendor(ctx, vendor.ID)
		require.NoError(t, err)

		return emitted
	}

	assert.Equal(t, 1, advance(inRange(vendor.ID, consumerID, 85)))

	fx.clock = fx.clock.Add(10 * time.Second)
	assert.Equal(t, 1, advance(outOfRange(vendor.ID, consumerID, 1500)))
	assert.Equal(t, entity.EventVendorDeparted, fx.events[1].Type)
	assert.Equal(t, uint64(2), fx.events[1].Seq)

	// Back in range 30s later: the cooldown blocks re-activation.
	fx.clock = fx.clock.Add(30 * time.Second)
	assert.Equal(t, 0, advance(inRange(vendor.ID, consumerID, 90)))

	// After the cooldown the pair re-activates and emits again.
	fx.clock = fx.clock.Add(2 * time.Minute)
	assert.Equal(t, 1, advance(inRange(vendor.ID, consumerID, 90)))
	assert.Equal(t, entity.EventVendorNearby, fx.events[2].Type)
	assert.Equal(t, uint64(3), fx.events[2].Seq)
}

func TestNotifierService_ProcessVendor_MissingConsumerDeparts(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	vendor := activeVendor(4.2)
	consumerID := uuid.New()

	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor, inRange(vendor.ID, consumerID, 85)), nil).Once()
	_, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)

	// The consumer fell out of the scan entirely (stale or gone). Its
	// tracked pair still departs.
	fx.clock = fx.clock.Add(time.Minute)
	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor), nil).Once()

	emitted, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
	assert.Equal(t, entity.EventVendorDeparted, fx.events[1].Type)
	assert.Equal(t, consumerID.String(), fx.events[1].ConsumerID)
}

func TestNotifierService_ProcessVendor_SuppressedStaysSilent(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	vendor := activeVendor(4.2)
	consumerID := uuid.New()

	suppressed := inRange(vendor.ID, consumerID, 85)
	suppressed.Suppressed = true
	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor, suppressed), nil).Once()

	emitted, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, emitted)
	assert.Empty(t, fx.events)

	// Once the policy lifts, e.g. quiet hours end, the pending pair fires.
	fx.clock = fx.clock.Add(time.Hour)
	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor, inRange(vendor.ID, consumerID, 85)), nil).Once()

	emitted, err = fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
	assert.Equal(t, entity.EventVendorNearby, fx.events[0].Type)
}

func TestNotifierService_ProcessConsumer(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	vendor := activeVendor(4.2)
	consumerID := uuid.New()

	fx.proximity.On("ScanConsumer", mock.Anything, consumerID).
		Return([]*usecase.VendorScan{fx.scanFor(vendor, inRange(vendor.ID, consumerID, 85))}, nil).Once()

	emitted, err := fx.svc.ProcessConsumer(ctx, consumerID)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
	assert.Equal(t, entity.EventVendorNearby, fx.events[0].Type)

	// The consumer moved away: its scan no longer sees the vendor, so the
	// tracked pair departs.
	fx.clock = fx.clock.Add(time.Minute)
	fx.proximity.On("ScanConsumer", mock.Anything, consumerID).
		Return([]*usecase.VendorScan{}, nil).Once()
	fx.vendorRepo.On("FindVendorByID", mock.Anything, vendor.ID).Return(vendor, nil)

	emitted, err = fx.svc.ProcessConsumer(ctx, consumerID)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
	assert.Equal(t, entity.EventVendorDeparted, fx.events[1].Type)
}

func TestNotifierService_Acknowledge(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	vendor := activeVendor(4.2)
	consumerID := uuid.New()

	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor, inRange(vendor.ID, consumerID, 85)), nil)
	_, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)

	notificationID := service.NotificationID(vendor.ID, consumerID, fx.clock)
	fx.notifRepo.On("FindNotificationByID", mock.Anything, notificationID).
		Return(&entity.ProximityNotification{
			ID:         notificationID,
			VendorID:   vendor.ID,
			ConsumerID: consumerID,
			Kind:       entity.EventVendorNearby,
		}, nil)
	fx.notifRepo.On("MarkAcknowledged", mock.Anything, notificationID, fx.clock).Return(nil)

	require.NoError(t, fx.svc.Acknowledge(ctx, consumerID, notificationID))
	fx.notifRepo.AssertCalled(t, "MarkAcknowledged", mock.Anything, notificationID, fx.clock)

	// A dismissal is silent and places the pair into cooldown: the vendor
	// staying in range does not re-notify.
	fx.clock = fx.clock.Add(10 * time.Second)
	emitted, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, emitted)
	assert.Len(t, fx.events, 1)
}

func TestNotifierService_Acknowledge_WrongConsumer(t *testing.T) {
	fx := newNotifierFixture(t)

	notificationID := uuid.New()
	fx.notifRepo.On("FindNotificationByID", mock.Anything, notificationID).
		Return(&entity.ProximityNotification{
			ID:         notificationID,
			VendorID:   uuid.New(),
			ConsumerID: uuid.New(),
		}, nil)

	err := fx.svc.Acknowledge(context.Background(), uuid.New(), notificationID)
	assert.ErrorIs(t, err, domainerrors.ErrNotificationNotFound)
}

func TestNotifierService_Acknowledge_UnknownNotification(t *testing.T) {
	fx := newNotifierFixture(t)

	notificationID := uuid.New()
	fx.notifRepo.On("FindNotificationByID", mock.Anything, notificationID).
		Return(nil, repository.ErrNotificationNotFound)

	err := fx.svc.Acknowledge(context.Background(), uuid.New(), notificationID)
	assert.ErrorIs(t, err, domainerrors.ErrNotificationNotFound)
}

func TestNotifierService_NotificationHistory(t *testing.T) {
	fx := newNotifierFixture(t)

	consumerID := uuid.New()
	records := []*entity.ProximityNotification{{ID: uuid.New(), ConsumerID: consumerID}}
	fx.notifRepo.On("FindRecentByConsumer", mock.Anything, consumerID, 20, 0).Return(records, nil)

	got, err := fx.svc.NotificationHistory(context.Background(), consumerID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestNotifierService_SweepStale(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	vendor := activeVendor(4.2)
	consumerID := uuid.New()

	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor, inRange(vendor.ID, consumerID, 85)), nil).Once()
	_, err := fx.svc.ProcessVendor(ctx, vendor.ID)
	require.NoError(t, err)

	// The vendor position went stale: subsequent scans see no candidates.
	fx.proximity.On("ScanVendor", mock.Anything, vendor.ID).
		Return(fx.scanFor(vendor), nil)

	removed, err := fx.svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	require.Len(t, fx.events, 2)
	assert.Equal(t, entity.EventVendorDeparted, fx.events[1].Type)

	// The cooldown runs out and the pair settles into inactive.
	fx.clock = fx.clock.Add(15 * time.Minute)
	removed, err = fx.svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	// Once it has been settled past the retention window the record drops.
	fx.clock = fx.clock.Add(15 * time.Minute)
	removed, err = fx.svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, fx.svc.pairs.len())
	assert.Len(t, fx.events, 2)
}

func TestNotifierService_PublishFailureNotCounted(t *testing.T) {
	proximity := new(mockProximityUsecase)
	notifRepo := new(mockNotificationRepository)
	vendorRepo := new(mockVendorRepository)
	publisher := new(mockEventPublisher)

	svc := NewNotifierService(proximity, notifRepo, vendorRepo, publisher, testConfig(), testLogger()).(*notifierService)

	vendor := activeVendor(4.2)
	consumerID := uuid.New()
	scan := &usecase.VendorScan{
		Vendor:     vendor,
		Position:   positionAt(vendor.ID, entity.RoleVendor, 28.6139, 77.2090, time.Now()),
		Candidates: []*usecase.PairCandidate{inRange(vendor.ID, consumerID, 85)},
	}

	proximity.On("ScanVendor", mock.Anything, vendor.ID).Return(scan, nil)
	notifRepo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	vendorRepo.On("FindActiveProducts", mock.Anything, mock.Anything, mock.Anything).
		Return([]*entity.VendorProduct{}, nil)
	publisher.On("PublishProximityEvent", mock.Anything, mock.Anything).Return(assert.AnError)

	emitted, err := svc.ProcessVendor(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, emitted)
}
