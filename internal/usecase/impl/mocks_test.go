package impl

import (
	"context"
	"time"

	"farmradar/internal/domain/entity"
	"farmradar/internal/domain/service"
	"farmradar/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockPositionStore struct {
	mock.Mock
}

func (m *mockPositionStore) Upsert(ctx context.Context, pos *entity.Position) error {
	args := m.Called(ctx, pos)

	return args.Error(0)
}

func (m *mockPositionStore) Latest(ctx context.Context, entityID uuid.UUID) (*entity.Position, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Position), args.Error(1)
}

func (m *mockPositionStore) ActiveWithin(ctx context.Context, role entity.Role, lat, lon, radiusMeters float64) ([]*entity.Position, error) {
	args := m.Called(ctx, role, lat, lon, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Position), args.Error(1)
}

func (m *mockPositionStore) Compact(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	return args.Int(0), args.Error(1)
}

func (m *mockPositionStore) Remove(ctx context.Context, entityID uuid.UUID, role entity.Role) error {
	args := m.Called(ctx, entityID, role)

	return args.Error(0)
}

func (m *mockPositionStore) Staleness() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

type mockVendorRepository struct {
	mock.Mock
}

func (m *mockVendorRepository) FindVendorByID(ctx context.Context, vendorID uuid.UUID) (*entity.VendorProfile, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.VendorProfile), args.Error(1)
}

func (m *mockVendorRepository) FindVendorByUserID(ctx context.Context, userID uuid.UUID) (*entity.VendorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.VendorProfile), args.Error(1)
}

func (m *mockVendorRepository) FindActiveProducts(ctx context.Context, vendorID uuid.UUID, limit int) ([]*entity.VendorProduct, error) {
	args := m.Called(ctx, vendorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.VendorProduct), args.Error(1)
}

func (m *mockVendorRepository) CreateVendor(ctx context.Context, vendor *entity.VendorProfile) error {
	args := m.Called(ctx, vendor)

	return args.Error(0)
}

func (m *mockVendorRepository) UpdateVendor(ctx context.Context, vendor *entity.VendorProfile) error {
	args := m.Called(ctx, vendor)

	return args.Error(0)
}

type mockPreferenceRepository struct {
	mock.Mock
}

func (m *mockPreferenceRepository) FindByConsumer(ctx context.Context, consumerID uuid.UUID) (*entity.ConsumerPreferences, error) {
	args := m.Called(ctx, consumerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.ConsumerPreferences), args.Error(1)
}

func (m *mockPreferenceRepository) FindByConsumers(ctx context.Context, consumerIDs []uuid.UUID) (map[uuid.UUID]*entity.ConsumerPreferences, error) {
	args := m.Called(ctx, consumerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[uuid.UUID]*entity.ConsumerPreferences), args.Error(1)
}

func (m *mockPreferenceRepository) Upsert(ctx context.Context, prefs *entity.ConsumerPreferences) error {
	args := m.Called(ctx, prefs)

	return args.Error(0)
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) CreateNotification(ctx context.Context, notification *entity.ProximityNotification) error {
	args := m.Called(ctx, notification)

	return args.Error(0)
}

func (m *mockNotificationRepository) FindNotificationByID(ctx context.Context, id uuid.UUID) (*entity.ProximityNotification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.ProximityNotification), args.Error(1)
}

func (m *mockNotificationRepository) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)

	return args.Error(0)
}

func (m *mockNotificationRepository) MarkAcknowledged(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)

	return args.Error(0)
}

func (m *mockNotificationRepository) FindRecentByConsumer(ctx context.Context, consumerID uuid.UUID, limit, offset int) ([]*entity.ProximityNotification, error) {
	args := m.Called(ctx, consumerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.ProximityNotification), args.Error(1)
}

func (m *mockNotificationRepository) BatchCreateDeliveryLogs(ctx context.Context, logs []*entity.DeliveryLog) error {
	args := m.Called(ctx, logs)

	return args.Error(0)
}

type mockDeviceRepository struct {
	mock.Mock
}

func (m *mockDeviceRepository) UpsertDevice(ctx context.Context, device *entity.ConsumerDevice) error {
	args := m.Called(ctx, device)

	return args.Error(0)
}

func (m *mockDeviceRepository) FindDevicesByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entity.ConsumerDevice, error) {
	args := m.Called(ctx, consumerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.ConsumerDevice), args.Error(1)
}

func (m *mockDeviceRepository) FindDevicesForConsumers(ctx context.Context, consumerIDs []uuid.UUID) ([]*entity.ConsumerDevice, error) {
	args := m.Called(ctx, consumerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.ConsumerDevice), args.Error(1)
}

func (m *mockDeviceRepository) DeleteDevice(ctx context.Context, deviceID uuid.UUID) error {
	args := m.Called(ctx, deviceID)

	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishProximityEvent(ctx context.Context, event *service.ProximityEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *mockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateTokens(userID string, role string) (string, string, error) {
	args := m.Called(userID, role)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateToken(tokenString string, secret string) (*jwt.Token, error) {
	args := m.Called(tokenString, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*jwt.Token), args.Error(1)
}

func (m *mockTokenService) GetRefreshTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

type mockQRCodeService struct {
	mock.Mock
}

func (m *mockQRCodeService) GenerateFollowQR(vendorID uuid.UUID) ([]byte, error) {
	args := m.Called(vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockQRCodeService) ParseFollowQR(qrData string) (uuid.UUID, error) {
	args := m.Called(qrData)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

type mockProximityUsecase struct {
	mock.Mock
}

func (m *mockProximityUsecase) ScanVendor(ctx context.Context, vendorID uuid.UUID) (*usecase.VendorScan, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.VendorScan), args.Error(1)
}

func (m *mockProximityUsecase) ScanConsumer(ctx context.Context, consumerID uuid.UUID) ([]*usecase.VendorScan, error) {
	args := m.Called(ctx, consumerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*usecase.VendorScan), args.Error(1)
}

func (m *mockProximityUsecase) NearbyVendors(ctx context.Context, consumerID uuid.UUID, radiusMeters float64) ([]*usecase.NearbyVendor, error) {
	args := m.Called(ctx, consumerID, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*usecase.NearbyVendor), args.Error(1)
}

type mockNotifierUsecase struct {
	mock.Mock
}

func (m *mockNotifierUsecase) ProcessVendor(ctx context.Context, vendorID uuid.UUID) (int, error) {
	args := m.Called(ctx, vendorID)

	return args.Int(0), args.Error(1)
}

func (m *mockNotifierUsecase) ProcessConsumer(ctx context.Context, consumerID uuid.UUID) (int, error) {
	args := m.Called(ctx, consumerID)

	return args.Int(0), args.Error(1)
}

func (m *mockNotifierUsecase) Acknowledge(ctx context.Context, consumerID, notificationID uuid.UUID) error {
	args := m.Called(ctx, consumerID, notificationID)

	return args.Error(0)
}

func (m *mockNotifierUsecase) NotificationHistory(ctx context.Context, consumerID uuid.UUID, limit, offset int) ([]*entity.ProximityNotification, error) {
	args := m.Called(ctx, consumerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.ProximityNotification), args.Error(1)
}

func (m *mockNotifierUsecase) SweepStale(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	return args.Int(0), args.Error(1)
}
