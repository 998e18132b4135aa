package postgres

import (
	"context"

	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deviceRepository implements the repository.DeviceRepository interface.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository is the constructor for deviceRepository.
func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{
		db: db,
	}
}

// UpsertDevice registers a device or refreshes its FCM token when the
// (consumer, device) pair already exists.
func (repo *deviceRepository) UpsertDevice(ctx context.Context, device *entity.ConsumerDevice) error {
	deviceM := fromDeviceDomain(device)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "consumer_id"}, {Name: "device_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"fcm_token",
				"platform",
				"is_active",
				"updated_at",
			}),
		}).
		Create(deviceM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("unknown consumer reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert device")
	}

	// Update the entity with generated values
	device.ID = deviceM.ID
	device.CreatedAt = deviceM.CreatedAt
	device.UpdatedAt = deviceM.UpdatedAt

	return nil
}

// FindDevicesByConsumer retrieves all active devices for a consumer.
func (repo *deviceRepository) FindDevicesByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entity.ConsumerDevice, error) {
	var deviceModels []*model.ConsumerDeviceModel

	if err := repo.db.WithContext(ctx).
		Where("consumer_id = ? AND is_active = ?", consumerID, true).
		Order("created_at DESC").
		Find(&deviceModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find devices by consumer")
	}

	devices := make([]*entity.ConsumerDevice, 0, len(deviceModels))
	for _, deviceM := range deviceModels {
		devices = append(devices, toDeviceDomain(deviceM))
	}

	return devices, nil
}

// FindDevicesForConsumers retrieves all active devices for a list of consumers.
func (repo *deviceRepository) FindDevicesForConsumers(ctx context.Context, consumerIDs []uuid.UUID) ([]*entity.ConsumerDevice, error) {
	if len(consumerIDs) == 0 {
		return []*entity.ConsumerDevice{}, nil
	}

	var deviceModels []*model.ConsumerDeviceModel

	if err := repo.db.WithContext(ctx).
		Where("consumer_id IN ? AND is_active = ?", consumerIDs, true).
		Order("created_at DESC").
		Find(&deviceModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find devices for consumers")
	}

	devices := make([]*entity.ConsumerDevice, 0, len(deviceModels))
	for _, deviceM := range deviceModels {
		devices = append(devices, toDeviceDomain(deviceM))
	}

	return devices, nil
}

// DeleteDevice removes a device by its ID (soft delete).
func (repo *deviceRepository) DeleteDevice(ctx context.Context, deviceID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", deviceID).
		Delete(&model.ConsumerDeviceModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete device")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toDeviceDomain converts a GORM ConsumerDeviceModel to a domain ConsumerDevice entity.
func toDeviceDomain(data *model.ConsumerDeviceModel) *entity.ConsumerDevice {
	if data == nil {
		return nil
	}

	return &entity.ConsumerDevice{
		ID:         data.ID,
		ConsumerID: data.ConsumerID,
		FCMToken:   data.FCMToken,
		DeviceID:   data.DeviceID,
		Platform:   data.Platform,
		IsActive:   data.IsActive,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromDeviceDomain converts a domain ConsumerDevice entity to a GORM ConsumerDeviceModel.
func fromDeviceDomain(data *entity.ConsumerDevice) *model.ConsumerDeviceModel {
	if data == nil {
		return nil
	}

	return &model.ConsumerDeviceModel{
		ID:         data.ID,
		ConsumerID: data.ConsumerID,
		FCMToken:   data.FCMToken,
		DeviceID:   data.DeviceID,
		Platform:   data.Platform,
		IsActive:   data.IsActive,
	}
}
