package repository

import (
	"context"

	"farmradar/internal/domain/entity"
	"farmradar/internal/errors"

	"github.com/google/uuid"
)

// ErrDeviceNotFound is returned when a device registration does not exist.
var ErrDeviceNotFound = errors.New("device not found")

// DeviceRepository persists consumer device registrations for push delivery.
type DeviceRepository interface {
	// UpsertDevice registers a device or refreshes its FCM token.
	UpsertDevice(ctx context.Context, device *entity.ConsumerDevice) error

	// FindDevicesByConsumer retrieves all active devices for a consumer.
	FindDevicesByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entity.ConsumerDevice, error)

	// FindDevicesForConsumers retrieves all active devices for many consumers.
	FindDevicesForConsumers(ctx context.Context, consumerIDs []uuid.UUID) ([]*entity.ConsumerDevice, error)

	// DeleteDevice soft-deletes a device, e.g. after its token is rejected.
	DeleteDevice(ctx context.Context, deviceID uuid.UUID) error
}
