package postgres

import (
	"context"
	"time"

	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// notificationRepository implements the repository.NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// CreateNotification inserts a new notification record. The primary key is
// the idempotency key, so inserting the same transition twice returns
// ErrDuplicateNotification instead of a second row.
func (repo *notificationRepository) CreateNotification(ctx context.Context, notification *entity.ProximityNotification) error {
	notificationM := fromNotificationDomain(notification)

	if err := repo.db.WithContext(ctx).Create(notificationM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateNotification
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create notification")
	}

	notification.CreatedAt = notificationM.CreatedAt

	return nil
}

// FindNotificationByID retrieves a notification by its idempotency key.
func (repo *notificationRepository) FindNotificationByID(ctx context.Context, id uuid.UUID) (*entity.ProximityNotification, error) {
	var notificationM model.ProximityNotificationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&notificationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotificationNotFound
		}

		return nil, errors.Wrap(err, "failed to find notification by ID")
	}

	return toNotificationDomain(&notificationM), nil
}

// MarkDelivered stamps the first successful delivery. The WHERE clause skips
// rows already stamped, so redelivery is a no-op rather than an error.
func (repo *notificationRepository) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProximityNotificationModel{}).
		Where("id = ? AND delivered_at IS NULL", id).
		Update("delivered_at", at)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark notification delivered")
	}

	return nil
}

// MarkAcknowledged stamps the consumer's dismissal of a notification.
func (repo *notificationRepository) MarkAcknowledged(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProximityNotificationModel{}).
		Where("id = ?", id).
		Update("acknowledged_at", at)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark notification acknowledged")
	}

	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

// FindRecentByConsumer lists a consumer's notifications, newest first.
func (repo *notificationRepository) FindRecentByConsumer(ctx context.Context, consumerID uuid.UUID, limit, offset int) ([]*entity.ProximityNotification, error) {
	var notificationModels []*model.ProximityNotificationModel

	query := repo.db.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notificationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find notifications by consumer")
	}

	notifications := make([]*entity.ProximityNotification, 0, len(notificationModels))
	for _, notificationM := range notificationModels {
		notifications = append(notifications, toNotificationDomain(notificationM))
	}

	return notifications, nil
}

// BatchCreateDeliveryLogs records per-device delivery outcomes in one insert.
func (repo *notificationRepository) BatchCreateDeliveryLogs(ctx context.Context, logs []*entity.DeliveryLog) error {
	if len(logs) == 0 {
		return nil
	}

	logModels := make([]*model.DeliveryLogModel, 0, len(logs))
	for _, logEntry := range logs {
		logModels = append(logModels, fromDeliveryLogDomain(logEntry))
	}

	if err := repo.db.WithContext(ctx).Create(&logModels).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create delivery logs")
	}

	return nil
}

// --- Mapper Functions ---

// toNotificationDomain converts a GORM ProximityNotificationModel to a domain ProximityNotification entity.
func toNotificationDomain(data *model.ProximityNotificationModel) *entity.ProximityNotification {
	if data == nil {
		return nil
	}

	return &entity.ProximityNotification{
		ID:             data.ID,
		VendorID:       data.VendorID,
		ConsumerID:     data.ConsumerID,
		Kind:           entity.EventKind(data.Kind),
		DistanceMeters: data.DistanceMeters,
		Seq:            data.Seq,
		DeliveredAt:    data.DeliveredAt,
		AcknowledgedAt: data.AcknowledgedAt,
		CreatedAt:      data.CreatedAt,
	}
}

// fromNotificationDomain converts a domain ProximityNotification entity to a GORM ProximityNotificationModel.
func fromNotificationDomain(data *entity.ProximityNotification) *model.ProximityNotificationModel {
	if data == nil {
		return nil
	}

	return &model.ProximityNotificationModel{
		ID:             data.ID,
		VendorID:       data.VendorID,
		ConsumerID:     data.ConsumerID,
		Kind:           string(data.Kind),
		DistanceMeters: data.DistanceMeters,
		Seq:            data.Seq,
		DeliveredAt:    data.DeliveredAt,
		AcknowledgedAt: data.AcknowledgedAt,
		CreatedAt:      data.CreatedAt,
	}
}

// fromDeliveryLogDomain converts a domain DeliveryLog entity to a GORM DeliveryLogModel.
func fromDeliveryLogDomain(data *entity.DeliveryLog) *model.DeliveryLogModel {
	if data == nil {
		return nil
	}

	return &model.DeliveryLogModel{
		ID:             data.ID,
		NotificationID: data.NotificationID,
		ConsumerID:     data.ConsumerID,
		DeviceID:       data.DeviceID,
		Status:         data.Status,
		ErrorMessage:   data.ErrorMessage,
		SentAt:         data.SentAt,
	}
}
