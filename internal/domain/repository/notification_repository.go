package repository

import (
	"context"
	"time"

	"farmradar/internal/domain/entity"
	"farmradar/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for notification persistence.
var (
	// ErrNotificationNotFound is returned when a notification record is not found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrDuplicateNotification is returned when the idempotency key already exists.
	ErrDuplicateNotification = errors.New("notification already recorded")
)

// NotificationRepository persists emitted transition events and their
// delivery outcomes. The primary key is the deterministic idempotency key,
// so recording the same transition twice yields ErrDuplicateNotification.
type NotificationRepository interface {
	// CreateNotification inserts a new notification record.
	CreateNotification(ctx context.Context, notification *entity.ProximityNotification) error

	// FindNotificationByID retrieves a notification by its idempotency key.
	FindNotificationByID(ctx context.Context, id uuid.UUID) (*entity.ProximityNotification, error)

	// MarkDelivered stamps the first successful delivery. Subsequent calls
	// are no-ops, keeping redelivery idempotent.
	MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error

	// MarkAcknowledged stamps the consumer's dismissal.
	MarkAcknowledged(ctx context.Context, id uuid.UUID, at time.Time) error

	// FindRecentByConsumer lists a consumer's notifications, newest first.
	FindRecentByConsumer(ctx context.Context, consumerID uuid.UUID, limit, offset int) ([]*entity.ProximityNotification, error)

	// BatchCreateDeliveryLogs records per-device delivery outcomes.
	BatchCreateDeliveryLogs(ctx context.Context, logs []*entity.DeliveryLog) error
}
