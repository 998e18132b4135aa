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

// preferenceRepository implements the repository.PreferenceRepository interface.
type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository is the constructor for preferenceRepository.
func NewPreferenceRepository(db *gorm.DB) repository.PreferenceRepository {
	return &preferenceRepository{
		db: db,
	}
}

// FindByConsumer retrieves the stored preferences for a consumer.
func (repo *preferenceRepository) FindByConsumer(ctx context.Context, consumerID uuid.UUID) (*entity.ConsumerPreferences, error) {
	var prefM model.ConsumerPreferenceModel

	if err := repo.db.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		First(&prefM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPreferencesNotFound
		}

		return nil, errors.Wrap(err, "failed to find preferences by consumer")
	}

	return toPreferenceDomain(&prefM), nil
}

// FindByConsumers retrieves preferences for many consumers in one query.
// Consumers without a stored row are simply absent from the result map.
func (repo *preferenceRepository) FindByConsumers(ctx context.Context, consumerIDs []uuid.UUID) (map[uuid.UUID]*entity.ConsumerPreferences, error) {
	result := make(map[uuid.UUID]*entity.ConsumerPreferences, len(consumerIDs))
	if len(consumerIDs) == 0 {
		return result, nil
	}

	var prefModels []*model.ConsumerPreferenceModel

	if err := repo.db.WithContext(ctx).
		Where("consumer_id IN ?", consumerIDs).
		Find(&prefModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find preferences by consumers")
	}

	for _, prefM := range prefModels {
		result[prefM.ConsumerID] = toPreferenceDomain(prefM)
	}

	return result, nil
}

// Upsert creates or replaces the preferences row for a consumer.
func (repo *preferenceRepository) Upsert(ctx context.Context, prefs *entity.ConsumerPreferences) error {
	prefM := fromPreferenceDomain(prefs)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "consumer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled",
				"radius_meters",
				"quiet_hours_enabled",
				"quiet_hours_start",
				"quiet_hours_end",
				"minimum_rating",
				"do_not_disturb",
				"updated_at",
			}),
		}).
		Create(prefM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("unknown consumer reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert preferences")
	}

	prefs.UpdatedAt = prefM.UpdatedAt

	return nil
}

// --- Mapper Functions ---

// toPreferenceDomain converts a GORM ConsumerPreferenceModel to a domain ConsumerPreferences entity.
func toPreferenceDomain(data *model.ConsumerPreferenceModel) *entity.ConsumerPreferences {
	if data == nil {
		return nil
	}

	return &entity.ConsumerPreferences{
		ConsumerID:   data.ConsumerID,
		Enabled:      data.Enabled,
		RadiusMeters: data.RadiusMeters,
		QuietHours: entity.QuietHours{
			Enabled: data.QuietHoursEnabled,
			Start:   data.QuietHoursStart,
			End:     data.QuietHoursEnd,
		},
		MinimumRating: data.MinimumRating,
		DoNotDisturb:  data.DoNotDisturb,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromPreferenceDomain converts a domain ConsumerPreferences entity to a GORM ConsumerPreferenceModel.
func fromPreferenceDomain(data *entity.ConsumerPreferences) *model.ConsumerPreferenceModel {
	if data == nil {
		return nil
	}

	return &model.ConsumerPreferenceModel{
		ConsumerID:        data.ConsumerID,
		Enabled:           data.Enabled,
		RadiusMeters:      data.RadiusMeters,
		QuietHoursEnabled: data.QuietHours.Enabled,
		QuietHoursStart:   data.QuietHours.Start,
		QuietHoursEnd:     data.QuietHours.End,
		MinimumRating:     data.MinimumRating,
		DoNotDisturb:      data.DoNotDisturb,
		UpdatedAt:         data.UpdatedAt,
	}
}
