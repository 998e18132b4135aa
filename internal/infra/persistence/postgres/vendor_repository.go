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
)

// vendorRepository implements the repository.VendorRepository interface.
type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository is the constructor for vendorRepository.
func NewVendorRepository(db *gorm.DB) repository.VendorRepository {
	return &vendorRepository{
		db: db,
	}
}

// FindVendorByID retrieves a vendor profile by its unique ID.
func (repo *vendorRepository) FindVendorByID(ctx context.Context, vendorID uuid.UUID) (*entity.VendorProfile, error) {
	var vendorM model.VendorProfileModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", vendorID).
		First(&vendorM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVendorNotFound
		}

		return nil, errors.Wrap(err, "failed to find vendor by ID")
	}

	return toVendorDomain(&vendorM), nil
}

// FindVendorByUserID retrieves the vendor profile owned by a user account.
func (repo *vendorRepository) FindVendorByUserID(ctx context.Context, userID uuid.UUID) (*entity.VendorProfile, error) {
	var vendorM model.VendorProfileModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&vendorM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVendorNotFound
		}

		return nil, errors.Wrap(err, "failed to find vendor by user ID")
	}

	return toVendorDomain(&vendorM), nil
}

// FindActiveProducts returns up to limit active, in-stock products for a vendor.
func (repo *vendorRepository) FindActiveProducts(ctx context.Context, vendorID uuid.UUID, limit int) ([]*entity.VendorProduct, error) {
	var productModels []*model.VendorProductModel

	query := repo.db.WithContext(ctx).
		Where("vendor_id = ? AND is_active = ? AND available_quantity > 0", vendorID, true).
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active products")
	}

	products := make([]*entity.VendorProduct, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

// CreateVendor persists a new vendor profile.
func (repo *vendorRepository) CreateVendor(ctx context.Context, vendor *entity.VendorProfile) error {
	vendorM := fromVendorDomain(vendor)

	if err := repo.db.WithContext(ctx).Create(vendorM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("unknown user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrDatabaseExecute.WrapMessage("missing required vendor information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create vendor")
	}

	// Update the entity with generated values
	vendor.ID = vendorM.ID
	vendor.CreatedAt = vendorM.CreatedAt
	vendor.UpdatedAt = vendorM.UpdatedAt

	return nil
}

// UpdateVendor updates an existing vendor profile.
func (repo *vendorRepository) UpdateVendor(ctx context.Context, vendor *entity.VendorProfile) error {
	result := repo.db.WithContext(ctx).
		Model(&model.VendorProfileModel{}).
		Where("id = ?", vendor.ID).
		Updates(map[string]any{
			"name":      vendor.Name,
			"phone":     vendor.Phone,
			"rating":    vendor.Rating,
			"is_active": vendor.IsActive,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update vendor")
	}

	if result.RowsAffected == 0 {
		return repository.ErrVendorNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toVendorDomain converts a GORM VendorProfileModel to a domain VendorProfile entity.
func toVendorDomain(data *model.VendorProfileModel) *entity.VendorProfile {
	if data == nil {
		return nil
	}

	return &entity.VendorProfile{
		ID:        data.ID,
		UserID:    data.UserID,
		Name:      data.Name,
		Phone:     data.Phone,
		Rating:    data.Rating,
		IsActive:  data.IsActive,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromVendorDomain converts a domain VendorProfile entity to a GORM VendorProfileModel.
func fromVendorDomain(data *entity.VendorProfile) *model.VendorProfileModel {
	if data == nil {
		return nil
	}

	return &model.VendorProfileModel{
		ID:       data.ID,
		UserID:   data.UserID,
		Name:     data.Name,
		Phone:    data.Phone,
		Rating:   data.Rating,
		IsActive: data.IsActive,
	}
}

// toProductDomain converts a GORM VendorProductModel to a domain VendorProduct entity.
func toProductDomain(data *model.VendorProductModel) *entity.VendorProduct {
	if data == nil {
		return nil
	}

	return &entity.VendorProduct{
		ID:                data.ID,
		VendorID:          data.VendorID,
		Name:              data.Name,
		Category:          data.Category,
		Price:             data.Price,
		Unit:              data.Unit,
		AvailableQuantity: data.AvailableQuantity,
		IsActive:          data.IsActive,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}
