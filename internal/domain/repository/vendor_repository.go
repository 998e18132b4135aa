package repository

import (
	"context"

	"farmradar/internal/domain/entity"
	"farmradar/internal/errors"

	"github.com/google/uuid"
)

// ErrVendorNotFound is returned when a vendor profile does not exist.
var ErrVendorNotFound = errors.New("vendor not found")

// VendorRepository persists vendor profiles and their product lists.
type VendorRepository interface {
	// FindVendorByID retrieves a vendor profile by its ID.
	FindVendorByID(ctx context.Context, vendorID uuid.UUID) (*entity.VendorProfile, error)

	// FindVendorByUserID retrieves the vendor profile owned by a user account.
	FindVendorByUserID(ctx context.Context, userID uuid.UUID) (*entity.VendorProfile, error)

	// FindActiveProducts returns up to limit active, in-stock products for a vendor.
	FindActiveProducts(ctx context.Context, vendorID uuid.UUID, limit int) ([]*entity.VendorProduct, error)

	// CreateVendor persists a new vendor profile.
	CreateVendor(ctx context.Context, vendor *entity.VendorProfile) error

	// UpdateVendor updates an existing vendor profile.
	UpdateVendor(ctx context.Context, vendor *entity.VendorProfile) error
}
