package usecase

import (
	"context"

	"farmradar/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateVendorInput represents the input for registering a vendor profile.
type CreateVendorInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// VendorUsecase manages vendor profiles and their follow QR codes.
type VendorUsecase interface {
	// GetVendor retrieves a vendor profile with its active products.
	GetVendor(ctx context.Context, vendorID uuid.UUID) (*entity.VendorProfile, []*entity.VendorProduct, error)

	// GetVendorByUser retrieves the vendor profile owned by a user account.
	GetVendorByUser(ctx context.Context, userID uuid.UUID) (*entity.VendorProfile, error)

	// CreateVendor registers a vendor profile for a user account.
	CreateVendor(ctx context.Context, userID uuid.UUID, input *CreateVendorInput) (*entity.VendorProfile, error)

	// GenerateFollowQR renders the PNG QR code consumers scan to follow a vendor.
	GenerateFollowQR(ctx context.Context, vendorID uuid.UUID) ([]byte, error)

	// ResolveFollowQR parses scanned QR data and returns the vendor it points at.
	ResolveFollowQR(ctx context.Context, qrData string) (*entity.VendorProfile, error)
}
