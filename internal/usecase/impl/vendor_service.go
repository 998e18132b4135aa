package impl

import (
	"context"

	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/domain/service"
	"farmradar/internal/errors"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
)

const vendorProductLimit = 50

type vendorService struct {
	vendorRepo repository.VendorRepository
	qrcodeSvc  service.QRCodeService
}

// NewVendorService creates the vendor profile service.
func NewVendorService(
	vendorRepo repository.VendorRepository,
	qrcodeSvc service.QRCodeService,
) usecase.VendorUsecase {
	return &vendorService{
		vendorRepo: vendorRepo,
		qrcodeSvc:  qrcodeSvc,
	}
}

// GetVendor retrieves a vendor profile with its active products.
func (s *vendorService) GetVendor(ctx context.Context, vendorID uuid.UUID) (*entity.VendorProfile, []*entity.VendorProduct, error) {
	vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, nil, domainerrors.ErrVendorNotFound
		}

		return nil, nil, err
	}

	products, err := s.vendorRepo.FindActiveProducts(ctx, vendorID, vendorProductLimit)
	if err != nil {
		return nil, nil, err
	}

	return vendor, products, nil
}

// GetVendorByUser retrieves the vendor profile owned by a user account.
func (s *vendorService) GetVendorByUser(ctx context.Context, userID uuid.UUID) (*entity.VendorProfile, error) {
	vendor, err := s.vendorRepo.FindVendorByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, domainerrors.ErrVendorNotFound
		}

		return nil, err
	}

	return vendor, nil
}

// CreateVendor registers a vendor profile for a user account.
func (s *vendorService) CreateVendor(ctx context.Context, userID uuid.UUID, input *usecase.CreateVendorInput) (*entity.VendorProfile, error) {
	vendor := &entity.VendorProfile{
		UserID:   userID,
		Name:     input.Name,
		Phone:    input.Phone,
		IsActive: true,
	}

	if err := s.vendorRepo.CreateVendor(ctx, vendor); err != nil {
		return nil, err
	}

	return vendor, nil
}

// GenerateFollowQR renders the PNG QR code consumers scan to follow a vendor.
func (s *vendorService) GenerateFollowQR(ctx context.Context, vendorID uuid.UUID) ([]byte, error) {
	vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, domainerrors.ErrVendorNotFound
		}

		return nil, err
	}
	if !vendor.IsActive {
		return nil, domainerrors.ErrVendorInactive
	}

	return s.qrcodeSvc.GenerateFollowQR(vendorID)
}

// ResolveFollowQR parses scanned QR data and returns the vendor it points at.
func (s *vendorService) ResolveFollowQR(ctx context.Context, qrData string) (*entity.VendorProfile, error) {
	vendorID, err := s.qrcodeSvc.ParseFollowQR(qrData)
	if err != nil {
		return nil, domainerrors.ErrVendorNotFound.WrapMessage("invalid follow code")
	}

	vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, domainerrors.ErrVendorNotFound
		}

		return nil, err
	}

	return vendor, nil
}
