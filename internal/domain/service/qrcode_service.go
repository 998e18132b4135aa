package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for vendor follow QR codes. Consumers
// scan a vendor's code to start receiving proximity notifications for them.
type QRCodeService interface {
	// GenerateFollowQR generates a QR code image for following a vendor.
	GenerateFollowQR(vendorID uuid.UUID) ([]byte, error)

	// ParseFollowQR parses QR code data and returns the vendor ID.
	ParseFollowQR(qrData string) (uuid.UUID, error)
}
