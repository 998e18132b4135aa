// Package qrcode renders and parses the follow codes vendors print at
// their stalls.
package qrcode

import (
	"encoding/json"

	"farmradar/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const followQRType = "follow"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData is the JSON payload encoded into a follow QR image.
type QRCodeData struct {
	VendorID string `json:"vendor_id"`
	Type     string `json:"type"`
}

// NewQRCodeService creates a QR service rendering images of the given
// pixel size. Unknown correction levels fall back to Medium.
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	level := qrcode.Medium
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateFollowQR renders the PNG consumers scan to follow a vendor.
func (s *qrcodeService) GenerateFollowQR(vendorID uuid.UUID) ([]byte, error) {
	jsonData, err := json.Marshal(QRCodeData{
		VendorID: vendorID.String(),
		Type:     followQRType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseFollowQR decodes a scanned payload back into the vendor ID.
func (s *qrcodeService) ParseFollowQR(qrData string) (uuid.UUID, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to unmarshal QR code data")
	}

	if data.Type != followQRType {
		return uuid.Nil, errors.Errorf("invalid QR code type: %s", data.Type)
	}

	vendorID, err := uuid.Parse(data.VendorID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse vendor ID")
	}

	return vendorID, nil
}
