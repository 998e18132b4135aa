package entity

import (
	"time"

	"github.com/google/uuid"
)

// VendorProfile is the marketplace-facing identity of a vendor, read by the
// proximity pipeline for rating filters and event payloads.
type VendorProfile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Rating    float64   `json:"rating"` // average rating, 0..5
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VendorProduct is one item a vendor currently carries. A short list of
// product names rides along on vendor-nearby events.
type VendorProduct struct {
	ID                uuid.UUID `json:"id"`
	VendorID          uuid.UUID `json:"vendor_id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Price             float64   `json:"price"`
	Unit              string    `json:"unit"`
	AvailableQuantity int       `json:"available_quantity"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
