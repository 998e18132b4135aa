package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorProfileModel mirrors the 'vendor_profiles' table. UserID references users.id (UUID).
type VendorProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Phone     string    `gorm:"type:varchar(30)"`
	Rating    float64   `gorm:"type:decimal(3,2);not null;default:0"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Products []*VendorProductModel `gorm:"foreignKey:VendorID"`
}

// TableName explicitly sets the table name for GORM.
func (VendorProfileModel) TableName() string {
	return "vendor_profiles"
}

// VendorProductModel mirrors the 'vendor_products' table.
type VendorProductModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	VendorID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name              string    `gorm:"type:varchar(100);not null"`
	Category          string    `gorm:"type:varchar(50)"`
	Price             float64   `gorm:"type:decimal(10,2);not null;default:0"`
	Unit              string    `gorm:"type:varchar(20)"`
	AvailableQuantity int       `gorm:"not null;default:0"`
	IsActive          bool      `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (VendorProductModel) TableName() string {
	return "vendor_products"
}
