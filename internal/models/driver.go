package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Driver is a registered driver whose documents can be checked at the roadside
type Driver struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FirstName   string  `json:"firstName" gorm:"not null"`
	LastName    string  `json:"lastName" gorm:"not null"`
	PhoneNumber string  `json:"phoneNumber" gorm:"index"`
	QRCode      *string `json:"qrCode,omitempty" gorm:"uniqueIndex"` // static identifier printed on the driver card
	IsActive    bool    `json:"isActive" gorm:"not null"`

	Documents []Document `json:"documents,omitempty" gorm:"foreignKey:DriverID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the driver ID and normalizes the phone number
func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.PhoneNumber = strings.ReplaceAll(d.PhoneNumber, " ", "")
	return nil
}

// FullName returns "First Last"
func (d *Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// WithoutDocuments returns a shallow copy with the document list dropped,
// used when the driver is attached next to a single document in a response.
func (d *Driver) WithoutDocuments() *Driver {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Documents = nil
	return &cp
}
