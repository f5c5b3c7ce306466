package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentType string

type DocumentStatus string

const (
	DocumentTypeLicense      DocumentType = "LICENSE"
	DocumentTypeInsurance    DocumentType = "INSURANCE"
	DocumentTypeRegistration DocumentType = "REGISTRATION"

	DocumentStatusValid     DocumentStatus = "VALID"
	DocumentStatusExpired   DocumentStatus = "EXPIRED"
	DocumentStatusSuspended DocumentStatus = "SUSPENDED"
	DocumentStatusRevoked   DocumentStatus = "REVOKED"
)

// Document is a driver credential (license, insurance, registration).
// Status is maintained by the expiry sweep and by admin action, so it can lag
// behind ExpiryDate.
type Document struct {
	ID               string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DriverID         string         `json:"driverId" gorm:"index;not null;type:varchar(36)"`
	Type             DocumentType   `json:"type" gorm:"type:varchar(20);not null"`
	DocumentNumber   string         `json:"documentNumber" gorm:"uniqueIndex;not null"`
	IssuingAuthority string         `json:"issuingAuthority"`
	IssueDate        time.Time      `json:"issueDate"`
	ExpiryDate       time.Time      `json:"expiryDate" gorm:"index"`
	Status           DocumentStatus `json:"status" gorm:"type:varchar(20);default:'VALID'"`

	// Latest token payload handed out for this document
	QRCode            *string    `json:"qrCode,omitempty"`
	LastTokenIssuedAt *time.Time `json:"lastTokenIssuedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the document ID and default status
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = DocumentStatusValid
	}
	return nil
}

// ExpiredAt reports whether the expiry date has passed at now, whatever Status says
func (d *Document) ExpiredAt(now time.Time) bool {
	return d.ExpiryDate.Before(now)
}

// IsWithdrawn reports an administrative suspension or revocation
func (d *Document) IsWithdrawn() bool {
	return d.Status == DocumentStatusSuspended || d.Status == DocumentStatusRevoked
}

// IsKnown reports whether s is one of the defined document statuses
func (s DocumentStatus) IsKnown() bool {
	switch s {
	case DocumentStatusValid, DocumentStatusExpired, DocumentStatusSuspended, DocumentStatusRevoked:
		return true
	}
	return false
}
