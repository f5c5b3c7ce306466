package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationResult is the classification of one verification attempt
type VerificationResult string

const (
	ResultValid   VerificationResult = "VALID"
	ResultInvalid VerificationResult = "INVALID"
	ResultExpired VerificationResult = "EXPIRED"
	ResultForged  VerificationResult = "FORGED"
)

// VerificationLog is the append-only audit record of a verification attempt.
// OfficerID is nil for self-service checks; DocumentID is nil when the token
// could not name one.
type VerificationLog struct {
	ID         string             `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OfficerID  *string            `json:"officerId" gorm:"index;type:varchar(64)"`
	DriverID   string             `json:"driverId" gorm:"index;type:varchar(64)"`
	DocumentID *string            `json:"documentId,omitempty" gorm:"index;type:varchar(64)"`
	Result     VerificationResult `json:"result" gorm:"type:varchar(10);not null"`
	Location   string             `json:"location,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	IPAddress  string             `json:"ipAddress,omitempty"`
	UserAgent  string             `json:"userAgent,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" gorm:"index"`
}

func (v *VerificationLog) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// VerificationStats counts verification attempts per result
type VerificationStats struct {
	Total   int64 `json:"total"`
	Valid   int64 `json:"valid"`
	Invalid int64 `json:"invalid"`
	Expired int64 `json:"expired"`
	Forged  int64 `json:"forged"`
}

// Add counts one result
func (s *VerificationStats) Add(result VerificationResult, n int64) {
	s.Total += n
	switch result {
	case ResultValid:
		s.Valid += n
	case ResultInvalid:
		s.Invalid += n
	case ResultExpired:
		s.Expired += n
	case ResultForged:
		s.Forged += n
	}
}
