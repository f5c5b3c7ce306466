package storage

import (
	"errors"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
)

// ErrNotFound is returned when the requested row does not exist
var ErrNotFound = errors.New("not found")

// DocumentRepository defines document storage operations
type DocumentRepository interface {
	CreateDocument(doc *models.Document) (*models.Document, error)
	GetDocument(id string) (*models.Document, error)
	GetDocumentByNumber(documentNumber string) (*models.Document, error)
	// GetDocumentsByDriver returns the driver's documents, newest first
	GetDocumentsByDriver(driverID string) ([]*models.Document, error)
	// UpdateDocumentToken stores the latest issued token in one row update
	UpdateDocumentToken(id string, payload string, issuedAt time.Time) error
	UpdateDocumentStatus(id string, status models.DocumentStatus) error
	// MarkExpiredDocuments flips VALID documents whose expiry date is before now to EXPIRED
	MarkExpiredDocuments(now time.Time) (int64, error)
	// CountDocuments counts documents with the given status, or all when status is empty
	CountDocuments(status models.DocumentStatus) (int64, error)
}

// DriverRepository defines driver storage operations
type DriverRepository interface {
	CreateDriver(driver *models.Driver) (*models.Driver, error)
	GetDriver(id string) (*models.Driver, error)
	// GetDriverWithDocuments loads the driver with documents newest first
	GetDriverWithDocuments(id string) (*models.Driver, error)
	GetDriverByQRCode(qrCode string) (*models.Driver, error)
	SetDriverActive(id string, active bool) error
	CountActiveDrivers() (int64, error)
}

// VerificationLogFilter narrows verification log queries. Zero values match everything.
type VerificationLogFilter struct {
	OfficerID string
	DriverID  string
	Since     time.Time
	Until     time.Time
}

// VerificationLogRepository is append-only: there is no update or delete
type VerificationLogRepository interface {
	CreateVerificationLog(entry *models.VerificationLog) (*models.VerificationLog, error)
	// GetVerificationLogs returns matching logs newest first; limit <= 0 means no limit
	GetVerificationLogs(filter VerificationLogFilter, limit int) ([]*models.VerificationLog, error)
	CountVerificationLogs(filter VerificationLogFilter) (int64, error)
	GetVerificationStats(filter VerificationLogFilter) (*models.VerificationStats, error)
}

// Store defines the interface for all storage operations
type Store interface {
	DocumentRepository
	DriverRepository
	VerificationLogRepository
}

func (f VerificationLogFilter) matches(entry *models.VerificationLog) bool {
	if f.OfficerID != "" && (entry.OfficerID == nil || *entry.OfficerID != f.OfficerID) {
		return false
	}
	if f.DriverID != "" && entry.DriverID != f.DriverID {
		return false
	}
	if !f.Since.IsZero() && entry.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && entry.CreatedAt.After(f.Until) {
		return false
	}
	return true
}
