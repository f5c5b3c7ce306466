package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"gorm.io/gorm"
)

// DatabaseStore implements Store on top of gorm
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by an open gorm connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// Driver operations
func (s *DatabaseStore) CreateDriver(driver *models.Driver) (*models.Driver, error) {
	if err := s.db.Omit("Documents").Create(driver).Error; err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	return driver, nil
}

func (s *DatabaseStore) GetDriver(id string) (*models.Driver, error) {
	var driver models.Driver
	if err := s.db.Where("id = ?", id).First(&driver).Error; err != nil {
		return nil, notFound(err, "driver "+id)
	}
	return &driver, nil
}

func (s *DatabaseStore) GetDriverWithDocuments(id string) (*models.Driver, error) {
	var driver models.Driver
	err := s.db.Preload("Documents", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Where("id = ?", id).First(&driver).Error
	if err != nil {
		return nil, notFound(err, "driver "+id)
	}
	return &driver, nil
}

func (s *DatabaseStore) GetDriverByQRCode(qrCode string) (*models.Driver, error) {
	var driver models.Driver
	err := s.db.Preload("Documents", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Where("qr_code = ?", qrCode).First(&driver).Error
	if err != nil {
		return nil, notFound(err, "driver with qr code "+qrCode)
	}
	return &driver, nil
}

func (s *DatabaseStore) SetDriverActive(id string, active bool) error {
	result := s.db.Model(&models.Driver{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update driver %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *DatabaseStore) CountActiveDrivers() (int64, error) {
	var count int64
	err := s.db.Model(&models.Driver{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// Document operations
func (s *DatabaseStore) CreateDocument(doc *models.Document) (*models.Document, error) {
	if err := s.db.Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

func (s *DatabaseStore) GetDocument(id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, notFound(err, "document "+id)
	}
	return &doc, nil
}

func (s *DatabaseStore) GetDocumentByNumber(documentNumber string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Where("document_number = ?", documentNumber).First(&doc).Error; err != nil {
		return nil, notFound(err, "document number "+documentNumber)
	}
	return &doc, nil
}

func (s *DatabaseStore) GetDocumentsByDriver(driverID string) ([]*models.Document, error) {
	var docs []*models.Document
	err := s.db.Where("driver_id = ?", driverID).Order("created_at DESC").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load documents for driver %s: %w", driverID, err)
	}
	return docs, nil
}

// UpdateDocumentToken writes both token columns in a single UPDATE statement
func (s *DatabaseStore) UpdateDocumentToken(id string, payload string, issuedAt time.Time) error {
	result := s.db.Model(&models.Document{}).Where("id = ?", id).Updates(map[string]interface{}{
		"qr_code":              payload,
		"last_token_issued_at": issuedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to store token for document %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *DatabaseStore) UpdateDocumentStatus(id string, status models.DocumentStatus) error {
	result := s.db.Model(&models.Document{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update document %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *DatabaseStore) MarkExpiredDocuments(now time.Time) (int64, error) {
	result := s.db.Model(&models.Document{}).
		Where("status = ? AND expiry_date < ?", models.DocumentStatusValid, now).
		Update("status", models.DocumentStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark expired documents: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *DatabaseStore) CountDocuments(status models.DocumentStatus) (int64, error) {
	var count int64
	query := s.db.Model(&models.Document{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// Verification log operations
func (s *DatabaseStore) CreateVerificationLog(entry *models.VerificationLog) (*models.VerificationLog, error) {
	if err := s.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification log: %w", err)
	}
	return entry, nil
}

func (s *DatabaseStore) filtered(filter VerificationLogFilter) *gorm.DB {
	query := s.db.Model(&models.VerificationLog{})
	if filter.OfficerID != "" {
		query = query.Where("officer_id = ?", filter.OfficerID)
	}
	if filter.DriverID != "" {
		query = query.Where("driver_id = ?", filter.DriverID)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("created_at <= ?", filter.Until)
	}
	return query
}

func (s *DatabaseStore) GetVerificationLogs(filter VerificationLogFilter, limit int) ([]*models.VerificationLog, error) {
	var logs []*models.VerificationLog
	query := s.filtered(filter).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load verification logs: %w", err)
	}
	return logs, nil
}

func (s *DatabaseStore) CountVerificationLogs(filter VerificationLogFilter) (int64, error) {
	var count int64
	err := s.filtered(filter).Count(&count).Error
	return count, err
}

func (s *DatabaseStore) GetVerificationStats(filter VerificationLogFilter) (*models.VerificationStats, error) {
	var rows []struct {
		Result models.VerificationResult
		Count  int64
	}
	err := s.filtered(filter).Select("result, COUNT(*) AS count").Group("result").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count verification logs: %w", err)
	}

	stats := &models.VerificationStats{}
	for _, row := range rows {
		stats.Add(row.Result, row.Count)
	}
	return stats, nil
}
