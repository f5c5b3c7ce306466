package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryStore holds all data in memory, for tests and local runs
type MemoryStore struct {
	drivers   map[string]*models.Driver
	documents map[string]*models.Document
	logs      []*models.VerificationLog

	// Mutexes for thread safety
	driverMu   sync.RWMutex
	documentMu sync.RWMutex
	logMu      sync.RWMutex

	now func() time.Time
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drivers:   make(map[string]*models.Driver),
		documents: make(map[string]*models.Document),
		now:       time.Now,
	}
}

// Driver operations
func (m *MemoryStore) CreateDriver(driver *models.Driver) (*models.Driver, error) {
	m.driverMu.Lock()
	defer m.driverMu.Unlock()

	if driver.ID == "" {
		driver.ID = uuid.NewString()
	}
	if _, exists := m.drivers[driver.ID]; exists {
		return nil, fmt.Errorf("driver %s already exists", driver.ID)
	}
	if driver.QRCode != nil {
		for _, d := range m.drivers {
			if d.QRCode != nil && *d.QRCode == *driver.QRCode {
				return nil, fmt.Errorf("driver qr code %s already in use", *driver.QRCode)
			}
		}
	}

	now := m.now()
	if driver.CreatedAt.IsZero() {
		driver.CreatedAt = now
	}
	driver.UpdatedAt = now

	stored := *driver
	stored.Documents = nil
	m.drivers[driver.ID] = &stored
	return copyDriver(&stored), nil
}

func (m *MemoryStore) GetDriver(id string) (*models.Driver, error) {
	m.driverMu.RLock()
	defer m.driverMu.RUnlock()

	driver, exists := m.drivers[id]
	if !exists {
		return nil, fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	return copyDriver(driver), nil
}

func (m *MemoryStore) GetDriverWithDocuments(id string) (*models.Driver, error) {
	driver, err := m.GetDriver(id)
	if err != nil {
		return nil, err
	}

	docs, err := m.GetDocumentsByDriver(id)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		driver.Documents = append(driver.Documents, *doc)
	}
	return driver, nil
}

func (m *MemoryStore) GetDriverByQRCode(qrCode string) (*models.Driver, error) {
	m.driverMu.RLock()
	var id string
	for _, d := range m.drivers {
		if d.QRCode != nil && *d.QRCode == qrCode {
			id = d.ID
			break
		}
	}
	m.driverMu.RUnlock()

	if id == "" {
		return nil, fmt.Errorf("driver with qr code %s: %w", qrCode, ErrNotFound)
	}
	return m.GetDriverWithDocuments(id)
}

func (m *MemoryStore) SetDriverActive(id string, active bool) error {
	m.driverMu.Lock()
	defer m.driverMu.Unlock()

	driver, exists := m.drivers[id]
	if !exists {
		return fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	driver.IsActive = active
	driver.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) CountActiveDrivers() (int64, error) {
	m.driverMu.RLock()
	defer m.driverMu.RUnlock()

	var count int64
	for _, d := range m.drivers {
		if d.IsActive {
			count++
		}
	}
	return count, nil
}

// Document operations
func (m *MemoryStore) CreateDocument(doc *models.Document) (*models.Document, error) {
	m.documentMu.Lock()
	defer m.documentMu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = models.DocumentStatusValid
	}
	for _, existing := range m.documents {
		if existing.DocumentNumber == doc.DocumentNumber {
			return nil, fmt.Errorf("document number %s already exists", doc.DocumentNumber)
		}
	}

	now := m.now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	stored := *doc
	m.documents[doc.ID] = &stored
	return copyDocument(&stored), nil
}

func (m *MemoryStore) GetDocument(id string) (*models.Document, error) {
	m.documentMu.RLock()
	defer m.documentMu.RUnlock()

	doc, exists := m.documents[id]
	if !exists {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return copyDocument(doc), nil
}

func (m *MemoryStore) GetDocumentByNumber(documentNumber string) (*models.Document, error) {
	m.documentMu.RLock()
	defer m.documentMu.RUnlock()

	for _, doc := range m.documents {
		if doc.DocumentNumber == documentNumber {
			return copyDocument(doc), nil
		}
	}
	return nil, fmt.Errorf("document number %s: %w", documentNumber, ErrNotFound)
}

func (m *MemoryStore) GetDocumentsByDriver(driverID string) ([]*models.Document, error) {
	m.documentMu.RLock()
	defer m.documentMu.RUnlock()

	var docs []*models.Document
	for _, doc := range m.documents {
		if doc.DriverID == driverID {
			docs = append(docs, copyDocument(doc))
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (m *MemoryStore) UpdateDocumentToken(id string, payload string, issuedAt time.Time) error {
	m.documentMu.Lock()
	defer m.documentMu.Unlock()

	doc, exists := m.documents[id]
	if !exists {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	p := payload
	t := issuedAt
	doc.QRCode = &p
	doc.LastTokenIssuedAt = &t
	doc.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) UpdateDocumentStatus(id string, status models.DocumentStatus) error {
	m.documentMu.Lock()
	defer m.documentMu.Unlock()

	doc, exists := m.documents[id]
	if !exists {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	doc.Status = status
	doc.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) MarkExpiredDocuments(now time.Time) (int64, error) {
	m.documentMu.Lock()
	defer m.documentMu.Unlock()

	var count int64
	for _, doc := range m.documents {
		if doc.Status == models.DocumentStatusValid && doc.ExpiryDate.Before(now) {
			doc.Status = models.DocumentStatusExpired
			doc.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountDocuments(status models.DocumentStatus) (int64, error) {
	m.documentMu.RLock()
	defer m.documentMu.RUnlock()

	var count int64
	for _, doc := range m.documents {
		if status == "" || doc.Status == status {
			count++
		}
	}
	return count, nil
}

// Verification log operations
func (m *MemoryStore) CreateVerificationLog(entry *models.VerificationLog) (*models.VerificationLog, error) {
	m.logMu.Lock()
	defer m.logMu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = m.now()
	}

	stored := *entry
	m.logs = append(m.logs, &stored)
	cp := stored
	return &cp, nil
}

func (m *MemoryStore) GetVerificationLogs(filter VerificationLogFilter, limit int) ([]*models.VerificationLog, error) {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	var result []*models.VerificationLog
	// logs are appended in creation order, so walk backwards for newest first
	for i := len(m.logs) - 1; i >= 0; i-- {
		if !filter.matches(m.logs[i]) {
			continue
		}
		cp := *m.logs[i]
		result = append(result, &cp)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MemoryStore) CountVerificationLogs(filter VerificationLogFilter) (int64, error) {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	var count int64
	for _, entry := range m.logs {
		if filter.matches(entry) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) GetVerificationStats(filter VerificationLogFilter) (*models.VerificationStats, error) {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	stats := &models.VerificationStats{}
	for _, entry := range m.logs {
		if filter.matches(entry) {
			stats.Add(entry.Result, 1)
		}
	}
	return stats, nil
}

func copyDriver(d *models.Driver) *models.Driver {
	cp := *d
	cp.Documents = nil
	return &cp
}

func copyDocument(d *models.Document) *models.Document {
	cp := *d
	if d.LastTokenIssuedAt != nil {
		t := *d.LastTokenIssuedAt
		cp.LastTokenIssuedAt = &t
	}
	return &cp
}
