package services

import (
	"errors"
	"testing"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/qrtoken"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *storage.MemoryStore
	lookup  *Lookup
	engine  *VerificationEngine
	now     time.Time
	driver  *models.Driver
	license *models.Document
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: storage.NewMemoryStore(), now: testNow}
	f.lookup = NewLookup(f.store, f.store)
	f.engine = NewVerificationEngine(f.lookup, NewAuditLogger(f.store), WithClock(func() time.Time { return f.now }))

	f.driver = f.addDriver(t, "DRV001QR", true)
	f.license = f.addDocument(t, f.driver.ID, models.DocumentTypeLicense, "LIC-001", testNow.AddDate(1, 0, 0))
	return f
}

func (f *fixture) addDriver(t *testing.T, qr string, active bool) *models.Driver {
	t.Helper()
	var code *string
	if qr != "" {
		code = &qr
	}
	d, err := f.store.CreateDriver(&models.Driver{FirstName: "Test", LastName: qr, QRCode: code, IsActive: active})
	require.NoError(t, err)
	return d
}

func (f *fixture) addDocument(t *testing.T, driverID string, typ models.DocumentType, number string, expiry time.Time) *models.Document {
	t.Helper()
	d, err := f.store.CreateDocument(&models.Document{
		DriverID:       driverID,
		Type:           typ,
		DocumentNumber: number,
		IssueDate:      expiry.AddDate(-5, 0, 0),
		ExpiryDate:     expiry,
	})
	require.NoError(t, err)
	return d
}

// token builds a payload issued at the given time
func token(t *testing.T, documentID, driverID string, issuedAt time.Time) string {
	t.Helper()
	codec := qrtoken.Codec{Now: func() time.Time { return issuedAt }}
	payload, _, err := codec.Encode(documentID, driverID, "nonce")
	require.NoError(t, err)
	return payload
}

func (f *fixture) logCount(t *testing.T) int64 {
	t.Helper()
	n, err := f.store.CountVerificationLogs(storage.VerificationLogFilter{})
	require.NoError(t, err)
	return n
}

type failingLogs struct {
	panics bool
}

func (l failingLogs) CreateVerificationLog(*models.VerificationLog) (*models.VerificationLog, error) {
	if l.panics {
		panic("connection reset")
	}
	return nil, errors.New("audit table unavailable")
}

func (failingLogs) GetVerificationLogs(storage.VerificationLogFilter, int) ([]*models.VerificationLog, error) {
	return nil, nil
}

func (failingLogs) CountVerificationLogs(storage.VerificationLogFilter) (int64, error) {
	return 0, nil
}

func (failingLogs) GetVerificationStats(storage.VerificationLogFilter) (*models.VerificationStats, error) {
	return &models.VerificationStats{}, nil
}

// brokenLookup fails every read the way an unreachable database would
type brokenLookup struct{}

var errDatabaseDown = errors.New("dial tcp: connection refused")

func (brokenLookup) FindDocument(string) (*models.Document, error)         { return nil, errDatabaseDown }
func (brokenLookup) FindDocumentByNumber(string) (*models.Document, error) { return nil, errDatabaseDown }
func (brokenLookup) FindDriver(string) (*models.Driver, error)             { return nil, errDatabaseDown }
func (brokenLookup) FindDriverByQRCode(string) (*models.Driver, error)     { return nil, errDatabaseDown }
