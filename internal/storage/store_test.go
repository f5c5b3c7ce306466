package storage

import (
	"testing"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strPtr(s string) *string { return &s }

func newTestDatabaseStore(t *testing.T) *DatabaseStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Driver{}, &models.Document{}, &models.VerificationLog{}))
	return NewDatabaseStore(db)
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestDatabaseStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return newTestDatabaseStore(t) })
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, s Store) (*models.Driver, *models.Document, *models.Document) {
		driver, err := s.CreateDriver(&models.Driver{
			FirstName: "Amaka",
			LastName:  "Obi",
			QRCode:    strPtr("DRV001QR"),
			IsActive:  true,
		})
		require.NoError(t, err)

		insurance, err := s.CreateDocument(&models.Document{
			DriverID:       driver.ID,
			Type:           models.DocumentTypeInsurance,
			DocumentNumber: "INS-1",
			IssueDate:      base.AddDate(-1, 0, 0),
			ExpiryDate:     base.AddDate(1, 0, 0),
			CreatedAt:      base,
		})
		require.NoError(t, err)

		license, err := s.CreateDocument(&models.Document{
			DriverID:       driver.ID,
			Type:           models.DocumentTypeLicense,
			DocumentNumber: "LIC-1",
			IssueDate:      base.AddDate(-2, 0, 0),
			ExpiryDate:     base.AddDate(0, -1, 0),
			CreatedAt:      base.Add(time.Hour),
		})
		require.NoError(t, err)
		return driver, insurance, license
	}

	t.Run("documents", func(t *testing.T) {
		s := newStore(t)
		driver, insurance, license := seed(t, s)

		assert.NotEmpty(t, insurance.ID)
		assert.Equal(t, models.DocumentStatusValid, insurance.Status)

		got, err := s.GetDocument(insurance.ID)
		require.NoError(t, err)
		assert.Equal(t, "INS-1", got.DocumentNumber)
		assert.Equal(t, driver.ID, got.DriverID)

		got, err = s.GetDocumentByNumber("LIC-1")
		require.NoError(t, err)
		assert.Equal(t, license.ID, got.ID)

		docs, err := s.GetDocumentsByDriver(driver.ID)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, license.ID, docs[0].ID, "newest first")

		_, err = s.GetDocument("missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetDocumentByNumber("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("token update is visible on next read", func(t *testing.T) {
		s := newStore(t)
		_, insurance, _ := seed(t, s)

		issuedAt := base.Add(2 * time.Hour)
		require.NoError(t, s.UpdateDocumentToken(insurance.ID, `{"documentId":"x"}`, issuedAt))

		got, err := s.GetDocument(insurance.ID)
		require.NoError(t, err)
		require.NotNil(t, got.QRCode)
		assert.Equal(t, `{"documentId":"x"}`, *got.QRCode)
		require.NotNil(t, got.LastTokenIssuedAt)
		assert.True(t, issuedAt.Equal(*got.LastTokenIssuedAt))

		assert.ErrorIs(t, s.UpdateDocumentToken("missing", "p", issuedAt), ErrNotFound)
	})

	t.Run("expiry sweep", func(t *testing.T) {
		s := newStore(t)
		_, insurance, license := seed(t, s)

		n, err := s.MarkExpiredDocuments(base)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := s.GetDocument(license.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusExpired, got.Status)

		got, err = s.GetDocument(insurance.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusValid, got.Status)

		count, err := s.CountDocuments(models.DocumentStatusExpired)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		count, err = s.CountDocuments("")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("drivers", func(t *testing.T) {
		s := newStore(t)
		driver, _, license := seed(t, s)

		got, err := s.GetDriverWithDocuments(driver.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
		require.Len(t, got.Documents, 2)
		assert.Equal(t, license.ID, got.Documents[0].ID)

		got, err = s.GetDriverByQRCode("DRV001QR")
		require.NoError(t, err)
		assert.Equal(t, driver.ID, got.ID)
		assert.Len(t, got.Documents, 2)

		_, err = s.GetDriverByQRCode("nope")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.SetDriverActive(driver.ID, false))
		got, err = s.GetDriver(driver.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		active, err := s.CountActiveDrivers()
		require.NoError(t, err)
		assert.Equal(t, int64(0), active)

		assert.ErrorIs(t, s.SetDriverActive("missing", true), ErrNotFound)
	})

	t.Run("verification logs", func(t *testing.T) {
		s := newStore(t)
		driver, insurance, _ := seed(t, s)

		results := []models.VerificationResult{
			models.ResultValid, models.ResultExpired, models.ResultForged, models.ResultValid,
		}
		for i, result := range results {
			var officer *string
			if i%2 == 0 {
				officer = strPtr("officer-1")
			}
			_, err := s.CreateVerificationLog(&models.VerificationLog{
				OfficerID:  officer,
				DriverID:   driver.ID,
				DocumentID: strPtr(insurance.ID),
				Result:     result,
				CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}

		logs, err := s.GetVerificationLogs(VerificationLogFilter{OfficerID: "officer-1"}, 0)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, models.ResultForged, logs[0].Result, "newest first")

		logs, err = s.GetVerificationLogs(VerificationLogFilter{DriverID: driver.ID}, 3)
		require.NoError(t, err)
		assert.Len(t, logs, 3)

		count, err := s.CountVerificationLogs(VerificationLogFilter{Since: base.Add(2 * time.Minute)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		stats, err := s.GetVerificationStats(VerificationLogFilter{})
		require.NoError(t, err)
		assert.Equal(t, models.VerificationStats{Total: 4, Valid: 2, Expired: 1, Forged: 1}, *stats)
	})
}
