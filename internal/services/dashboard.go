package services

import (
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
)

const defaultHistoryLimit = 50

// DashboardService serves counts and history for officers and admins
type DashboardService struct {
	store storage.Store
	now   func() time.Time
}

func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// Summary returns dashboard counts. With an officer ID the verification
// figures are limited to that officer.
func (s *DashboardService) Summary(officerID string) (*models.DashboardSummary, error) {
	var (
		summary models.DashboardSummary
		err     error
	)

	if summary.ActiveDrivers, err = s.store.CountActiveDrivers(); err != nil {
		return nil, err
	}
	if summary.TotalDocuments, err = s.store.CountDocuments(""); err != nil {
		return nil, err
	}
	if summary.ValidDocuments, err = s.store.CountDocuments(models.DocumentStatusValid); err != nil {
		return nil, err
	}
	if summary.ExpiredDocuments, err = s.store.CountDocuments(models.DocumentStatusExpired); err != nil {
		return nil, err
	}

	filter := storage.VerificationLogFilter{OfficerID: officerID}
	if summary.TotalVerifications, err = s.store.CountVerificationLogs(filter); err != nil {
		return nil, err
	}

	now := s.now()
	today := filter
	today.Since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if summary.VerificationsToday, err = s.store.CountVerificationLogs(today); err != nil {
		return nil, err
	}

	if summary.RecentVerifications, err = s.store.GetVerificationLogs(filter, 10); err != nil {
		return nil, err
	}
	return &summary, nil
}

// VerificationHistory lists an officer's checks, newest first
func (s *DashboardService) VerificationHistory(officerID string, limit int) ([]*models.VerificationLog, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.GetVerificationLogs(storage.VerificationLogFilter{OfficerID: officerID}, limit)
}

// DriverVerificationHistory lists every check made against a driver
func (s *DashboardService) DriverVerificationHistory(driverID string) ([]*models.VerificationLog, error) {
	return s.store.GetVerificationLogs(storage.VerificationLogFilter{DriverID: driverID}, 0)
}

// OfficerStats counts an officer's results over the last days
func (s *DashboardService) OfficerStats(officerID string, days int) (*models.VerificationStats, error) {
	return s.store.GetVerificationStats(s.window(days, officerID))
}

// SystemStats counts all results over the last days
func (s *DashboardService) SystemStats(days int) (*models.VerificationStats, error) {
	return s.store.GetVerificationStats(s.window(days, ""))
}

func (s *DashboardService) window(days int, officerID string) storage.VerificationLogFilter {
	if days <= 0 {
		days = 30
	}
	end := s.now()
	return storage.VerificationLogFilter{
		OfficerID: officerID,
		Since:     end.AddDate(0, 0, -days),
		Until:     end,
	}
}
