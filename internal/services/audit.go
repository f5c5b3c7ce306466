package services

import (
	"fmt"
	"log"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
)

// AuditEntry is one verification attempt to be recorded
type AuditEntry struct {
	OfficerID  string
	DriverID   string
	DocumentID string
	Result     models.VerificationResult
	Location   string
	Notes      string
	IPAddress  string
	UserAgent  string
}

// AuditResult is the outcome of a best-effort audit write. Err is informational
// only: callers must not turn it into a failure of their own.
type AuditResult struct {
	RecordID  string
	CreatedAt time.Time
	Err       error
}

// Recorded reports whether the record was persisted
func (r AuditResult) Recorded() bool {
	return r.Err == nil && r.RecordID != ""
}

// AuditRecorder appends verification records
type AuditRecorder interface {
	Record(entry AuditEntry) AuditResult
}

// AuditLogger writes verification records to the append-only log table
type AuditLogger struct {
	logs storage.VerificationLogRepository
	now  func() time.Time
}

// NewAuditLogger creates an audit logger over the verification log repository
func NewAuditLogger(logs storage.VerificationLogRepository) *AuditLogger {
	return &AuditLogger{
		logs: logs,
		now:  time.Now,
	}
}

// Record persists the entry. It never panics and never returns an error value
// to propagate; failures are logged and reported in the result.
func (a *AuditLogger) Record(entry AuditEntry) (result AuditResult) {
	defer func() {
		if r := recover(); r != nil {
			result = AuditResult{Err: fmt.Errorf("audit write panicked: %v", r)}
			log.Printf("Failed to log verification (%s driver=%q document=%q): %v",
				entry.Result, entry.DriverID, entry.DocumentID, result.Err)
		}
	}()

	record := &models.VerificationLog{
		OfficerID:  optional(entry.OfficerID),
		DriverID:   entry.DriverID,
		DocumentID: optional(entry.DocumentID),
		Result:     entry.Result,
		Location:   entry.Location,
		Notes:      entry.Notes,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		CreatedAt:  a.now(),
	}

	saved, err := a.logs.CreateVerificationLog(record)
	if err != nil {
		log.Printf("Failed to log verification (%s driver=%q document=%q): %v",
			entry.Result, entry.DriverID, entry.DocumentID, err)
		return AuditResult{Err: err}
	}
	return AuditResult{RecordID: saved.ID, CreatedAt: saved.CreatedAt}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
