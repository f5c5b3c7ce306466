package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/qrtoken"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
)

// DefaultStaleWindow bounds how long a rendered QR code can be replayed
const DefaultStaleWindow = 5 * time.Minute

// MaxClockSkew is how far ahead of the verifier's clock a token may be stamped
const MaxClockSkew = time.Minute

// Client-facing messages. Clients match on these strings.
const (
	MsgInvalidDocument  = "Invalid document"
	MsgDocumentMismatch = "Document mismatch"
	MsgDocumentExpired  = "Document has expired"
	MsgQRCodeExpired    = "QR code has expired"
	MsgVerified         = "Document verified successfully"
)

// Audit notes
const (
	noteBadFormat       = "Invalid QR code format"
	noteDocNotFound     = "Document not found"
	noteNumberNotFound  = "Document number not found"
	noteNotOwned        = "Document does not belong to this driver"
	noteDriverNotFound  = "Driver not found"
	noteDriverInactive  = "Driver is inactive"
	noteNoDocument      = "No primary document found for this driver"
	noteEmptyIdentifier = "Empty identifier"
	noteFutureToken     = "QR code issued in the future"
)

// DocumentLookup is the read side the engine needs
type DocumentLookup interface {
	FindDocument(id string) (*models.Document, error)
	FindDocumentByNumber(documentNumber string) (*models.Document, error)
	FindDriver(id string) (*models.Driver, error)
	FindDriverByQRCode(qrCode string) (*models.Driver, error)
}

// VerifyContext carries request metadata supplied by the HTTP layer
type VerifyContext struct {
	OfficerID string
	Location  string
	Notes     string
	IPAddress string
	UserAgent string
}

// VerificationRef identifies the audit record written for an outcome
type VerificationRef struct {
	ID        string                    `json:"id"`
	Result    models.VerificationResult `json:"result"`
	Timestamp time.Time                 `json:"timestamp"`
}

// VerificationOutcome is the classified result of one verification attempt
type VerificationOutcome struct {
	Valid        bool                      `json:"valid"`
	Result       models.VerificationResult `json:"result"`
	Message      string                    `json:"message,omitempty"`
	Error        string                    `json:"error,omitempty"`
	Document     *models.Document          `json:"document,omitempty"`
	Driver       *models.Driver            `json:"driver,omitempty"`
	Verification *VerificationRef          `json:"verification,omitempty"`
}

// VerificationEngine classifies scanned tokens and manual lookups into
// VALID, INVALID, EXPIRED or FORGED and records one audit entry per attempt.
type VerificationEngine struct {
	lookup      DocumentLookup
	audit       AuditRecorder
	staleWindow time.Duration
	now         func() time.Time
}

// EngineOption configures a VerificationEngine
type EngineOption func(*VerificationEngine)

// WithStaleWindow overrides DefaultStaleWindow
func WithStaleWindow(d time.Duration) EngineOption {
	return func(e *VerificationEngine) {
		if d > 0 {
			e.staleWindow = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) EngineOption {
	return func(e *VerificationEngine) {
		e.now = now
	}
}

// NewVerificationEngine creates an engine over a lookup and an audit recorder
func NewVerificationEngine(lookup DocumentLookup, audit AuditRecorder, opts ...EngineOption) *VerificationEngine {
	e := &VerificationEngine{
		lookup:      lookup,
		audit:       audit,
		staleWindow: DefaultStaleWindow,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StaleWindow returns the configured token lifetime
func (e *VerificationEngine) StaleWindow() time.Duration {
	return e.staleWindow
}

// Verify checks a scanned QR payload. Rules run in order and the first match wins:
// decode, document lookup, driver cross-check, document expiry date, token age.
// A token stamped more than MaxClockSkew in the future is INVALID.
// The returned error is non-nil only when storage could not be read.
func (e *VerificationEngine) Verify(payload string, vctx VerifyContext) (*VerificationOutcome, error) {
	now := e.now()

	tok, err := qrtoken.Decode(payload)
	if err != nil {
		var decodeErr *qrtoken.DecodeError
		if errors.As(err, &decodeErr) {
			tok = decodeErr.Partial
		}
		out := rejected(models.ResultInvalid, MsgInvalidDocument)
		return e.finish(out, vctx, tok.DriverID, tok.DocumentID, noteBadFormat), nil
	}

	doc, err := e.lookup.FindDocument(tok.DocumentID)
	if errors.Is(err, storage.ErrNotFound) {
		out := rejected(models.ResultInvalid, MsgInvalidDocument)
		return e.finish(out, vctx, tok.DriverID, tok.DocumentID, noteDocNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up document: %w", err)
	}

	// A real document presented under someone else's driver id was tampered with
	if doc.DriverID != tok.DriverID {
		out := rejected(models.ResultForged, MsgDocumentMismatch)
		return e.finish(out, vctx, tok.DriverID, tok.DocumentID, noteNotOwned), nil
	}

	// Status may lag behind the expiry sweep, so the date decides
	if doc.ExpiredAt(now) {
		out := rejected(models.ResultExpired, MsgDocumentExpired)
		out.Document = doc
		return e.finish(out, vctx, doc.DriverID, doc.ID, MsgDocumentExpired), nil
	}

	// A future stamp would otherwise never go stale
	if tok.IssuedTime().Sub(now) > MaxClockSkew {
		out := rejected(models.ResultInvalid, MsgInvalidDocument)
		out.Document = doc
		return e.finish(out, vctx, doc.DriverID, doc.ID, noteFutureToken), nil
	}

	if now.Sub(tok.IssuedTime()) > e.staleWindow {
		out := rejected(models.ResultExpired, MsgQRCodeExpired)
		out.Document = doc
		return e.finish(out, vctx, doc.DriverID, doc.ID, MsgQRCodeExpired), nil
	}

	driver, err := e.lookup.FindDriver(doc.DriverID)
	if errors.Is(err, storage.ErrNotFound) {
		out := rejected(models.ResultInvalid, MsgInvalidDocument)
		return e.finish(out, vctx, doc.DriverID, doc.ID, noteDriverNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up driver: %w", err)
	}

	if reason := withdrawnReason(driver, doc); reason != "" {
		out := rejected(models.ResultInvalid, MsgInvalidDocument)
		out.Document = doc
		out.Driver = driver.WithoutDocuments()
		return e.finish(out, vctx, driver.ID, doc.ID, reason), nil
	}

	out := &VerificationOutcome{
		Result:   models.ResultValid,
		Message:  MsgVerified,
		Document: doc,
		Driver:   driver.WithoutDocuments(),
	}
	return e.finish(out, vctx, driver.ID, doc.ID, MsgVerified), nil
}

// VerifyByIdentifier checks a document number, or failing that a driver card
// identifier, without a token. There is no staleness rule on this path.
func (e *VerificationEngine) VerifyByIdentifier(identifier string, vctx VerifyContext) (*VerificationOutcome, error) {
	now := e.now()
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		out := rejected(models.ResultInvalid, MsgInvalidDocument)
		return e.finish(out, vctx, "", "", noteEmptyIdentifier), nil
	}

	var (
		doc    *models.Document
		driver *models.Driver
	)

	doc, err := e.lookup.FindDocumentByNumber(identifier)
	switch {
	case err == nil:
		driver, err = e.lookup.FindDriver(doc.DriverID)
		if errors.Is(err, storage.ErrNotFound) {
			out := rejected(models.ResultInvalid, MsgInvalidDocument)
			return e.finish(out, vctx, doc.DriverID, doc.ID, noteDriverNotFound), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up driver: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		driver, err = e.lookup.FindDriverByQRCode(identifier)
		if errors.Is(err, storage.ErrNotFound) {
			out := rejected(models.ResultInvalid, MsgInvalidDocument)
			return e.finish(out, vctx, "", "", noteNumberNotFound), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up driver: %w", err)
		}
		doc = PrimaryDocument(documentPointers(driver.Documents))
	default:
		return nil, fmt.Errorf("failed to look up document: %w", err)
	}

	out := &VerificationOutcome{
		Document: doc,
		Driver:   driver.WithoutDocuments(),
	}
	docID := ""
	if doc != nil {
		docID = doc.ID
	}

	switch {
	case !driver.IsActive:
		out.Result, out.Error = models.ResultInvalid, MsgInvalidDocument
		return e.finish(out, vctx, driver.ID, docID, noteDriverInactive), nil
	case doc == nil:
		out.Result, out.Error = models.ResultInvalid, MsgInvalidDocument
		return e.finish(out, vctx, driver.ID, docID, noteNoDocument), nil
	case doc.Status == models.DocumentStatusExpired || doc.ExpiredAt(now):
		out.Result, out.Error = models.ResultExpired, MsgDocumentExpired
		return e.finish(out, vctx, driver.ID, docID, MsgDocumentExpired), nil
	case doc.IsWithdrawn():
		out.Result, out.Error = models.ResultInvalid, MsgInvalidDocument
		return e.finish(out, vctx, driver.ID, docID, "Document is "+strings.ToLower(string(doc.Status))), nil
	}

	out.Result, out.Message = models.ResultValid, MsgVerified
	return e.finish(out, vctx, driver.ID, docID, MsgVerified), nil
}

func withdrawnReason(driver *models.Driver, doc *models.Document) string {
	if !driver.IsActive {
		return noteDriverInactive
	}
	if doc.IsWithdrawn() {
		return "Document is " + strings.ToLower(string(doc.Status))
	}
	return ""
}

func rejected(result models.VerificationResult, msg string) *VerificationOutcome {
	return &VerificationOutcome{Result: result, Error: msg}
}

// finish records the attempt and attaches the audit reference if the write succeeded
func (e *VerificationEngine) finish(out *VerificationOutcome, vctx VerifyContext, driverID, documentID, reason string) *VerificationOutcome {
	out.Valid = out.Result == models.ResultValid

	notes := reason
	if vctx.Notes != "" {
		notes = reason + " - " + vctx.Notes
	}

	res := e.audit.Record(AuditEntry{
		OfficerID:  vctx.OfficerID,
		DriverID:   driverID,
		DocumentID: documentID,
		Result:     out.Result,
		Location:   vctx.Location,
		Notes:      notes,
		IPAddress:  vctx.IPAddress,
		UserAgent:  vctx.UserAgent,
	})
	if res.Recorded() {
		out.Verification = &VerificationRef{
			ID:        res.RecordID,
			Result:    out.Result,
			Timestamp: res.CreatedAt,
		}
	}
	return out
}
