package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/qrimage"
	"github.com/Ananth-NQI/docverify-backend/internal/qrtoken"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNoPrimaryDocument = errors.New("no primary document found for this driver")
	ErrDocumentNotOwned  = errors.New("document does not belong to this driver")
)

// IssuedQRCode is a freshly minted token and its rendered image
type IssuedQRCode struct {
	DocumentID string        `json:"documentId"`
	Payload    string        `json:"payload"`
	DataURL    string        `json:"qrCodeDataURL"`
	IssuedAt   time.Time     `json:"issuedAt"`
	ValidFor   time.Duration `json:"-"`
	Token      qrtoken.Token `json:"-"`
}

// QRCodeService issues time-limited QR codes for a driver's documents
type QRCodeService struct {
	lookup      *Lookup
	documents   storage.DocumentRepository
	renderer    *qrimage.Renderer
	codec       qrtoken.Codec
	staleWindow time.Duration
}

// NewQRCodeService creates the issuance service
func NewQRCodeService(lookup *Lookup, documents storage.DocumentRepository, renderer *qrimage.Renderer, staleWindow time.Duration) *QRCodeService {
	if staleWindow <= 0 {
		staleWindow = DefaultStaleWindow
	}
	return &QRCodeService{
		lookup:      lookup,
		documents:   documents,
		renderer:    renderer,
		codec:       qrtoken.Default,
		staleWindow: staleWindow,
	}
}

// IssueForDriver issues a QR code for the driver's primary document
func (s *QRCodeService) IssueForDriver(driverID string) (*IssuedQRCode, error) {
	doc, err := s.lookup.FindDriverPrimaryDocument(driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to find primary document: %w", err)
	}
	if doc == nil {
		return nil, ErrNoPrimaryDocument
	}
	return s.issue(driverID, doc.ID)
}

// IssueForDocument issues a QR code for a specific document owned by the driver
func (s *QRCodeService) IssueForDocument(driverID, documentID string) (*IssuedQRCode, error) {
	doc, err := s.lookup.FindDocument(documentID)
	if err != nil {
		return nil, err
	}
	if doc.DriverID != driverID {
		return nil, ErrDocumentNotOwned
	}
	return s.issue(driverID, doc.ID)
}

// issue stores the latest payload on the document row. Two concurrent issues
// for the same document leave whichever wrote last; both codes stay usable
// until their window closes.
func (s *QRCodeService) issue(driverID, documentID string) (*IssuedQRCode, error) {
	payload, tok, err := s.codec.Encode(documentID, driverID, uuid.NewString())
	if err != nil {
		return nil, err
	}

	dataURL, err := s.renderer.RenderDataURL(payload)
	if err != nil {
		return nil, err
	}

	issuedAt := tok.IssuedTime()
	if err := s.documents.UpdateDocumentToken(documentID, payload, issuedAt); err != nil {
		return nil, fmt.Errorf("failed to store qr token: %w", err)
	}

	log.Printf("QR code issued for document %s (driver %s)", documentID, driverID)

	return &IssuedQRCode{
		DocumentID: documentID,
		Payload:    payload,
		DataURL:    dataURL,
		IssuedAt:   issuedAt,
		ValidFor:   s.staleWindow,
		Token:      tok,
	}, nil
}
