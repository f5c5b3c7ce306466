package services

import (
	"sort"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
)

// Lookup resolves the entities a token or identifier refers to. Reads go
// straight to storage every time so status changes are seen immediately.
type Lookup struct {
	documents storage.DocumentRepository
	drivers   storage.DriverRepository
}

// NewLookup creates a lookup over the given repositories
func NewLookup(documents storage.DocumentRepository, drivers storage.DriverRepository) *Lookup {
	return &Lookup{
		documents: documents,
		drivers:   drivers,
	}
}

func (l *Lookup) FindDocument(id string) (*models.Document, error) {
	return l.documents.GetDocument(id)
}

func (l *Lookup) FindDocumentByNumber(documentNumber string) (*models.Document, error) {
	return l.documents.GetDocumentByNumber(documentNumber)
}

func (l *Lookup) FindDriver(id string) (*models.Driver, error) {
	return l.drivers.GetDriver(id)
}

func (l *Lookup) FindDriverWithDocuments(id string) (*models.Driver, error) {
	return l.drivers.GetDriverWithDocuments(id)
}

// FindDriverByQRCode resolves the static identifier on a driver card, documents included
func (l *Lookup) FindDriverByQRCode(qrCode string) (*models.Driver, error) {
	return l.drivers.GetDriverByQRCode(qrCode)
}

// FindDriverPrimaryDocument returns nil, nil when the driver has no documents
func (l *Lookup) FindDriverPrimaryDocument(driverID string) (*models.Document, error) {
	docs, err := l.documents.GetDocumentsByDriver(driverID)
	if err != nil {
		return nil, err
	}
	return PrimaryDocument(docs), nil
}

// PrimaryDocument picks the driver's license if there is one, otherwise the
// most recently created document.
func PrimaryDocument(docs []*models.Document) *models.Document {
	if len(docs) == 0 {
		return nil
	}

	sorted := make([]*models.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	for _, doc := range sorted {
		if doc.Type == models.DocumentTypeLicense {
			return doc
		}
	}
	return sorted[0]
}

func documentPointers(docs []models.Document) []*models.Document {
	out := make([]*models.Document, len(docs))
	for i := range docs {
		out[i] = &docs[i]
	}
	return out
}
