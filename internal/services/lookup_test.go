package services

import (
	"testing"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryDocument(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := func(id string, typ models.DocumentType, created time.Duration) *models.Document {
		return &models.Document{ID: id, Type: typ, CreatedAt: base.Add(created)}
	}

	assert.Nil(t, PrimaryDocument(nil))

	got := PrimaryDocument([]*models.Document{
		doc("ins", models.DocumentTypeInsurance, 3*time.Hour),
		doc("lic-old", models.DocumentTypeLicense, time.Hour),
		doc("lic-new", models.DocumentTypeLicense, 2*time.Hour),
	})
	assert.Equal(t, "lic-new", got.ID)

	got = PrimaryDocument([]*models.Document{
		doc("reg", models.DocumentTypeRegistration, time.Hour),
		doc("ins", models.DocumentTypeInsurance, 2*time.Hour),
	})
	assert.Equal(t, "ins", got.ID, "most recently created when there is no license")
}

func TestLookupFindDriverPrimaryDocument(t *testing.T) {
	f := newFixture(t)

	doc, err := f.lookup.FindDriverPrimaryDocument(f.driver.ID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, f.license.ID, doc.ID)

	empty := f.addDriver(t, "", true)
	doc, err = f.lookup.FindDriverPrimaryDocument(empty.ID)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestLookupNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.lookup.FindDocument("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = f.lookup.FindDriverWithDocuments("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	driver, err := f.lookup.FindDriverWithDocuments(f.driver.ID)
	require.NoError(t, err)
	assert.Len(t, driver.Documents, 1)
}
