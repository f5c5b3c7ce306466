package services

import (
	"strings"
	"testing"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/qrimage"
	"github.com/Ananth-NQI/docverify-backend/internal/qrtoken"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQRService(f *fixture) *QRCodeService {
	svc := NewQRCodeService(f.lookup, f.store, qrimage.NewRenderer(128), 0)
	svc.codec = qrtoken.Codec{Now: func() time.Time { return f.now }}
	return svc
}

func TestIssueForDriverStoresTokenAndVerifies(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, f.driver.ID, models.DocumentTypeInsurance, "INS-1", testNow.AddDate(1, 0, 0))
	svc := newQRService(f)

	issued, err := svc.IssueForDriver(f.driver.ID)
	require.NoError(t, err)
	assert.Equal(t, f.license.ID, issued.DocumentID)
	assert.True(t, strings.HasPrefix(issued.DataURL, "data:image/png;base64,"))
	assert.NotEmpty(t, issued.Token.Nonce)
	assert.Equal(t, DefaultStaleWindow, issued.ValidFor)

	tok, err := qrtoken.Decode(issued.Payload)
	require.NoError(t, err)
	assert.Equal(t, issued.Token, tok)

	doc, err := f.store.GetDocument(f.license.ID)
	require.NoError(t, err)
	require.NotNil(t, doc.QRCode)
	assert.Equal(t, issued.Payload, *doc.QRCode)
	require.NotNil(t, doc.LastTokenIssuedAt)

	engine := NewVerificationEngine(f.lookup, NewAuditLogger(f.store), WithClock(func() time.Time { return issued.IssuedAt.Add(time.Minute) }))
	out, err := engine.Verify(issued.Payload, VerifyContext{})
	require.NoError(t, err)
	assert.Equal(t, models.ResultValid, out.Result)
}

func TestIssueReplacesPreviousToken(t *testing.T) {
	f := newFixture(t)
	svc := newQRService(f)

	first, err := svc.IssueForDriver(f.driver.ID)
	require.NoError(t, err)
	second, err := svc.IssueForDriver(f.driver.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Payload, second.Payload)

	doc, err := f.store.GetDocument(f.license.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Payload, *doc.QRCode)
}

func TestIssueErrors(t *testing.T) {
	f := newFixture(t)
	svc := newQRService(f)

	empty := f.addDriver(t, "", true)
	_, err := svc.IssueForDriver(empty.ID)
	assert.ErrorIs(t, err, ErrNoPrimaryDocument)

	_, err = svc.IssueForDocument(empty.ID, f.license.ID)
	assert.ErrorIs(t, err, ErrDocumentNotOwned)

	issued, err := svc.IssueForDocument(f.driver.ID, f.license.ID)
	require.NoError(t, err)
	assert.Equal(t, f.license.ID, issued.DocumentID)
}
