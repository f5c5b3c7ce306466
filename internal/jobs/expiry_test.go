package jobs

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceMarksExpiredDocuments(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	old, err := store.CreateDocument(&models.Document{DriverID: "d", Type: models.DocumentTypeLicense, DocumentNumber: "A", ExpiryDate: now.AddDate(0, 0, -1)})
	require.NoError(t, err)
	fresh, err := store.CreateDocument(&models.Document{DriverID: "d", Type: models.DocumentTypeInsurance, DocumentNumber: "B", ExpiryDate: now.AddDate(0, 0, 1)})
	require.NoError(t, err)

	sweep := NewExpirySweep(store, time.Minute)
	sweep.now = func() time.Time { return now }

	assert.Equal(t, int64(1), sweep.RunOnce())
	assert.Equal(t, int64(0), sweep.RunOnce())

	got, err := store.GetDocument(old.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusExpired, got.Status)
	got, err = store.GetDocument(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusValid, got.Status)
}

type countingExpirer struct {
	calls atomic.Int32
	err   error
}

func (c *countingExpirer) MarkExpiredDocuments(time.Time) (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestStartStop(t *testing.T) {
	expirer := &countingExpirer{err: errors.New("db down")}
	sweep := NewExpirySweep(expirer, 10*time.Millisecond)

	sweep.Start()
	sweep.Start()
	require.Eventually(t, func() bool { return expirer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	sweep.Stop()

	calls := expirer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, expirer.calls.Load())

	sweep.Stop()
}
