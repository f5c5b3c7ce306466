package jobs

import (
	"log"
	"sync"
	"time"

	"github.com/Ananth-NQI/docverify-backend/internal/storage"
)

// DocumentExpirer is the storage the sweep needs
type DocumentExpirer interface {
	MarkExpiredDocuments(now time.Time) (int64, error)
}

// ExpirySweep periodically marks documents past their expiry date as EXPIRED.
// Verification re-checks dates itself, so a late or failed sweep only leaves
// the stored status behind.
type ExpirySweep struct {
	store    DocumentExpirer
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewExpirySweep creates a sweep over the document store
func NewExpirySweep(store DocumentExpirer, interval time.Duration) *ExpirySweep {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweep{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

var _ DocumentExpirer = storage.Store(nil)

// Start runs one sweep immediately and then every interval
func (s *ExpirySweep) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		log.Println("Document expiry sweep already running")
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	log.Printf("Starting document expiry sweep every %v", s.interval)
	go s.loop(s.stop, s.done)
}

// Stop halts the sweep and waits for an in-flight run to finish
func (s *ExpirySweep) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	log.Println("Stopping document expiry sweep...")
	close(stop)
	<-done
}

func (s *ExpirySweep) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce()
	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-stop:
			return
		}
	}
}

// RunOnce performs a single sweep and returns how many documents changed
func (s *ExpirySweep) RunOnce() int64 {
	count, err := s.store.MarkExpiredDocuments(s.now())
	if err != nil {
		log.Printf("Error marking expired documents: %v", err)
		return 0
	}
	if count > 0 {
		log.Printf("Marked %d documents as expired", count)
	}
	return count
}
