package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/synaptica-ai/trialops/pkg/common/models"
	"github.com/synaptica-ai/trialops/pkg/dataset"
)

var ErrDatasetNotFound = errors.New("dataset not found")

type entry struct {
	ds      *dataset.Dataset
	summary models.DatasetSummary
}

// Store keeps uploaded datasets in memory until they expire.
type Store struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry
	clock func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, items: make(map[string]entry), clock: time.Now}
}

func (s *Store) Put(ds *dataset.Dataset) models.DatasetSummary {
	now := s.clock().UTC()
	summary := models.DatasetSummary{
		ID:         uuid.New().String(),
		Studies:    len(ds.Studies),
		Rows:       ds.Rows,
		Columns:    len(ds.Columns()),
		UploadedAt: now,
		ExpiresAt:  now.Add(s.ttl),
	}

	s.mu.Lock()
	s.items[summary.ID] = entry{ds: ds, summary: summary}
	s.mu.Unlock()
	return summary
}

func (s *Store) Get(id string) (*dataset.Dataset, models.DatasetSummary, error) {
	s.mu.RLock()
	e, ok := s.items[id]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil, models.DatasetSummary{}, ErrDatasetNotFound
	}
	return e.ds, e.summary, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrDatasetNotFound
	}
	delete(s.items, id)
	return nil
}

// Sweep drops expired datasets and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.items {
		if s.expired(e) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.clock().After(e.summary.ExpiresAt)
}
