package store

import (
	"context"
	"sync"

	"dedupe/internal/run/models"
	"dedupe/pkg/domain"
	"dedupe/pkg/requestcontext"
)

// InMemoryStore keeps runs in a map guarded by a RWMutex. Expiry is checked
// lazily against the request-scoped clock on every read, so tests can drive
// the TTL with requestcontext.WithTime instead of sleeping.
type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[domain.RunID]*models.Run
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{runs: make(map[domain.RunID]*models.Run)}
}

func (s *InMemoryStore) Save(_ context.Context, run *models.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *run
	s.runs[run.ID] = &copied
	return nil
}

func (s *InMemoryStore) Find(ctx context.Context, id domain.RunID) (*models.Run, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if run.Expired(requestcontext.Now(ctx)) {
		s.mu.Lock()
		delete(s.runs, id)
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	copied := *run
	return &copied, nil
}

func (s *InMemoryStore) MarkPaid(ctx context.Context, id domain.RunID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok || run.Expired(requestcontext.Now(ctx)) {
		return ErrNotFound
	}
	run.Paid = true
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.RunID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}
