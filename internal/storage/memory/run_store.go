package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SimulationRun // keyed by run_id
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		data: make(map[string]*domain.SimulationRun),
	}
}

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(_ context.Context, r *domain.SimulationRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.RunID] = &copy
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, runID string) (*domain.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// List retrieves all runs, ordered by created_at ASC, run_id ASC.
func (s *RunStore) List(_ context.Context) ([]*domain.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SimulationRun, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].RunID < result[j].RunID
	})

	return result, nil
}

var _ storage.RunStore = (*RunStore)(nil)
