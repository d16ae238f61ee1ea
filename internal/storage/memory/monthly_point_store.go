package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// MonthlyPointStore is an in-memory implementation of storage.MonthlyPointStore.
type MonthlyPointStore struct {
	mu   sync.RWMutex
	data map[string]map[int]*domain.MonthlyPoint // run_id → month_index → point
}

// NewMonthlyPointStore creates a new in-memory monthly point store.
func NewMonthlyPointStore() *MonthlyPointStore {
	return &MonthlyPointStore{
		data: make(map[string]map[int]*domain.MonthlyPoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (run_id, month_index).
func (s *MonthlyPointStore) InsertBulk(_ context.Context, points []*domain.MonthlyPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates.
	type key struct {
		runID      string
		monthIndex int
	}
	batchKeys := make(map[key]struct{}, len(points))

	// First pass: check for duplicates (existing + intra-batch).
	for _, p := range points {
		if p == nil || p.RunID == "" || p.MonthIndex < 0 {
			return storage.ErrInvalidInput
		}

		if _, exists := s.data[p.RunID][p.MonthIndex]; exists {
			return storage.ErrDuplicateKey
		}
		k := key{p.RunID, p.MonthIndex}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	// Second pass: insert all.
	for _, p := range points {
		if s.data[p.RunID] == nil {
			s.data[p.RunID] = make(map[int]*domain.MonthlyPoint)
		}
		copy := *p
		s.data[p.RunID][p.MonthIndex] = &copy
	}

	return nil
}

// GetByRunID retrieves all points for a run, ordered by month_index ASC.
func (s *MonthlyPointStore) GetByRunID(_ context.Context, runID string) ([]*domain.MonthlyPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MonthlyPoint
	for _, p := range s.data[runID] {
		copy := *p
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].MonthIndex < result[j].MonthIndex
	})

	return result, nil
}

// GetByMonthRange retrieves points for a run within [start, end] (inclusive).
func (s *MonthlyPointStore) GetByMonthRange(_ context.Context, runID string, start, end int) ([]*domain.MonthlyPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MonthlyPoint
	for _, p := range s.data[runID] {
		if p.MonthIndex >= start && p.MonthIndex <= end {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].MonthIndex < result[j].MonthIndex
	})

	return result, nil
}

var _ storage.MonthlyPointStore = (*MonthlyPointStore)(nil)
