package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// ConfigStore is an in-memory implementation of storage.ConfigStore.
type ConfigStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.NamedConfig // keyed by name, revisions in insertion order
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		data: make(map[string][]*domain.NamedConfig),
	}
}

// Save adds a configuration revision. Returns ErrDuplicateKey if
// (name, saved_at) already exists.
func (s *ConfigStore) Save(_ context.Context, c *domain.NamedConfig) error {
	if c == nil || c.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data[c.Name] {
		if existing.SavedAt == c.SavedAt {
			return storage.ErrDuplicateKey
		}
	}

	copy := *c
	s.data[c.Name] = append(s.data[c.Name], &copy)
	return nil
}

// GetLatestByName retrieves the most recently saved revision for a name.
func (s *ConfigStore) GetLatestByName(_ context.Context, name string) (*domain.NamedConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	revisions := s.data[name]
	if len(revisions) == 0 {
		return nil, storage.ErrNotFound
	}

	latest := revisions[0]
	for _, r := range revisions[1:] {
		if r.SavedAt > latest.SavedAt {
			latest = r
		}
	}

	copy := *latest
	return &copy, nil
}

// List retrieves all saved revisions, ordered by name ASC, saved_at ASC.
func (s *ConfigStore) List(_ context.Context) ([]*domain.NamedConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.NamedConfig
	for _, revisions := range s.data {
		for _, r := range revisions {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].SavedAt < result[j].SavedAt
	})

	return result, nil
}

var _ storage.ConfigStore = (*ConfigStore)(nil)
