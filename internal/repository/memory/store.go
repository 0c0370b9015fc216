// internal/repository/memory/store.go
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"netsplit-ledger/internal/domain"
)

// Store is an in-memory Store implementation, used by tests and as the
// development default. The collection is held as its JSON encoding so
// that Load always returns an independent copy, exactly like a real
// key-value store would.
type Store struct {
	mu   sync.Mutex
	data []byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Load returns the stored group collection.
func (s *Store) Load(ctx context.Context) ([]domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return []domain.Group{}, nil
	}
	var groups []domain.Group
	if err := json.Unmarshal(s.data, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode stored groups: %w", err)
	}
	return groups, nil
}

// Save replaces the stored group collection.
func (s *Store) Save(ctx context.Context, groups []domain.Group) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("failed to encode groups: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}
