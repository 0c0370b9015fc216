// internal/repository/file/store.go
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"netsplit-ledger/internal/domain"
	"netsplit-ledger/internal/repository"
)

// Store persists the group collection as a single JSON document on disk,
// the file-system equivalent of the browser localStorage key the ledger
// originally lived under.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a file-backed store rooted at dir. The collection
// lives in a single file named after the storage key.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &Store{path: filepath.Join(dir, repository.StorageKey+".json")}, nil
}

// Load reads the group collection from disk. A missing file yields an
// empty collection.
func (s *Store) Load(ctx context.Context) ([]domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Group{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var groups []domain.Group
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return groups, nil
}

// Save writes the group collection to disk, replacing the previous
// contents atomically via a temp-file rename.
func (s *Store) Save(ctx context.Context, groups []domain.Group) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("failed to encode groups: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
