// internal/repository/postgres/store.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"netsplit-ledger/internal/domain"
	"netsplit-ledger/internal/repository"
)

// Store persists the group collection as a single JSONB row in a
// key-value table, keeping the same one-key round-trip contract the
// other backends provide.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a Postgres-backed store and ensures the key-value
// table exists.
func NewStore(ctx context.Context, db *sqlx.DB) (*Store, error) {
	const schema = `CREATE TABLE IF NOT EXISTS kv_store (
        key   TEXT PRIMARY KEY,
        value JSONB NOT NULL
    )`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads the group collection. A missing row yields an empty
// collection.
func (s *Store) Load(ctx context.Context) ([]domain.Group, error) {
	var raw []byte
	query := `SELECT value FROM kv_store WHERE key = $1`
	err := s.db.GetContext(ctx, &raw, query, repository.StorageKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return []domain.Group{}, nil
		}
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	var groups []domain.Group
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode stored groups: %w", err)
	}
	return groups, nil
}

// Save upserts the group collection under the storage key.
func (s *Store) Save(ctx context.Context, groups []domain.Group) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("failed to encode groups: %w", err)
	}

	query := `INSERT INTO kv_store (key, value) VALUES ($1, $2)
              ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := s.db.ExecContext(ctx, query, repository.StorageKey, data); err != nil {
		return fmt.Errorf("failed to save groups: %w", err)
	}
	return nil
}
