// internal/repository/store.go
package repository

import (
	"context"

	"netsplit-ledger/internal/domain"
)

// StorageKey is the single namespaced key the whole group collection is
// stored under, in every backend.
const StorageKey = "netsplit_groups"

// Store is the opaque key-value round-trip contract the ledger persists
// through: Save(groups) followed by Load() yields an equivalent
// collection (JSON equivalence, field order irrelevant).
type Store interface {
	// Load reads the persisted group collection. A missing key yields an
	// empty collection, not an error.
	Load(ctx context.Context) ([]domain.Group, error)
	// Save writes the whole group collection, replacing any previous value.
	Save(ctx context.Context, groups []domain.Group) error
}
