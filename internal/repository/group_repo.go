// internal/repository/group_repo.go
package repository

import (
	"context"
	"fmt"

	"netsplit-ledger/internal/domain"
	"netsplit-ledger/internal/util"
)

// GroupRepository defines the interface for group data operations.
// The repository exclusively owns Group/Member/Expense/Payment records.
type GroupRepository interface {
	// CreateGroup appends a new group to the collection.
	CreateGroup(ctx context.Context, group *domain.Group) error
	// GetGroupByID retrieves a group by its ID.
	GetGroupByID(ctx context.Context, id string) (*domain.Group, error)
	// ListGroups retrieves the whole group collection.
	ListGroups(ctx context.Context) ([]domain.Group, error)
	// UpdateGroup replaces the stored group with the same ID.
	UpdateGroup(ctx context.Context, group *domain.Group) error
}

// groupRepository implements GroupRepository as load-modify-save over a
// single-key Store. There is no multi-writer concurrency control: the
// design assumes one active writer per collection, and the last save
// wins.
type groupRepository struct {
	store Store
}

// NewGroupRepository creates a GroupRepository over the given Store.
func NewGroupRepository(store Store) GroupRepository {
	return &groupRepository{store: store}
}

func (r *groupRepository) CreateGroup(ctx context.Context, group *domain.Group) error {
	groups, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	groups = append(groups, *group)
	if err := r.store.Save(ctx, groups); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (r *groupRepository) GetGroupByID(ctx context.Context, id string) (*domain.Group, error) {
	groups, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("get group %s: %w", id, err)
	}
	for i := range groups {
		if groups[i].ID == id {
			group := groups[i]
			return &group, nil
		}
	}
	return nil, util.ErrGroupNotFound
}

func (r *groupRepository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

func (r *groupRepository) UpdateGroup(ctx context.Context, group *domain.Group) error {
	groups, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("update group %s: %w", group.ID, err)
	}
	for i := range groups {
		if groups[i].ID == group.ID {
			groups[i] = *group
			if err := r.store.Save(ctx, groups); err != nil {
				return fmt.Errorf("update group %s: %w", group.ID, err)
			}
			return nil
		}
	}
	return util.ErrGroupNotFound
}
