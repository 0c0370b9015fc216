// internal/repository/group_repo_test.go
package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netsplit-ledger/internal/domain"
	"netsplit-ledger/internal/repository"
	"netsplit-ledger/internal/repository/memory"
	"netsplit-ledger/internal/util"
)

func newRepo() repository.GroupRepository {
	return repository.NewGroupRepository(memory.NewStore())
}

func TestGroupRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	group := domain.NewGroup("Trip", domain.NewMember("Alice", "alice@example.com", ""))
	require.NoError(t, repo.CreateGroup(ctx, group))

	loaded, err := repo.GetGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, loaded.ID)
	assert.Equal(t, "Trip", loaded.Name)
	assert.Equal(t, "alice@example.com", loaded.CreatedBy)
}

func TestGroupRepository_GetUnknownID(t *testing.T) {
	repo := newRepo()
	_, err := repo.GetGroupByID(context.Background(), "nope")
	assert.True(t, util.IsError(err, util.ErrGroupNotFound))
}

func TestGroupRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	group := domain.NewGroup("Trip", domain.NewMember("Alice", "alice@example.com", ""))
	require.NoError(t, repo.CreateGroup(ctx, group))

	group.Members = append(group.Members, domain.NewMember("Bob", "bob@example.com", ""))
	require.NoError(t, repo.UpdateGroup(ctx, group))

	loaded, err := repo.GetGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Members, 2)
}

func TestGroupRepository_UpdateUnknownGroup(t *testing.T) {
	repo := newRepo()
	group := domain.NewGroup("Ghost", domain.NewMember("Alice", "alice@example.com", ""))
	err := repo.UpdateGroup(context.Background(), group)
	assert.True(t, util.IsError(err, util.ErrGroupNotFound))
}

func TestGroupRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	groups, err := repo.ListGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	require.NoError(t, repo.CreateGroup(ctx, domain.NewGroup("One", domain.NewMember("A", "a@example.com", ""))))
	require.NoError(t, repo.CreateGroup(ctx, domain.NewGroup("Two", domain.NewMember("B", "b@example.com", ""))))

	groups, err = repo.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}
