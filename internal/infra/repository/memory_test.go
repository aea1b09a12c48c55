package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Value string
}

func TestMemoryRepositoryCreateAndFind(t *testing.T) {
	repo := NewMemoryRepository[record]()
	ctx := context.Background()

	created, err := repo.Create(ctx, "records", "a", record{Value: "one"})
	require.NoError(t, err)
	assert.Equal(t, "one", created.Value)

	found, err := repo.FindByID(ctx, "records", "a")
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestMemoryRepositoryCreateDuplicate(t *testing.T) {
	repo := NewMemoryRepository[record]()
	ctx := context.Background()

	_, err := repo.Create(ctx, "records", "a", record{Value: "one"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, "records", "a", record{Value: "two"})
	assert.Error(t, err)
}

func TestMemoryRepositoryFindMissing(t *testing.T) {
	repo := NewMemoryRepository[record]()

	_, err := repo.FindByID(context.Background(), "records", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryUpdateUpserts(t *testing.T) {
	repo := NewMemoryRepository[record]()
	ctx := context.Background()

	_, err := repo.Update(ctx, "records", "a", record{Value: "fresh"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, "records", "a", record{Value: "replaced"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "records", "a")
	require.NoError(t, err)
	assert.Equal(t, "replaced", found.Value)
}

func TestMemoryRepositoryDelete(t *testing.T) {
	repo := NewMemoryRepository[record]()
	ctx := context.Background()

	_, err := repo.Create(ctx, "records", "a", record{Value: "one"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "records", "a"))
	_, err = repo.FindByID(ctx, "records", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "records", "a"), ErrNotFound)
}

func TestMemoryRepositoryCollectionsAreIsolated(t *testing.T) {
	repo := NewMemoryRepository[record]()
	ctx := context.Background()

	_, err := repo.Create(ctx, "first", "a", record{Value: "one"})
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, "second", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := repo.FindAll(ctx, "first")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
