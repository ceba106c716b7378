package repo_test

import (
	"context"
	"testing"

	"notesapi/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestMemRepoInsertAndFind(t *testing.T) {
	r := repo.NewMemRepo()
	ctx := context.Background()

	saved, err := r.Insert(ctx, repo.Note{
		User: "alice", Title: "Groceries", Description: "Buy milk and eggs", Tag: "home",
	})
	require.NoError(t, err)
	assert.False(t, saved.ID.IsZero())
	assert.False(t, saved.CreatedAt.IsZero())

	found, err := r.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, found)

	_, err = r.FindByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestMemRepoFindByOwner(t *testing.T) {
	r := repo.NewMemRepo()
	ctx := context.Background()

	first, err := r.Insert(ctx, repo.Note{User: "alice", Title: "One", Description: "First note"})
	require.NoError(t, err)
	second, err := r.Insert(ctx, repo.Note{User: "alice", Title: "Two", Description: "Second note"})
	require.NoError(t, err)
	_, err = r.Insert(ctx, repo.Note{User: "bob", Title: "Other", Description: "Not alice's"})
	require.NoError(t, err)

	notes, err := r.FindByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	// insertion order is preserved
	assert.Equal(t, first.ID, notes[0].ID)
	assert.Equal(t, second.ID, notes[1].ID)

	notes, err = r.FindByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestMemRepoUpdateByID(t *testing.T) {
	r := repo.NewMemRepo()
	ctx := context.Background()

	saved, err := r.Insert(ctx, repo.Note{
		User: "alice", Title: "Groceries", Description: "Buy milk and eggs", Tag: "home",
	})
	require.NoError(t, err)

	updated, err := r.UpdateByID(ctx, saved.ID, repo.NotePatch{Title: strPtr("Shopping")})
	require.NoError(t, err)
	assert.Equal(t, "Shopping", updated.Title)
	assert.Equal(t, "Buy milk and eggs", updated.Description)
	assert.Equal(t, "home", updated.Tag)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "alice", updated.User)

	// empty patch is a no-op read
	same, err := r.UpdateByID(ctx, saved.ID, repo.NotePatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)

	// a supplied empty string is applied, unlike an absent field
	cleared, err := r.UpdateByID(ctx, saved.ID, repo.NotePatch{Tag: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "", cleared.Tag)
	assert.Equal(t, "Shopping", cleared.Title)

	_, err = r.UpdateByID(ctx, primitive.NewObjectID(), repo.NotePatch{Title: strPtr("X")})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestMemRepoDeleteByID(t *testing.T) {
	r := repo.NewMemRepo()
	ctx := context.Background()

	saved, err := r.Insert(ctx, repo.Note{User: "alice", Title: "Gone", Description: "Soon deleted"})
	require.NoError(t, err)

	require.NoError(t, r.DeleteByID(ctx, saved.ID))

	_, err = r.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	err = r.DeleteByID(ctx, saved.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	notes, err := r.FindByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, notes)
}
