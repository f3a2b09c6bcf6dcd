package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/apperr"
	"todolist/internal/database"
	"todolist/internal/models"
)

func setupTestRepo(t *testing.T) *Todos {
	t.Helper()

	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.MigrateOrCreateSchema(ctx))

	return NewTodos(db)
}

func strPtr(s string) *string { return &s }

func TestTodos_CreateTitleOnly(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	todo, err := repo.Create(ctx, models.TodoCreate{Title: "Buy milk"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), todo.ID)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.False(t, todo.Completed)
	assert.Nil(t, todo.Description)
	assert.Nil(t, todo.Priority)
	assert.Nil(t, todo.DueDate)
}

func TestTodos_CreateThenGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	due, err := models.ParseDate("2031-01-15")
	require.NoError(t, err)

	created, err := repo.Create(ctx, models.TodoCreate{
		Title:       "File taxes",
		Description: strPtr("before the deadline"),
		Priority:    strPtr("High"),
		DueDate:     &due,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2031-01-15", got.DueDate.String())
}

func TestTodos_GetMissing(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Get(context.Background(), 42)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestTodos_PartialUpdate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.TodoCreate{
		Title:       "Buy milk",
		Description: strPtr("2 litres"),
		Priority:    strPtr("Low"),
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, models.TodoPatch{Completed: models.Some(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Priority, updated.Priority)

	cleared, err := repo.Update(ctx, created.ID, models.TodoPatch{
		Description: models.Null[string](),
		Priority:    models.Some("High"),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	require.NotNil(t, cleared.Priority)
	assert.Equal(t, "High", *cleared.Priority)
	assert.True(t, cleared.Completed, "completed must survive a patch that does not mention it")

	same, err := repo.Update(ctx, created.ID, models.TodoPatch{})
	require.NoError(t, err)
	assert.Equal(t, cleared, same)
}

func TestTodos_UpdateDueDate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	created, err := repo.Create(ctx, models.TodoCreate{Title: "Renew passport"})
	require.NoError(t, err)

	due, err := models.ParseDate("2030-06-01")
	require.NoError(t, err)
	withDue, err := repo.Update(ctx, created.ID, models.TodoPatch{DueDate: models.Some(due)})
	require.NoError(t, err)
	require.NotNil(t, withDue.DueDate)
	assert.Equal(t, due, *withDue.DueDate)

	noDue, err := repo.Update(ctx, created.ID, models.TodoPatch{DueDate: models.Null[models.Date]()})
	require.NoError(t, err)
	assert.Nil(t, noDue.DueDate)
}

func TestTodos_UpdateMissing(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, 7, models.TodoPatch{Title: models.Some("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.Update(ctx, 7, models.TodoPatch{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTodos_DeleteAndIDsNotReused(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, models.TodoCreate{Title: "one"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, models.TodoCreate{Title: "two"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, second.ID))
	assert.ErrorIs(t, repo.Delete(ctx, second.ID), apperr.ErrNotFound)

	_, err = repo.Get(ctx, second.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	third, err := repo.Create(ctx, models.TodoCreate{Title: "three"})
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, third.ID, all[1].ID)
}

func TestTodos_GetAllEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestTodos_StoreFailure(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.db.Close())

	_, err := repo.Create(context.Background(), models.TodoCreate{Title: "x"})

	var se *apperr.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create", se.Op)
}
