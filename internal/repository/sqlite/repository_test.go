package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/domain"
	"inventory-service/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	user := &domain.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "other"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = repo.GetByUsername(ctx, "bob")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, NewUserRepository(db).Init(ctx))

	_, err := db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at, updated_at) VALUES ('a', 'dup', 'h', 0, 0)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at, updated_at) VALUES ('b', 'dup', 'h', 0, 0)`)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	_, err = db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at, updated_at) VALUES ('c', NULL, 'h', 0, 0)`)
	require.Error(t, err)
	assert.False(t, isUniqueViolation(err), "not-null violations are not uniqueness conflicts")
	assert.False(t, isUniqueViolation(errors.New("UNIQUE constraint failed")))
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	batch := []*domain.Product{
		{Fields: domain.Document{"name": "A", "price": 1.5}},
		{Fields: domain.Document{"name": "B", "meta": map[string]any{"color": "red"}}},
	}
	require.NoError(t, repo.CreateMany(ctx, batch))
	require.NotEmpty(t, batch[0].ID)
	require.NotEqual(t, batch[0].ID, batch[1].ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Fields["name"])
	assert.Equal(t, "B", list[1].Fields["name"])
	assert.Equal(t, map[string]any{"color": "red"}, list[1].Fields["meta"])

	got, err := repo.Get(ctx, batch[0].ID)
	require.NoError(t, err)
	got.Merge(domain.Document{"price": 0})
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.Get(ctx, batch[0].ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), reloaded.Fields["price"])
	assert.Equal(t, "A", reloaded.Fields["name"])

	require.NoError(t, repo.Delete(ctx, batch[0].ID))
	_, err = repo.Get(ctx, batch[0].ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, batch[0].ID), repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, got), repository.ErrNotFound)
}

func TestProductRepository_EmptyList(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	require.NoError(t, repo.CreateMany(ctx, nil))
}
