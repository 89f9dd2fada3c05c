package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/domain"
	"inventory-service/internal/repository"
)

// TestRepositoriesIntegration runs against a live database.
func TestRepositoriesIntegration(t *testing.T) {
	dbURL := os.Getenv("INVENTORY_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("set INVENTORY_TEST_DATABASE_URL to run this integration test")
	}

	ctx := context.Background()
	pool, err := Open(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()

	users := NewUserRepository(pool)
	products := NewProductRepository(pool)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, products.Init(ctx))

	username := fmt.Sprintf("it_%d", time.Now().UnixNano())
	user := &domain.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, user))
	require.ErrorIs(t, users.Create(ctx, &domain.User{Username: username, PasswordHash: "x"}), repository.ErrAlreadyExists)

	got, err := users.GetByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	batch := []*domain.Product{{Fields: domain.Document{"name": "A", "price": 3}}}
	require.NoError(t, products.CreateMany(ctx, batch))

	product, err := products.Get(ctx, batch[0].ID)
	require.NoError(t, err)
	product.Merge(domain.Document{"price": 0})
	require.NoError(t, products.Update(ctx, product))

	reloaded, err := products.Get(ctx, batch[0].ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), reloaded.Fields["price"])

	require.NoError(t, products.Delete(ctx, batch[0].ID))
	_, err = products.Get(ctx, batch[0].ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
