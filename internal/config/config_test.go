package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INVENTORY_AUTH_JWTSECRET", "secret")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/inventory.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "catalog-snapshots", cfg.Storage.KeyPrefix)
	assert.False(t, cfg.SnapshotsEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVENTORY_SERVER_ADDR", ":8081")
	t.Setenv("INVENTORY_DATABASE_DRIVER", "Postgres")
	t.Setenv("INVENTORY_DATABASE_URL", "postgres://localhost/inventory")
	t.Setenv("INVENTORY_AUTH_JWTSECRET", "secret")
	t.Setenv("INVENTORY_AUTH_TOKENTTL", "30m")
	t.Setenv("INVENTORY_STORAGE_BUCKET", "snapshots")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.SnapshotsEnabled())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.Database.Driver = DriverSQLite
	cfg.Database.Path = "x.db"
	cfg.Auth.TokenTTL = time.Hour
	require.ErrorContains(t, cfg.Validate(), "jwt secret is required")

	cfg.Auth.JWTSecret = "secret"
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = DriverPostgres
	require.ErrorContains(t, cfg.Validate(), "database url is required")

	cfg.Database.Driver = "mongo"
	require.ErrorContains(t, cfg.Validate(), "unsupported database driver")
}
