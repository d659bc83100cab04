package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.conf"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigReadsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookstall.conf")
	body := `debug = true
port = 9000
shop_title = Corner Books
store_backend = redis
redis_addr = 10.0.0.5:6380
redis_db = 3
current_year = 2024
price_step = 2.50
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "Corner Books", cfg.ShopTitle)
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, "10.0.0.5:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2024, cfg.CurrentYear)
	assert.True(t, decimal.RequireFromString("2.5").Equal(cfg.PriceStepDecimal()))
	// untouched keys keep their defaults
	assert.Equal(t, DefaultCartKey, cfg.CartKey)
	assert.Equal(t, 300, cfg.CoverHeight)
}

func TestValidate(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Port = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("normalizes recoverable values", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StoreBackend = "Mongo"
		cfg.CartKey = "  "
		cfg.CoverHeight = -1
		cfg.CurrentYear = -20
		cfg.PriceStep = "zero"
		cfg.WatchCatalog = true

		require.NoError(t, cfg.Validate())
		assert.Equal(t, "sqlite", cfg.StoreBackend)
		assert.Equal(t, DefaultCartKey, cfg.CartKey)
		assert.Equal(t, 300, cfg.CoverHeight)
		assert.Equal(t, 0, cfg.CurrentYear)
		assert.Equal(t, "1.00", cfg.PriceStep)
		assert.False(t, cfg.WatchCatalog)
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DBPath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("memory backend ignores db path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StoreBackend = "memory"
		cfg.DBPath = ""
		assert.NoError(t, cfg.Validate())
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "bookstall.conf")
	cfg := DefaultConfig()
	cfg.Port = 8123
	cfg.CatalogFile = "books.yaml"
	cfg.WatchCatalog = true
	cfg.PriceStep = "0.50"

	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetAbsolutePath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/srv", "covers"), cfg.GetAbsolutePath("/srv", "covers"))
	assert.Equal(t, "/abs/covers", cfg.GetAbsolutePath("/srv", "/abs/covers"))
	assert.Equal(t, "", cfg.GetAbsolutePath("/srv", ""))
}
