package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "bleve", cfg.Catalog.Engine)
	assert.Equal(t, "yahoo", cfg.Provider.Name)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Provider.BaseURL)
	assert.Equal(t, uint(128), cfg.Cache.Size)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QUOTESEARCH_SERVER_PORT", "9090")
	t.Setenv("QUOTESEARCH_CACHE_TTL", "5m")
	t.Setenv("QUOTESEARCH_PROVIDER_NAME", "FinanceGo")
	t.Setenv("QUOTESEARCH_PROVIDER_PROXY", "https://api.allorigins.win/raw?url=")

	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "financego", cfg.Provider.Name)
	assert.Equal(t, "https://api.allorigins.win/raw?url=", cfg.Provider.Proxy)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quote-search.yaml")
	content := `
server:
  port: 7000
log:
  level: debug
  format: console
catalog:
  path: data/catalog.csv
  engine: memory
cache:
  size: 16
  ttl: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "data/catalog.csv", cfg.Catalog.Path)
	assert.Equal(t, "memory", cfg.Catalog.Engine)
	assert.Equal(t, uint(16), cfg.Cache.Size)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestLoadDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("QUOTESEARCH_LOG_LEVEL=warn\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("QUOTESEARCH_LOG_LEVEL") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
		require.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("QUOTESEARCH_PROVIDER_NAME", "bloomberg")
		_, err := Load("", noEnvFile(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider.name")
	})

	t.Run("unknown engine", func(t *testing.T) {
		t.Setenv("QUOTESEARCH_CATALOG_ENGINE", "sql")
		_, err := Load("", noEnvFile(t))
		require.Error(t, err)
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("QUOTESEARCH_SERVER_PORT", "70000")
		_, err := Load("", noEnvFile(t))
		require.Error(t, err)
	})
}
