package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"regionprice/internal/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
storefront:
  max_concurrency: 8
  regions: [us, gb]
logging:
  format: json
redis:
  address: localhost:6379
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Storefront.MaxConcurrency)
	require.Equal(t, []string{"us", "gb"}, cfg.Storefront.Regions)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, "localhost:6379", cfg.Redis.Address)
	// untouched keys keep defaults
	require.Equal(t, "https://open.er-api.com", cfg.Rates.BaseURL)
	require.Equal(t, 15, cfg.Storefront.TimeoutSec)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"server":{"port":"9000"},"storefront":{"max_concurrency":4}}`)
	t.Setenv("REGIONPRICE_STOREFRONT_MAX_CONCURRENCY", "2")
	t.Setenv("REGIONPRICE_DATABASE_URL", "postgres://localhost/prices")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, 2, cfg.Storefront.MaxConcurrency)
	require.Equal(t, "postgres://localhost/prices", cfg.Database.URL)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, "config.json", `{"storefront":{"max_concurrency":-1}}`)
	_, err := config.Load(path)
	require.ErrorContains(t, err, "max_concurrency")

	path = writeFile(t, "broken.json", `{"server":`)
	_, err = config.Load(path)
	require.ErrorContains(t, err, "read config")
}

func TestDurations(t *testing.T) {
	t.Parallel()

	d := config.Default()
	require.Equal(t, "15s", d.Storefront.Timeout().String())
	// page cache and rate limit are opt-in
	require.Zero(t, d.Storefront.CacheTTL())
	require.Zero(t, d.Storefront.MaxRequestsPerMinute)
	require.Zero(t, d.Storefront.MinInterval())
	require.Equal(t, "10s", d.Rates.Timeout().String())
}
