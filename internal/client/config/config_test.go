package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	saved := os.Args
	os.Args = append([]string{"client"}, args...)
	t.Cleanup(func() { os.Args = saved })
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.Equal(t, "http://localhost:3000", cfg.ServerBaseURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 2, cfg.DebounceCount)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "bikes.db", cfg.CacheDSN)
}

func TestLoadConfig_NoSourcesKeepsDefaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:3000", cfg.ServerBaseURL)
	assert.Equal(t, "bikes.db", cfg.CacheDSN)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	path := writeConfigFile(t, `{
		"server_base_url": "http://bikes.example.com",
		"online_check_interval": "5s",
		"request_timeout": "2s",
		"debounce_count": 4,
		"cache_dsn": "/tmp/bikes.db"
	}`)
	withArgs(t, "-c", path)

	cfg := LoadConfig()

	assert.Equal(t, "http://bikes.example.com", cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.DebounceCount)
	assert.Equal(t, "/tmp/bikes.db", cfg.CacheDSN)
}

func TestLoadConfig_JsonPartialOverlay(t *testing.T) {
	path := writeConfigFile(t, `{"cache_dsn": "/tmp/bikes.db"}`)
	withArgs(t, "-c", path)

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/bikes.db", cfg.CacheDSN)
	// Untouched fields keep their defaults.
	assert.Equal(t, "http://localhost:3000", cfg.ServerBaseURL)
	assert.Equal(t, 2, cfg.DebounceCount)
}

func TestLoadConfig_FlagsTakePrecedenceOverJson(t *testing.T) {
	path := writeConfigFile(t, `{"server_base_url": "http://from-json"}`)
	withArgs(t, "-c", path, "-a", "http://from-flag", "-i", "7")

	cfg := LoadConfig()

	assert.Equal(t, "http://from-flag", cfg.ServerBaseURL)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
}
