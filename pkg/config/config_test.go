package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/bytengine/internal/bytesize"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: debug
  format: json
  output: stderr
store:
  type: badger
  path: /var/lib/bytengine/store
bytestore:
  type: disk
  path: /var/lib/bytengine/blobs
  max_upload_size: "1Gi"
tickets:
  secret: "0123456789abcdef"
  ttl: "30m"
metrics:
  enabled: true
  port: 9191
admin:
  username: root_admin
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level) // normalized
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "badger", cfg.Store.Type)
	assert.Equal(t, "/var/lib/bytengine/store", cfg.Store.Path)
	assert.Equal(t, "disk", cfg.ByteStore.Type)
	assert.Equal(t, bytesize.ByteSize(1<<30), cfg.ByteStore.MaxUploadSize)
	assert.Equal(t, 30*time.Minute, cfg.Tickets.TTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
	assert.Equal(t, "root_admin", cfg.Admin.Username)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, DefaultStoreType, cfg.Store.Type)
	assert.Equal(t, DefaultByteStoreType, cfg.ByteStore.Type)
	assert.Equal(t, DefaultTicketTTL, cfg.Tickets.TTL)
	assert.Equal(t, DefaultMaxUploadSize, cfg.ByteStore.MaxUploadSize)
}

func TestLoad_PartialConfigFillsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
tickets:
  secret: "0123456789abcdef"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, DefaultMetricsPort, cfg.Metrics.Port)
	assert.Equal(t, DefaultAdminUsername, cfg.Admin.Username)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "logging: [not: valid")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BYTENGINE_LOGGING_LEVEL", "ERROR")

	path := writeConfigFile(t, `
logging:
  level: info
tickets:
  secret: "0123456789abcdef"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ERROR", cfg.Logging.Level)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Tickets.Secret = "0123456789abcdef"
	cfg.Store.Type = "badger"
	cfg.Store.Path = "/data/store"

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Store.Type, loaded.Store.Type)
	assert.Equal(t, cfg.Store.Path, loaded.Store.Path)
	assert.Equal(t, cfg.Tickets.Secret, loaded.Tickets.Secret)
}

func TestMustLoad_MissingExplicitFile(t *testing.T) {
	_, err := MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bytengine init")
}
