package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, DefaultStoreType, cfg.Store.Type)
	assert.Equal(t, DefaultByteStoreType, cfg.ByteStore.Type)
	assert.Equal(t, DefaultMaxUploadSize, cfg.ByteStore.MaxUploadSize)
	assert.Equal(t, DefaultTicketTTL, cfg.Tickets.TTL)
	assert.Equal(t, DefaultMetricsPort, cfg.Metrics.Port)
	assert.Equal(t, DefaultAdminUsername, cfg.Admin.Username)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "debug"
	cfg.Store.Type = "badger"
	cfg.Store.Path = "/data"
	cfg.Tickets.TTL = time.Hour
	cfg.Metrics.Port = 9191
	cfg.Admin.Username = "superuser"

	ApplyDefaults(cfg)

	assert.Equal(t, "DEBUG", cfg.Logging.Level) // normalized to upper case
	assert.Equal(t, "badger", cfg.Store.Type)
	assert.Equal(t, "/data", cfg.Store.Path)
	assert.Equal(t, time.Hour, cfg.Tickets.TTL)
	assert.Equal(t, 9191, cfg.Metrics.Port)
	assert.Equal(t, "superuser", cfg.Admin.Username)
}

func TestGetDefaultConfig_SecretEmpty(t *testing.T) {
	cfg := GetDefaultConfig()

	// The ticket secret is never defaulted; it has to come from the config
	// file or environment.
	assert.Empty(t, cfg.Tickets.Secret)
	assert.Equal(t, DefaultStoreType, cfg.Store.Type)
}
