package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := GetDefaultConfig()
	cfg.Tickets.Secret = "0123456789abcdef"
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "TRACE"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level")
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"

	assert.Error(t, Validate(cfg))
}

func TestValidate_InvalidStoreType(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Type = "redis"

	assert.Error(t, Validate(cfg))
}

func TestValidate_BadgerRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Type = "badger"
	cfg.Store.Path = ""

	assert.Error(t, Validate(cfg))

	cfg.Store.Path = "/var/lib/bytengine/store"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_DiskByteStoreRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.ByteStore.Type = "disk"
	cfg.ByteStore.Path = ""

	assert.Error(t, Validate(cfg))
}

func TestValidate_ShortTicketSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Tickets.Secret = "too-short"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Secret")
}

func TestValidate_NegativeTicketTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Tickets.TTL = -time.Minute

	assert.Error(t, Validate(cfg))
}

func TestValidate_MetricsPortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Port = 70000

	assert.Error(t, Validate(cfg))
}
