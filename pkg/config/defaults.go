package config

import (
	"strings"
	"time"

	"github.com/marmos91/bytengine/internal/bytesize"
)

// Default values applied when the configuration leaves a field unset.
const (
	DefaultStoreType     = "memory"
	DefaultByteStoreType = "memory"
	DefaultTicketTTL     = 15 * time.Minute
	DefaultMetricsPort   = 9090
	DefaultAdminUsername = "admin"
)

// DefaultMaxUploadSize caps attachment uploads at 100MB unless overridden.
const DefaultMaxUploadSize = bytesize.ByteSize(100 * 1024 * 1024)

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyStoreDefaults(&cfg.Store)
	applyByteStoreDefaults(&cfg.ByteStore)
	applyTicketsDefaults(&cfg.Tickets)
	applyMetricsDefaults(&cfg.Metrics)
	applyAdminDefaults(&cfg.Admin)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyStoreDefaults(cfg *StoreConfig) {
	if cfg.Type == "" {
		cfg.Type = DefaultStoreType
	}
}

func applyByteStoreDefaults(cfg *ByteStoreConfig) {
	if cfg.Type == "" {
		cfg.Type = DefaultByteStoreType
	}
	if cfg.MaxUploadSize == 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}
}

func applyTicketsDefaults(cfg *TicketsConfig) {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTicketTTL
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultMetricsPort
	}
}

func applyAdminDefaults(cfg *AdminConfig) {
	if cfg.Username == "" {
		cfg.Username = DefaultAdminUsername
	}
}

// GetDefaultConfig returns a configuration with every default applied.
// The ticket secret is intentionally left empty: a real secret must come
// from the config file or BYTENGINE_TICKETS_SECRET.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
