package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/bytengine/internal/logger"
	authmem "github.com/marmos91/bytengine/pkg/auth/memory"
	"github.com/marmos91/bytengine/pkg/bytestore"
	bytesdisk "github.com/marmos91/bytengine/pkg/bytestore/disk"
	bytesmem "github.com/marmos91/bytengine/pkg/bytestore/memory"
	"github.com/marmos91/bytengine/pkg/config"
	"github.com/marmos91/bytengine/pkg/content"
	badgerstore "github.com/marmos91/bytengine/pkg/content/store/badger"
	memstore "github.com/marmos91/bytengine/pkg/content/store/memory"
	"github.com/marmos91/bytengine/pkg/engine"
	"github.com/marmos91/bytengine/pkg/metrics"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// BuildEngine wires an engine from configuration: content store, bytestore,
// authenticator and metrics. The returned close function releases both
// stores.
func BuildEngine(cfg *config.Config) (*engine.Engine, func() error, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	blobs, err := buildByteStore(cfg)
	if err != nil {
		store.Close() //nolint:errcheck
		return nil, nil, err
	}

	svc := content.NewService(store, blobs, content.ServiceConfig{
		CopyAttachmentRefs: true,
		TicketSecret:       []byte(cfg.Tickets.Secret),
		TicketTTL:          cfg.Tickets.TTL,
		MaxUploadBytes:     int64(cfg.ByteStore.MaxUploadSize),
	})

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics(prometheus.DefaultRegisterer)
	}

	eng := engine.NewEngine(svc, authmem.NewAuthenticator(), m)

	closeAll := func() error {
		blobErr := blobs.Close()
		if err := store.Close(); err != nil {
			return err
		}
		return blobErr
	}
	return eng, closeAll, nil
}

func buildStore(cfg *config.Config) (content.Store, error) {
	switch cfg.Store.Type {
	case "badger":
		return badgerstore.NewStore(cfg.Store.Path)
	default:
		return memstore.NewStore(), nil
	}
}

func buildByteStore(cfg *config.Config) (bytestore.Store, error) {
	switch cfg.ByteStore.Type {
	case "disk":
		return bytesdisk.New(cfg.ByteStore.Path)
	default:
		return bytesmem.New(), nil
	}
}
