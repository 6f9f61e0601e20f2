package testsupport

import (
	"path/filepath"
	"testing"

	"mlhdclean/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.MLHDRoot = filepath.Join(base, "mlhd")
	cfgVal.Paths.WriteRoot = filepath.Join(base, "clean")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog", "catalog.db")
	cfgVal.Catalog.SourceDir = filepath.Join(base, "exports")
	cfgVal.Clean.MinFreeGiB = 0

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	MkdirAll(t, builder.cfg.Paths.MLHDRoot)
	return builder.cfg
}

// WithChunkSize overrides clean.chunk_size.
func WithChunkSize(size int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Clean.ChunkSize = size
	}
}

// WithWorkers overrides clean.max_workers.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Clean.MaxWorkers = n
	}
}

// WithLogEpoch overrides clean.log_epoch.
func WithLogEpoch(epoch int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Clean.LogEpoch = epoch
	}
}
