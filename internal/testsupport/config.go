package testsupport

import (
	"path/filepath"
	"testing"

	"mudlark/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose dump and log paths live in a unique temp
// directory per test. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Normalise.Seed = 1
	cfgVal.Dataset.Workers = 2
	cfgVal.Dumps.MappingDBPath = filepath.Join(base, "mappings.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithAnonymisation turns on identifier anonymisation in the text column.
func WithAnonymisation() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Normalise.AnonymiseText = true
	}
}

// WithOutputFormat selects csv or quickgraph output.
func WithOutputFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dataset.OutputFormat = format
	}
}

// WithColumnConfig writes body as the YAML column config and points the
// config at it.
func WithColumnConfig(body string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "columns.yaml")
		WriteFile(b.t, path, body)
		b.cfg.Dataset.ColumnConfigPath = path
	}
}

// WithDumps enables the terms and column mapping dump files.
func WithDumps() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dumps.AnonymisedTermsPath = filepath.Join(b.baseDir, "dumps", "terms.csv")
		b.cfg.Dumps.ColumnMappingsPath = filepath.Join(b.baseDir, "dumps", "columns.json")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Dumps.MappingDBPath)
}
