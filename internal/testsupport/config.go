package testsupport

import (
	"path/filepath"
	"testing"

	"cinematch/internal/config"
	"cinematch/internal/dataset"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose paths live in a per-test temp directory.
// Logging is quiet and the ledger enabled unless options say otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Dataset = filepath.Join(base, "data", "movies.csv")
	cfgVal.Paths.Artifact = filepath.Join(base, "models", "similarity.bin")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithMovies writes movies as the dataset CSV.
func WithMovies(movies ...dataset.Movie) ConfigOption {
	return func(b *configBuilder) {
		WriteMovies(b.t, b.cfg.Paths.Dataset, movies)
	}
}

// WithDatasetCSV writes raw CSV text as the dataset.
func WithDatasetCSV(contents string) ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Paths.Dataset, contents)
	}
}

// WithNorm sets the vectorizer row normalization.
func WithNorm(norm string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Vectorizer.Norm = norm
	}
}

// WithLedgerDisabled turns off build history.
func WithLedgerDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}
