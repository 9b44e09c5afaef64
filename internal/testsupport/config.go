package testsupport

import (
	"path/filepath"
	"testing"

	"streamsched/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ConfigFile = filepath.Join(base, "data", "config.json")
	cfgVal.Paths.APIBind = "127.0.0.1:0"

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

// WithAPIToken sets the bearer token required by the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithFreeTextEditor switches the editor to the free-text time variant.
func WithFreeTextEditor() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Editor.Variant = config.EditorVariantFreeText
	}
}

// WithExportScope overrides the overlay export scope.
func WithExportScope(scope string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Overlay.ExportScope = scope
	}
}

// WithRateLimit sets the per-IP request budget per minute.
func WithRateLimit(perMinute int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Overlay.RateLimit = perMinute
	}
}
