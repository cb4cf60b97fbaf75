package testsupport

import (
	"path/filepath"
	"testing"

	"recut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSpeechEndpoint points the speech collaborator at a test server.
func WithSpeechEndpoint(baseURL, apiKey string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Speech.BaseURL = baseURL
		cfg.Speech.APIKey = apiKey
	}
}

// WithRenderEndpoint points the render collaborator at a test server.
func WithRenderEndpoint(baseURL, apiKey string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Render.BaseURL = baseURL
		cfg.Render.APIKey = apiKey
	}
}
