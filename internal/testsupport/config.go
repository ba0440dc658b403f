// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"reelsmith/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp log directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Server.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.LLM.Azure.APIKey = "test"
	cfg.LLM.Google.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkers overrides the pipeline worker bound on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.MaxWorkers = workers
	}
}

// WithRecommendations toggles the optional recommendation stage.
func WithRecommendations(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.RecommendationsEnabled = enabled
	}
}
