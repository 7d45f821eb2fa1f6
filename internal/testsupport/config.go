// Package testsupport centralizes fixtures shared across package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"sceneflow/internal/config"
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
	cfg.Propagation.BatchLimit = 10
	cfg.Propagation.PollInterval = 1
	cfg.Propagation.ClaimLeaseSeconds = 30

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithClaimLease overrides the claim lease duration in seconds.
func WithClaimLease(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Propagation.ClaimLeaseSeconds = seconds
	}
}

// WithBatchLimit overrides the default batch limit.
func WithBatchLimit(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Propagation.BatchLimit = limit
	}
}
