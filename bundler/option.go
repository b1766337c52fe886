package bundler

import (
	"log/slog"

	"github.com/quiltcore/bundler/bundlegraph"
)

// Option configures a Bundle call.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	tunables bundlegraph.Tunables
}

// WithLogger enables debug logging for the traversal and for the
// BundleGraph it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithTunables overrides the default Tunables carried by the resulting
// BundleGraph, consulted by the Optimizer passes.
func WithTunables(t bundlegraph.Tunables) Option {
	return func(cfg *config) {
		cfg.tunables = t
	}
}
