package bundlegraph

import "log/slog"

// Option configures BundleGraph construction behavior.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	tunables Tunables
}

// WithLogger enables debug logging for bundle-graph operations.
//
// When set, the graph logs mutation boundaries (bundle/group creation,
// membership changes, internalization) at Debug level. Pass nil to
// disable logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithTunables overrides the default Tunables.
func WithTunables(t Tunables) Option {
	return func(cfg *config) {
		cfg.tunables = t
	}
}

// Tunables is the closed set of resource limits the Bundler and
// Optimizer passes honor.
type Tunables struct {
	// MinBundles is the minimum number of containing bundles an asset
	// must exceed to be a shared-bundle candidate.
	MinBundles int

	// MinBundleSize is the minimum total size, in bytes, a shared-bundle
	// candidate must reach to be extracted.
	MinBundleSize int64

	// MaxParallelRequests is the maximum number of bundles any single
	// bundle-group may hold.
	MaxParallelRequests int
}

// DefaultTunables returns the documented defaults: MinBundles=1,
// MinBundleSize=30000, MaxParallelRequests=5.
func DefaultTunables() Tunables {
	return Tunables{
		MinBundles:          1,
		MinBundleSize:       30_000,
		MaxParallelRequests: 5,
	}
}
