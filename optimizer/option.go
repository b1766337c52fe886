package optimizer

import "log/slog"

// Option configures a Run invocation.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger enables debug logging for the optimizer passes.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
