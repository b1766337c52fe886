package optimizer

import (
	"context"
	"log/slog"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/bundlegraph"
	"github.com/quiltcore/bundler/diag"
	"github.com/quiltcore/bundler/internal/trace"
)

// Run applies the four optimizer passes to bg in order: reparent splittable
// entries, dedup against ancestors, extract shared bundles, internalize
// async dependencies already reachable statically. Each pass re-establishes
// the overlay's invariants before the next begins; a non-nil error aborts
// the remaining passes, leaving bg in whatever state the completed passes
// produced.
func Run(ctx context.Context, g *asset.Graph, bg *bundlegraph.BundleGraph, opts ...Option) (retResult diag.Result, retErr error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if g == nil || bg == nil {
		return diag.OK(), bundlegraph.ErrNilGraph
	}

	op := trace.Begin(ctx, cfg.logger, "bundler.optimizer.run")
	defer func() { op.End(retErr) }()

	if retErr = reparentSplittableEntries(ctx, bg, cfg.logger); retErr != nil {
		return bg.Result(), retErr
	}
	if retErr = dedupAncestorsAll(ctx, bg, cfg.logger); retErr != nil {
		return bg.Result(), retErr
	}
	if retErr = extractSharedBundles(ctx, g, bg, cfg.logger); retErr != nil {
		return bg.Result(), retErr
	}
	if retErr = internalizeAsyncDependencies(ctx, g, bg, cfg.logger); retErr != nil {
		return bg.Result(), retErr
	}

	return bg.Result(), nil
}

func debugf(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	trace.Debug(ctx, logger, msg, attrs...)
}
