package bundler

import (
	"context"
	"log/slog"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/bundlegraph"
	"github.com/quiltcore/bundler/diag"
	"github.com/quiltcore/bundler/graphmodel"
	"github.com/quiltcore/bundler/internal/trace"
)

// Bundle runs Pass 1 over g: a single depth-first traversal that opens a
// bundle-group at every code-split point (entry dependency, async import,
// isolated or inline target) and assigns every other resolved asset to a
// same-type bundle within the enclosing group. It returns the freshly
// built BundleGraph along with any diagnostics collected while building
// it; a non-nil error indicates an internal fault (nil graph, a failed
// BundleGraph mutation, or context cancellation), not an ordinary
// bundling decision. A structural invariant violation is not returned as
// an error: it panics with a *bundlegraph.StructuralError.
func Bundle(ctx context.Context, g *asset.Graph, opts ...Option) (bg *bundlegraph.BundleGraph, result diag.Result, retErr error) {
	cfg := config{tunables: bundlegraph.DefaultTunables()}
	for _, opt := range opts {
		opt(&cfg)
	}

	bg, err := bundlegraph.NewBundleGraph(g, bundlegraph.WithLogger(cfg.logger), bundlegraph.WithTunables(cfg.tunables))
	if err != nil {
		return nil, diag.OK(), err
	}

	op := trace.Begin(ctx, cfg.logger, "bundler.bundler.bundle", slog.Int("asset_count", g.Len()))
	defer func() { op.End(retErr) }()

	v := newVisitor(g, bg, cfg.logger)

	if retErr = graphmodel.Walk(ctx, g, v, Ctx{}, graphmodel.WithLogger(cfg.logger)); retErr != nil {
		return bg, diag.OK(), retErr
	}

	for _, bundleID := range v.bundleOrder {
		for _, root := range v.bundleRoots[bundleID] {
			if retErr = bg.AddAssetGraphToBundle(ctx, root, bundleID); retErr != nil {
				return bg, diag.OK(), retErr
			}
		}
	}

	return bg, bg.Result(), nil
}
