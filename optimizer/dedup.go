package optimizer

import (
	"context"
	"log/slog"

	"github.com/quiltcore/bundler/bundlegraph"
)

// dedupAncestorsAll applies dedupBundle to every bundle in bg. Bundles in
// an isolated environment and non-splittable bundles are left unchanged —
// they are excluded by dedupBundle's own guard.
//
// Processing order does not affect the result: dedupBundle only ever
// removes assets from the bundle currently being processed, never from one
// of its ancestors, so the ancestor content a later bundle compares against
// is unaffected by whichever bundles were deduped first.
func dedupAncestorsAll(ctx context.Context, bg *bundlegraph.BundleGraph, logger *slog.Logger) error {
	for _, bID := range bg.AllBundleIDs() {
		if err := dedupBundle(ctx, bg, logger, bID); err != nil {
			return err
		}
	}
	return nil
}

// dedupBundle removes any asset of b that is also present in one of b's
// ancestor bundles: the ancestor will already be loaded by the time b's
// code runs, so b no longer needs its own copy. This runs over every
// asset currently attached to b, not just its entry assets — an asset
// pulled in as part of another root's subgraph duplicates an ancestor
// just as much as a registered entry does.
func dedupBundle(ctx context.Context, bg *bundlegraph.BundleGraph, logger *slog.Logger, bID bundlegraph.BundleID) error {
	b, ok := bg.GetBundle(bID)
	if !ok {
		return nil
	}
	if b.Env.IsIsolated() || !b.IsSplittable {
		return nil
	}

	for _, assetID := range b.Assets {
		inAncestor, err := bg.IsAssetInAncestorBundles(bID, assetID)
		if err != nil {
			return err
		}
		if !inAncestor {
			continue
		}
		debugf(ctx, logger, "dropping ancestor-duplicated asset",
			slog.String("bundle", string(bID)), slog.String("asset", string(assetID)))
		if err := bg.RemoveAssetFromBundle(ctx, bID, assetID); err != nil {
			return err
		}
	}
	return nil
}
