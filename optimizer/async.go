package optimizer

import (
	"context"
	"log/slog"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/bundlegraph"
)

// internalizeAsyncDependencies finds every non-entry async dependency whose
// unique resolution is already guaranteed to be loaded before the loader
// call would run — because some bundle containing the dependency already
// holds that asset itself, or inherits it from an ancestor — and elides the
// loader by internalizing the dependency there. A dependency's
// bundle-group is removed once every bundle declaring that dependency has
// internalized it: no code path still needs to trigger the dynamic load.
func internalizeAsyncDependencies(ctx context.Context, g *asset.Graph, bg *bundlegraph.BundleGraph, logger *slog.Logger) error {
	groupByDep := make(map[asset.ID]bundlegraph.GroupID)
	for _, gID := range bg.AllGroupIDs() {
		group, ok := bg.GetBundleGroup(gID)
		if !ok {
			continue
		}
		groupByDep[group.Dependency] = gID
	}

	var asyncDeps []asset.ID

	for _, assetID := range g.AssetIDs() {
		for _, depID := range g.DependenciesOf(assetID) {
			dep, ok := g.Dependency(depID)
			if !ok || !dep.IsAsync || dep.IsEntry {
				continue
			}

			resolved := bg.GetDependencyAssets(depID)
			if len(resolved) != 1 {
				continue
			}
			target := resolved[0]

			if _, ok := groupByDep[depID]; !ok {
				continue
			}
			asyncDeps = append(asyncDeps, depID)

			for _, bID := range bg.FindBundlesWithDependency(depID) {
				b, ok := bg.GetBundle(bID)
				if !ok {
					continue
				}
				hasTarget := contains(b.Assets, target)

				inAncestor := false
				if !hasTarget {
					var err error
					inAncestor, err = bg.IsAssetInAncestorBundles(bID, target)
					if err != nil {
						return err
					}
				}

				if !hasTarget && !inAncestor {
					continue
				}

				debugf(ctx, logger, "internalizing async dependency",
					slog.String("bundle", string(bID)), slog.String("dep", string(depID)))
				if err := bg.InternalizeAsyncDependency(ctx, bID, depID); err != nil {
					return err
				}
			}
		}
	}

	for _, depID := range asyncDeps {
		groupID := groupByDep[depID]

		origins := bg.FindBundlesWithDependency(depID)
		stillNeeded := false
		for _, bID := range origins {
			if !bg.IsInternalized(bID, depID) {
				stillNeeded = true
				break
			}
		}
		if stillNeeded {
			continue
		}

		debugf(ctx, logger, "removing orphaned async bundle-group", slog.String("group", string(groupID)))
		if err := bg.RemoveBundleGroup(ctx, groupID); err != nil {
			return err
		}
	}
	return nil
}

func contains(ids []asset.ID, target asset.ID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
