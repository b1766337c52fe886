package optimizer

import (
	"context"
	"log/slog"

	"github.com/quiltcore/bundler/bundlegraph"
)

// reparentSplittableEntries implements the reparenting pass: a splittable,
// non-inline bundle B whose main entry asset E is already duplicated inside
// another splittable, non-inline, non-entry bundle C is folded, with its
// non-inline referenced siblings, into every one of C's bundle-groups, and
// E's subgraph is dropped from C — the loader that already pulls in B no
// longer needs its own copy. C is left untouched unless all of its groups
// have room for the additions.
func reparentSplittableEntries(ctx context.Context, bg *bundlegraph.BundleGraph, logger *slog.Logger) error {
	maxParallel := bg.Tunables().MaxParallelRequests

	for _, bID := range bg.AllBundleIDs() {
		b, ok := bg.GetBundle(bID)
		if !ok || !b.IsSplittable || b.IsInline || len(b.EntryAssets) == 0 {
			continue
		}
		mainEntry := b.EntryAssets[0]

		siblings := nonInlineSiblings(bg, bID)
		additions := append([]bundlegraph.BundleID{bID}, siblings...)

		for _, cID := range bg.FindBundlesWithAsset(mainEntry) {
			if cID == bID {
				continue
			}
			c, ok := bg.GetBundle(cID)
			if !ok || !c.IsSplittable || c.IsInline || c.IsEntry {
				continue
			}

			groups := bg.GetBundleGroupsContainingBundle(cID)
			if len(groups) == 0 || !allGroupsHaveRoom(bg, groups, additions, maxParallel) {
				continue
			}

			debugf(ctx, logger, "reparenting bundle",
				slog.String("bundle", string(bID)), slog.String("from", string(cID)), slog.String("entry", string(mainEntry)))

			for _, gID := range groups {
				for _, add := range additions {
					if err := bg.AddBundleToBundleGroup(ctx, add, gID); err != nil {
						return err
					}
				}
			}
			if err := bg.RemoveAssetGraphFromBundle(ctx, mainEntry, cID); err != nil {
				return err
			}
		}
	}
	return nil
}

// nonInlineSiblings returns the non-inline bundles bID directly references.
func nonInlineSiblings(bg *bundlegraph.BundleGraph, bID bundlegraph.BundleID) []bundlegraph.BundleID {
	var out []bundlegraph.BundleID
	for _, refID := range bg.GetReferencedBundles(bID) {
		ref, ok := bg.GetBundle(refID)
		if ok && !ref.IsInline {
			out = append(out, refID)
		}
	}
	return out
}

// allGroupsHaveRoom reports whether every group in groups has capacity for
// the members of additions it does not already contain, without exceeding
// maxParallel total members.
func allGroupsHaveRoom(bg *bundlegraph.BundleGraph, groups []bundlegraph.GroupID, additions []bundlegraph.BundleID, maxParallel int) bool {
	for _, gID := range groups {
		members, err := bg.GetBundlesInBundleGroup(gID)
		if err != nil {
			return false
		}
		present := make(map[bundlegraph.BundleID]bool, len(members))
		for _, m := range members {
			present[m] = true
		}
		newCount := 0
		for _, add := range additions {
			if !present[add] {
				newCount++
			}
		}
		if len(members)+newCount > maxParallel {
			return false
		}
	}
	return true
}
