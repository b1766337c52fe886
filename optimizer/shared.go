package optimizer

import (
	"context"
	"log/slog"
	"sort"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/bundlegraph"
	"github.com/quiltcore/bundler/graphmodel"
)

// sharedCandidate accumulates the assets, source bundles, and summed size
// of one shared-bundle key.
type sharedCandidate struct {
	key     string
	bundles map[bundlegraph.BundleID]bool
	assets  []asset.ID
	size    int64
}

// extractSharedBundles finds every asset contained in more than
// MinBundles splittable bundles (entry bundles included, but not a bundle
// whose main entry is the asset itself), groups them by their exact
// containing-bundle set, and — for groups whose summed size clears
// MinBundleSize and whose bundle-groups all have spare capacity — extracts
// a dedicated shared bundle holding them, removing each asset from its
// former source bundles.
func extractSharedBundles(ctx context.Context, g *asset.Graph, bg *bundlegraph.BundleGraph, logger *slog.Logger) error {
	tunables := bg.Tunables()

	candidates := make(map[string]*sharedCandidate)
	v := &sharingVisitor{g: g, bg: bg, minBundles: tunables.MinBundles, candidates: candidates}
	if err := graphmodel.Walk(ctx, g, v, struct{}{}, graphmodel.WithLogger(logger)); err != nil {
		return err
	}

	ordered := make([]*sharedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.size >= tunables.MinBundleSize {
			ordered = append(ordered, cand)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].size > ordered[j].size })

	for _, cand := range ordered {
		if err := extractOne(ctx, bg, logger, cand, tunables.MaxParallelRequests); err != nil {
			return err
		}
	}
	return nil
}

// sharingVisitor walks the asset graph once, bucketing every asset whose
// containing-bundle set exceeds minBundles. Control.SkipChildren on a hit
// avoids separately evaluating the descendants of an asset that is about
// to move wholesale into a shared bundle.
type sharingVisitor struct {
	g          *asset.Graph
	bg         *bundlegraph.BundleGraph
	minBundles int
	candidates map[string]*sharedCandidate
	visited    map[asset.ID]bool
}

func (v *sharingVisitor) Enter(_ context.Context, node graphmodel.Node, c struct{}) (struct{}, graphmodel.Control, error) {
	if !node.IsAsset() {
		return c, graphmodel.Continue, nil
	}
	id := node.ID()

	if v.visited == nil {
		v.visited = make(map[asset.ID]bool)
	}
	if v.visited[id] {
		return c, graphmodel.SkipChildren, nil
	}
	v.visited[id] = true

	containing := containingSharingBundles(v.bg, id)
	if len(containing) <= v.minBundles {
		return c, graphmodel.Continue, nil
	}

	bundleSet := make([]bundlegraph.BundleID, 0, len(containing))
	for b := range containing {
		bundleSet = append(bundleSet, b)
	}
	key := v.bg.SharedBundleKey(bundleSet)

	cand, ok := v.candidates[key]
	if !ok {
		cand = &sharedCandidate{key: key, bundles: make(map[bundlegraph.BundleID]bool)}
		v.candidates[key] = cand
	}
	for b := range containing {
		cand.bundles[b] = true
	}
	cand.assets = append(cand.assets, id)

	size, err := v.bg.GetTotalSize(id)
	if err != nil {
		return c, graphmodel.Continue, err
	}
	cand.size += size

	return c, graphmodel.SkipChildren, nil
}

func (v *sharingVisitor) Exit(_ context.Context, _ graphmodel.Node, _ struct{}) error {
	return nil
}

// containingSharingBundles returns the set of bundles eligible to count
// toward assetID's shared-bundle candidacy: splittable bundles whose main
// entry, if any, is not assetID itself. An entry bundle's own top-level
// entry asset can never be shared away (it defines the bundle), but the
// same entry bundle can still count as a source when assetID is merely
// duplicated inside it, which is exactly the case the common
// multiple-entries-share-a-module scenario depends on.
func containingSharingBundles(bg *bundlegraph.BundleGraph, assetID asset.ID) map[bundlegraph.BundleID]bool {
	out := make(map[bundlegraph.BundleID]bool)
	for _, bID := range bg.FindBundlesWithAsset(assetID) {
		b, ok := bg.GetBundle(bID)
		if !ok || !b.IsSplittable {
			continue
		}
		if len(b.EntryAssets) > 0 && b.EntryAssets[0] == assetID {
			continue
		}
		out[bID] = true
	}
	return out
}

// extractOne materializes cand as a shared bundle, if every bundle-group
// touched by its source bundles has spare capacity, and relocates its
// assets out of their former bundles.
func extractOne(ctx context.Context, bg *bundlegraph.BundleGraph, logger *slog.Logger, cand *sharedCandidate, maxParallel int) error {
	groups := sharedBundleGroups(bg, cand.bundles)
	for _, gID := range groups {
		members, err := bg.GetBundlesInBundleGroup(gID)
		if err != nil {
			return err
		}
		if len(members) >= maxParallel {
			debugf(ctx, logger, "shared-bundle candidate skipped: group at capacity",
				slog.String("key", cand.key), slog.String("group", string(gID)))
			return nil
		}
	}

	template := sharedBundleTemplate(bg, cand.bundles)

	shared, err := bg.CreateBundle(ctx, bundlegraph.CreateBundleParams{
		UniqueKey:    cand.key,
		Type:         template.Type,
		Env:          template.Env,
		Target:       template.Target,
		IsSplittable: true,
	})
	if err != nil {
		return err
	}

	debugf(ctx, logger, "extracted shared bundle",
		slog.String("bundle", string(shared.ID)), slog.Int("assets", len(cand.assets)))

	for _, gID := range groups {
		if err := bg.AddBundleToBundleGroup(ctx, shared.ID, gID); err != nil {
			return err
		}
	}

	for _, assetID := range cand.assets {
		if err := bg.AddAssetGraphToBundle(ctx, assetID, shared.ID); err != nil {
			return err
		}
		for srcID := range cand.bundles {
			if err := bg.RemoveAssetFromBundle(ctx, srcID, assetID); err != nil {
				return err
			}
		}
	}

	return dedupBundle(ctx, bg, logger, shared.ID)
}

// sharedBundleGroups returns every bundle-group containing any of sources,
// sorted, deduplicated.
func sharedBundleGroups(bg *bundlegraph.BundleGraph, sources map[bundlegraph.BundleID]bool) []bundlegraph.GroupID {
	seen := make(map[bundlegraph.GroupID]bool)
	var out []bundlegraph.GroupID
	for srcID := range sources {
		for _, gID := range bg.GetBundleGroupsContainingBundle(srcID) {
			if !seen[gID] {
				seen[gID] = true
				out = append(out, gID)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sharedBundleTemplate picks one source bundle, by lowest BundleID, to
// inherit Type/Env/Target from — every source bundle containing the same
// candidate assets necessarily shares the same type (Type Homogeneity).
func sharedBundleTemplate(bg *bundlegraph.BundleGraph, sources map[bundlegraph.BundleID]bool) bundlegraph.Bundle {
	ids := make([]bundlegraph.BundleID, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	b, _ := bg.GetBundle(ids[0])
	return b
}
