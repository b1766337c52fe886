package bundler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/bundlegraph"
	"github.com/quiltcore/bundler/diag"
	"github.com/quiltcore/bundler/graphmodel"
	"github.com/quiltcore/bundler/internal/trace"
)

// visitor implements graphmodel.Visitor[Ctx], enforcing the traversal's
// bundle-assignment rules. The maps below are pass-global bookkeeping, not per-group
// traversal state, and so live on the visitor rather than in Ctx:
// bundleRoots records every entry asset a bundle must absorb at
// finalization; bundlesByEntryAsset lets a later asset-node visit
// recognize it's re-entering a bundle's own entry; siblingBundlesByAsset
// lets a DAG-shared asset's previously-created type-sibling bundles be
// reattached to a new bundle-group on re-entry.
type visitor struct {
	g      *asset.Graph
	bg     *bundlegraph.BundleGraph
	logger *slog.Logger

	bundleOrder           []bundlegraph.BundleID
	bundleRoots           map[bundlegraph.BundleID][]asset.ID
	bundlesByEntryAsset   map[asset.ID]bundlegraph.BundleID
	siblingBundlesByAsset map[asset.ID][]bundlegraph.BundleID
}

func newVisitor(g *asset.Graph, bg *bundlegraph.BundleGraph, logger *slog.Logger) *visitor {
	return &visitor{
		g:                     g,
		bg:                    bg,
		logger:                logger,
		bundleRoots:           make(map[bundlegraph.BundleID][]asset.ID),
		bundlesByEntryAsset:   make(map[asset.ID]bundlegraph.BundleID),
		siblingBundlesByAsset: make(map[asset.ID][]bundlegraph.BundleID),
	}
}

func (v *visitor) Enter(ctx context.Context, node graphmodel.Node, c Ctx) (Ctx, graphmodel.Control, error) {
	if node.IsAsset() {
		return v.enterAsset(node.ID(), c)
	}
	return v.enterDependency(ctx, node.ID(), c)
}

func (v *visitor) Exit(_ context.Context, _ graphmodel.Node, _ Ctx) error {
	return nil
}

// enterAsset updates parentNode and, if this asset is itself a bundle's
// entry asset, parentBundle. Otherwise context is unchanged.
func (v *visitor) enterAsset(id asset.ID, c Ctx) (Ctx, graphmodel.Control, error) {
	next := c
	next.parentNode = id
	if bundleID, ok := v.bundlesByEntryAsset[id]; ok {
		next.parentBundle = bundleID
	}
	return next, graphmodel.Continue, nil
}

func (v *visitor) enterDependency(ctx context.Context, depID asset.ID, c Ctx) (Ctx, graphmodel.Control, error) {
	dep, ok := v.g.Dependency(depID)
	if !ok {
		return c, graphmodel.Continue, nil
	}

	raw := dep.Resolve()
	var resolved []asset.Asset
	for _, id := range raw {
		a, ok := v.g.Asset(id)
		if !ok {
			// Target exists in the resolver's output but not in this
			// graph: an excluded/external dependency, not an unresolved
			// one. Record it for the packager and do not descend into it.
			v.bg.RecordExternalDependency(depID, bundlegraph.ExternalDependency{
				Kind:  bundlegraph.ExternalAsset,
				Asset: id,
			})
			continue
		}
		resolved = append(resolved, a)
	}
	if len(resolved) == 0 {
		if len(raw) == 0 && dep.IsRequired() {
			v.bg.CollectIssue(diag.NewIssue(diag.Error, diag.E_UNRESOLVED_REQUIRED,
				fmt.Sprintf("required dependency %q resolved to no target assets", depID)).
				WithAsset(string(c.parentNode)).
				WithDetails(diag.UnresolvedDependency(string(c.parentNode), "empty")...).
				Build())
		}
		// Optional/deferred dependencies with no resolution, and wholly-
		// external resolutions, are silently skipped.
		return c, graphmodel.SkipChildren, nil
	}

	opensNewGroup := dep.IsEntry || dep.IsAsync
	if !opensNewGroup {
		for _, a := range resolved {
			if a.IsIsolated || a.IsInline {
				opensNewGroup = true
				break
			}
		}
	}

	if opensNewGroup {
		return v.newBundleGroupBranch(ctx, depID, dep, resolved, c)
	}
	return v.sameGroupBranch(ctx, depID, dep, resolved, c)
}

// newBundleGroupBranch implements rule 1: opens a bundle-group and gives
// every resolved asset its own bundle within it.
func (v *visitor) newBundleGroupBranch(ctx context.Context, depID asset.ID, dep asset.Dependency, resolved []asset.Asset, c Ctx) (Ctx, graphmodel.Control, error) {
	target := dep.Target
	if target == (asset.Target{}) {
		target = v.groupTarget(c)
	}

	group := v.bg.CreateBundleGroup(ctx, depID, target)
	trace.Debug(ctx, v.logger, "opened bundle-group",
		slog.String("dep", string(depID)), slog.String("group", string(group.ID)))

	next := Ctx{
		bundleGroup:           group.ID,
		bundleGroupDependency: depID,
		bundleByType:          make(map[string]bundlegraph.BundleID),
	}

	for _, a := range resolved {
		isEntry := dep.IsEntry
		if a.IsIsolated {
			isEntry = false
		}

		bundle, err := v.bg.CreateBundle(ctx, bundlegraph.CreateBundleParams{
			EntryAsset:   a.ID,
			Type:         a.Type,
			Env:          a.Env,
			Target:       target,
			IsEntry:      isEntry,
			IsInline:     a.IsInline,
			IsSplittable: true,
		})
		if err != nil {
			return c, graphmodel.Continue, err
		}

		next.bundleByType[bundle.Type] = bundle.ID
		v.registerBundle(bundle.ID, a.ID)

		if err := v.bg.AddBundleToBundleGroup(ctx, bundle.ID, group.ID); err != nil {
			return c, graphmodel.Continue, err
		}

		if c.parentBundle != "" {
			if err := v.bg.CreateBundleReference(ctx, c.parentBundle, bundle.ID); err != nil {
				return c, graphmodel.Continue, err
			}
		}
	}

	return next, graphmodel.Continue, nil
}

// sameGroupBranch implements rule 2: resolved assets of the parent's type
// stay in the current bundle (propagating any DAG-shared type-sibling
// bundles); assets of a different type get a parallel bundle per distinct
// type within the same group.
func (v *visitor) sameGroupBranch(ctx context.Context, depID asset.ID, _ asset.Dependency, resolved []asset.Asset, c Ctx) (Ctx, graphmodel.Control, error) {
	parentAsset, hasParent := v.g.Asset(c.parentNode)

	allSameType := hasParent
	if hasParent {
		for _, a := range resolved {
			if a.Type != parentAsset.Type {
				allSameType = false
				break
			}
		}
	}

	for _, a := range resolved {
		if hasParent && a.Type == parentAsset.Type {
			if err := v.propagateSibling(ctx, a.ID, parentAsset.ID, c.bundleGroup, allSameType); err != nil {
				return c, graphmodel.Continue, err
			}
			continue
		}

		if err := v.parallelTypeBundle(ctx, depID, a, parentAsset, hasParent, c); err != nil {
			return c, graphmodel.Continue, err
		}
	}

	return c, graphmodel.Continue, nil
}

// propagateSibling handles a same-type resolved asset: reattach its
// recorded type-sibling bundles to the current group on DAG re-entry, or
// record a fresh sibling list (seeded from the parent's, if every
// resolved asset this visit shares the parent's type) the first time this
// asset is seen.
func (v *visitor) propagateSibling(ctx context.Context, assetID, parentID asset.ID, group bundlegraph.GroupID, allSameType bool) error {
	existing, recorded := v.siblingBundlesByAsset[assetID]
	switch {
	case recorded && allSameType && len(existing) > 0:
		for _, sib := range existing {
			if err := v.bg.AddBundleToBundleGroup(ctx, sib, group); err != nil {
				return err
			}
		}
	case !recorded:
		var seed []bundlegraph.BundleID
		if allSameType {
			seed = append(seed, v.siblingBundlesByAsset[parentID]...)
		}
		v.siblingBundlesByAsset[assetID] = seed
	}
	return nil
}

// parallelTypeBundle handles a resolved asset whose type differs from its
// parent asset's type: route it into the group's existing bundle of that
// type, or create one.
func (v *visitor) parallelTypeBundle(ctx context.Context, depID asset.ID, a, parentAsset asset.Asset, hasParent bool, c Ctx) error {
	if bundleID, ok := c.bundleByType[a.Type]; ok {
		v.bundleRoots[bundleID] = append(v.bundleRoots[bundleID], a.ID)
		return v.bg.CreateAssetReference(ctx, depID, a.ID)
	}

	bundle, err := v.bg.CreateBundle(ctx, bundlegraph.CreateBundleParams{
		EntryAsset:   a.ID,
		Type:         a.Type,
		Env:          a.Env,
		Target:       v.groupTarget(c),
		IsInline:     a.IsInline,
		IsSplittable: true,
	})
	if err != nil {
		return err
	}

	c.bundleByType[a.Type] = bundle.ID
	v.registerBundle(bundle.ID, a.ID)
	if hasParent {
		v.siblingBundlesByAsset[parentAsset.ID] = append(v.siblingBundlesByAsset[parentAsset.ID], bundle.ID)
	}

	if err := v.bg.CreateAssetReference(ctx, depID, a.ID); err != nil {
		return err
	}
	if c.parentBundle != "" {
		if err := v.bg.CreateBundleReference(ctx, c.parentBundle, bundle.ID); err != nil {
			return err
		}
	}
	return v.bg.AddBundleToBundleGroup(ctx, bundle.ID, c.bundleGroup)
}

// registerBundle records a freshly created bundle's bookkeeping, shared by
// both branches.
func (v *visitor) registerBundle(bundleID bundlegraph.BundleID, entryAsset asset.ID) {
	v.bundleOrder = append(v.bundleOrder, bundleID)
	v.bundleRoots[bundleID] = append(v.bundleRoots[bundleID], entryAsset)
	v.bundlesByEntryAsset[entryAsset] = bundleID
	if _, recorded := v.siblingBundlesByAsset[entryAsset]; !recorded {
		v.siblingBundlesByAsset[entryAsset] = nil
	}
}

func (v *visitor) groupTarget(c Ctx) asset.Target {
	if c.bundleGroup == "" {
		return asset.Target{}
	}
	group, ok := v.bg.GetBundleGroup(c.bundleGroup)
	if !ok {
		return asset.Target{}
	}
	return group.Target
}
