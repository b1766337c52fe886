package bundlegraph

import (
	"github.com/quiltcore/bundler/asset"
)

// GetBundle returns a snapshot of the bundle with the given ID.
func (bg *BundleGraph) GetBundle(id BundleID) (Bundle, bool) {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	rec, ok := bg.bundles[id]
	if !ok {
		return Bundle{}, false
	}
	return rec.snapshot(), true
}

// GetBundleGroup returns a snapshot of the bundle-group with the given ID.
func (bg *BundleGraph) GetBundleGroup(id GroupID) (BundleGroup, bool) {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	rec, ok := bg.groups[id]
	if !ok {
		return BundleGroup{}, false
	}
	return rec.snapshot(), true
}

// GetDependencyAssets returns the asset IDs dep currently resolves to
// that are present in the underlying asset graph (excludes external
// targets).
func (bg *BundleGraph) GetDependencyAssets(dep asset.ID) []asset.ID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	return bg.resolvedAssetsOf(dep)
}

func (bg *BundleGraph) resolvedAssetsOf(dep asset.ID) []asset.ID {
	d, ok := bg.graph.Dependency(dep)
	if !ok {
		return nil
	}
	var out []asset.ID
	for _, id := range d.Resolve() {
		if _, ok := bg.graph.Asset(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// GetDependencyResolution returns the subset of dep's resolved assets
// currently contained in bundle. Pass a zero BundleID to get every
// resolved asset regardless of containing bundle (equivalent to
// GetDependencyAssets).
func (bg *BundleGraph) GetDependencyResolution(dep asset.ID, bundleID BundleID) []asset.ID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	resolved := bg.resolvedAssetsOf(dep)
	if bundleID == "" {
		return resolved
	}
	bundle, ok := bg.bundles[bundleID]
	if !ok {
		return nil
	}
	var out []asset.ID
	for _, id := range resolved {
		if bundle.assets[id] {
			out = append(out, id)
		}
	}
	return out
}

// GetDependencies returns the dependency IDs declared by assetID, in
// the asset graph's stable order.
func (bg *BundleGraph) GetDependencies(assetID asset.ID) []asset.ID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	return bg.graph.DependenciesOf(assetID)
}

// FindBundlesWithAsset returns every bundle containing assetID, sorted
// by BundleID.
func (bg *BundleGraph) FindBundlesWithAsset(assetID asset.ID) []BundleID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	var out []BundleID
	for id, rec := range bg.bundles {
		if rec.assets[assetID] {
			out = append(out, id)
		}
	}
	sortBundleIDs(out)
	return out
}

// FindBundlesWithDependency returns every bundle containing dep's
// origin asset (the asset that declared dep), sorted by BundleID.
func (bg *BundleGraph) FindBundlesWithDependency(dep asset.ID) []BundleID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	origin, ok := bg.depOrigin[dep]
	if !ok {
		return nil
	}
	var out []BundleID
	for id, rec := range bg.bundles {
		if rec.assets[origin] {
			out = append(out, id)
		}
	}
	sortBundleIDs(out)
	return out
}

// GetBundleGroupsContainingBundle returns every group bundleID is a
// member of, sorted by GroupID.
func (bg *BundleGraph) GetBundleGroupsContainingBundle(bundleID BundleID) []GroupID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	return bg.groupsContaining(bundleID)
}

// groupsContaining returns bundleID's containing groups. Caller must
// hold bg.mu.
func (bg *BundleGraph) groupsContaining(bundleID BundleID) []GroupID {
	var out []GroupID
	for id, rec := range bg.groups {
		if rec.hasBundle(bundleID) {
			out = append(out, id)
		}
	}
	sortGroupIDs(out)
	return out
}

// GetBundlesInBundleGroup returns the ordered member bundles of groupID.
func (bg *BundleGraph) GetBundlesInBundleGroup(groupID GroupID) ([]BundleID, error) {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	group, ok := bg.groups[groupID]
	if !ok {
		return nil, ErrGroupNotFound
	}
	out := make([]BundleID, len(group.bundles))
	copy(out, group.bundles)
	return out, nil
}

// GetReferencedBundles returns every bundle bundleID directly
// bundle-references, sorted by BundleID.
func (bg *BundleGraph) GetReferencedBundles(bundleID BundleID) []BundleID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	var out []BundleID
	for id := range bg.bundleReferences[bundleID] {
		out = append(out, id)
	}
	sortBundleIDs(out)
	return out
}

// GetSiblingBundles returns every bundle that shares at least one
// bundle-group with bundleID, excluding bundleID itself, sorted by
// BundleID.
func (bg *BundleGraph) GetSiblingBundles(bundleID BundleID) []BundleID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	siblings := make(map[BundleID]bool)
	for _, groupID := range bg.groupsContaining(bundleID) {
		for _, member := range bg.groups[groupID].bundles {
			if member != bundleID {
				siblings[member] = true
			}
		}
	}
	out := make([]BundleID, 0, len(siblings))
	for id := range siblings {
		out = append(out, id)
	}
	sortBundleIDs(out)
	return out
}

// GetParentBundlesOfBundleGroup returns every bundle outside groupID
// that bundle-references a member of groupID, sorted by BundleID. An
// entry group (triggered by an isEntry dependency with no referencing
// bundle) has no parents.
func (bg *BundleGraph) GetParentBundlesOfBundleGroup(groupID GroupID) ([]BundleID, error) {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	group, ok := bg.groups[groupID]
	if !ok {
		return nil, ErrGroupNotFound
	}
	members := make(map[BundleID]bool, len(group.bundles))
	for _, b := range group.bundles {
		members[b] = true
	}

	parents := make(map[BundleID]bool)
	for from, tos := range bg.bundleReferences {
		if members[from] {
			continue
		}
		for to := range tos {
			if members[to] {
				parents[from] = true
			}
		}
	}
	out := make([]BundleID, 0, len(parents))
	for id := range parents {
		out = append(out, id)
	}
	sortBundleIDs(out)
	return out, nil
}

// IsAssetInAncestorBundles reports whether assetID is present in an
// ancestor of bundleID for every bundle-group containing bundleID. A
// bundle with no containing groups has no ancestors and returns false.
//
// Ancestry is computed over (a) co-members of a containing group with
// strictly earlier position than bundleID, and (b) bundles that
// transitively reach bundleID via CreateBundleReference.
func (bg *BundleGraph) IsAssetInAncestorBundles(bundleID BundleID, assetID asset.ID) (bool, error) {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	if _, ok := bg.bundles[bundleID]; !ok {
		return false, ErrBundleNotFound
	}

	groups := bg.groupsContaining(bundleID)
	if len(groups) == 0 {
		return false, nil
	}

	referenceAncestors := make(map[BundleID]bool)
	bg.collectReferenceAncestors(bundleID, referenceAncestors, make(map[BundleID]bool))

	for _, groupID := range groups {
		group := bg.groups[groupID]

		ancestors := make(map[BundleID]bool, len(referenceAncestors))
		for id := range referenceAncestors {
			ancestors[id] = true
		}
		for _, member := range group.bundles {
			if member == bundleID {
				break
			}
			ancestors[member] = true
		}

		found := false
		for ancestorID := range ancestors {
			if ancestorID == bundleID {
				continue
			}
			if rec, ok := bg.bundles[ancestorID]; ok && rec.assets[assetID] {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// collectReferenceAncestors accumulates every bundle that transitively
// bundle-references target into acc. Caller must hold bg.mu.
func (bg *BundleGraph) collectReferenceAncestors(target BundleID, acc, visited map[BundleID]bool) {
	for from, tos := range bg.bundleReferences {
		if !tos[target] || visited[from] {
			continue
		}
		visited[from] = true
		acc[from] = true
		bg.collectReferenceAncestors(from, acc, visited)
	}
}

// IsAssetReferencedByDependant reports whether assetID is referenced,
// via CreateAssetReference, by a dependency declared outside bundleID.
func (bg *BundleGraph) IsAssetReferencedByDependant(bundleID BundleID, assetID asset.ID) (bool, error) {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	bundle, ok := bg.bundles[bundleID]
	if !ok {
		return false, ErrBundleNotFound
	}

	for dep, refs := range bg.assetReferences {
		if !refs[assetID] {
			continue
		}
		origin, ok := bg.depOrigin[dep]
		if !ok {
			continue
		}
		if !bundle.assets[origin] {
			return true, nil
		}
	}
	return false, nil
}

// GetTotalSize returns the summed size of the subgraph rooted at
// assetID: assetID plus every asset transitively reachable via
// dependencies that are not split points, of the same type as assetID.
// This is independent of any particular containing bundle — the
// reachability rule is type-homogeneous and split-point-bounded by
// construction, so it yields the same subgraph regardless of which
// bundle eventually holds it.
func (bg *BundleGraph) GetTotalSize(assetID asset.ID) (int64, error) {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	root, ok := bg.graph.Asset(assetID)
	if !ok {
		return 0, ErrAssetNotFound
	}

	var total int64
	for id := range bg.reachableFrom(assetID, root.Type) {
		a, _ := bg.graph.Asset(id)
		total += a.Size
	}
	return total, nil
}

// ResolveExternalDependency returns what an excluded/external dependency
// resolves to, as recorded by RecordExternalDependency.
func (bg *BundleGraph) ResolveExternalDependency(dep asset.ID) (ExternalDependency, bool) {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	ext, ok := bg.externalDeps[dep]
	return ext, ok
}

// AllBundleIDs returns every bundle currently in the graph, sorted by
// BundleID. The Optimizer passes use this to enumerate bundles
// deterministically.
func (bg *BundleGraph) AllBundleIDs() []BundleID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	out := make([]BundleID, 0, len(bg.bundles))
	for id := range bg.bundles {
		out = append(out, id)
	}
	sortBundleIDs(out)
	return out
}

// AllGroupIDs returns every bundle-group currently in the graph, sorted by
// GroupID.
func (bg *BundleGraph) AllGroupIDs() []GroupID {
	bg.mu.RLock()
	defer bg.mu.RUnlock()

	out := make([]GroupID, 0, len(bg.groups))
	for id := range bg.groups {
		out = append(out, id)
	}
	sortGroupIDs(out)
	return out
}

// SharedBundleKey computes the uniqueKey a shared bundle extracted from
// sourceBundles must use, exposed for the Optimizer's shared-bundle
// extraction pass.
func (bg *BundleGraph) SharedBundleKey(sourceBundles []BundleID) string {
	return sharedBundleKey(sourceBundles)
}
