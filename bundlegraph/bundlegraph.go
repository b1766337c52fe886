package bundlegraph

import (
	"context"
	"log/slog"
	"sync"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/diag"
	"github.com/quiltcore/bundler/internal/trace"
)

// BundleGraph is the mutable overlay the Bundler and Optimizer passes
// build on top of a read-only [asset.Graph]: bundles, bundle-groups,
// their membership, and the reference edges the packager needs to
// rewrite require() calls and elide loader calls for internalized async
// imports.
//
// BundleGraph's maps are guarded by a mutex so read-only queries remain
// safe to call from a concurrent external reporter; this does not imply
// concurrent passes — passes run strictly in order, one at a time,
// against a single instance.
type BundleGraph struct {
	mu     sync.RWMutex
	logger *slog.Logger

	graph    *asset.Graph
	tunables Tunables

	bundles map[BundleID]*bundleRecord
	groups  map[GroupID]*groupRecord

	// bundleReferences[from][to] records "from references to" (A's code
	// causes B to load).
	bundleReferences map[BundleID]map[BundleID]bool

	// assetReferences[dep][asset] records a createAssetReference call:
	// dependency dep resolves to asset in a bundle other than dep's
	// origin asset's bundle.
	assetReferences map[asset.ID]map[asset.ID]bool

	// internalized[bundle][dep] records an internalized async dependency.
	internalized map[BundleID]map[asset.ID]bool

	externalDeps map[asset.ID]ExternalDependency

	// depOrigin[dep] is the asset.ID that declared dep, precomputed once
	// from the asset graph so asset-reference and dependency queries
	// don't need a reverse scan on every call.
	depOrigin map[asset.ID]asset.ID

	uniqueKeyIndex map[string]BundleID

	collector *diag.Collector
}

// NewBundleGraph builds an empty BundleGraph over g. g is never mutated.
func NewBundleGraph(g *asset.Graph, opts ...Option) (*BundleGraph, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	cfg := config{tunables: DefaultTunables()}
	for _, opt := range opts {
		opt(&cfg)
	}

	depOrigin := make(map[asset.ID]asset.ID)
	for _, assetID := range g.AssetIDs() {
		for _, depID := range g.DependenciesOf(assetID) {
			depOrigin[depID] = assetID
		}
	}

	return &BundleGraph{
		logger:           cfg.logger,
		graph:            g,
		tunables:         cfg.tunables,
		bundles:          make(map[BundleID]*bundleRecord),
		groups:           make(map[GroupID]*groupRecord),
		bundleReferences: make(map[BundleID]map[BundleID]bool),
		assetReferences:  make(map[asset.ID]map[asset.ID]bool),
		internalized:     make(map[BundleID]map[asset.ID]bool),
		externalDeps:     make(map[asset.ID]ExternalDependency),
		depOrigin:        depOrigin,
		uniqueKeyIndex:   make(map[string]BundleID),
		collector:        diag.NewCollectorUnlimited(),
	}, nil
}

// Tunables returns the resource limits this graph was built with.
func (bg *BundleGraph) Tunables() Tunables {
	return bg.tunables
}

// Result returns a snapshot of every diagnostic issue collected so far.
func (bg *BundleGraph) Result() diag.Result {
	return bg.collector.Result()
}

// CollectIssue records a diagnostic issue raised by a Bundler or Optimizer
// pass outside this package (such as an unresolved required dependency)
// without exposing the underlying collector.
func (bg *BundleGraph) CollectIssue(issue diag.Issue) {
	bg.collector.Collect(issue)
}

// CreateBundleGroup creates a new, empty bundle-group triggered by dep.
func (bg *BundleGraph) CreateBundleGroup(ctx context.Context, dep asset.ID, target asset.Target) BundleGroup {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.createBundleGroup",
		slog.String("dep", string(dep)))
	defer func() { op.End(nil) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	rec := &groupRecord{id: newGroupID(), dep: dep, target: target}
	bg.groups[rec.id] = rec
	return rec.snapshot()
}

// CreateBundle creates a new bundle. Either params.EntryAsset or
// params.UniqueKey must be set; CreateBundle returns
// [ErrInvalidBundleParams] otherwise.
func (bg *BundleGraph) CreateBundle(ctx context.Context, params CreateBundleParams) (retBundle Bundle, retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.createBundle",
		slog.String("type", params.Type), slog.String("uniqueKey", params.UniqueKey))
	defer func() { op.End(retErr) }()

	if params.EntryAsset == "" && params.UniqueKey == "" {
		retErr = ErrInvalidBundleParams
		return Bundle{}, retErr
	}

	bg.mu.Lock()
	defer bg.mu.Unlock()

	rec := &bundleRecord{
		id:           newBundleID(),
		bundleType:   params.Type,
		env:          params.Env,
		target:       params.Target,
		isEntry:      params.IsEntry,
		isInline:     params.IsInline,
		isSplittable: params.IsSplittable,
		uniqueKey:    params.UniqueKey,
		assets:       make(map[asset.ID]bool),
	}
	if params.EntryAsset != "" {
		rec.entryAssets = []asset.ID{params.EntryAsset}
	}

	if params.UniqueKey != "" {
		if existing, collides := bg.uniqueKeyIndex[params.UniqueKey]; collides {
			trace.Warn(ctx, bg.logger, "shared-bundle key collision",
				slog.String("uniqueKey", params.UniqueKey), slog.String("existing", string(existing)))
			bg.collector.Collect(diag.NewIssue(diag.Error, diag.E_SHARED_BUNDLE_KEY_COLLISION,
				"shared-bundle uniqueKey collides with an existing bundle").
				WithBundle(string(rec.id)).
				WithDetail(diag.DetailKeyUniqueKey, params.UniqueKey).
				WithDetail(diag.DetailKeyBundleID, string(existing)).
				Build())
		}
		bg.uniqueKeyIndex[params.UniqueKey] = rec.id
	}

	bg.bundles[rec.id] = rec
	return rec.snapshot(), nil
}

// AddBundleToBundleGroup attaches bundle to group. Idempotent.
func (bg *BundleGraph) AddBundleToBundleGroup(ctx context.Context, bundleID BundleID, groupID GroupID) (retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.addBundleToBundleGroup",
		slog.String("bundle", string(bundleID)), slog.String("group", string(groupID)))
	defer func() { op.End(retErr) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	if _, ok := bg.bundles[bundleID]; !ok {
		retErr = ErrBundleNotFound
		return retErr
	}
	group, ok := bg.groups[groupID]
	if !ok {
		retErr = ErrGroupNotFound
		return retErr
	}
	if group.hasBundle(bundleID) {
		return nil
	}
	group.bundles = append(group.bundles, bundleID)
	return nil
}

// AddAssetGraphToBundle attaches rootID and every asset transitively
// reachable via dependencies that are not themselves across a split
// point (async, or a resolved target that is isolated or inline) to
// bundle. Idempotent per asset per bundle.
func (bg *BundleGraph) AddAssetGraphToBundle(ctx context.Context, rootID asset.ID, bundleID BundleID) (retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.addAssetGraphToBundle",
		slog.String("asset", string(rootID)), slog.String("bundle", string(bundleID)))
	defer func() { op.End(retErr) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	bundle, ok := bg.bundles[bundleID]
	if !ok {
		retErr = ErrBundleNotFound
		return retErr
	}
	root, ok := bg.graph.Asset(rootID)
	if !ok {
		retErr = ErrAssetNotFound
		return retErr
	}
	if root.Type != bundle.bundleType {
		panicStructural(diag.E_TYPE_MISMATCH, "asset added to a bundle of a different type",
			func(b *diag.IssueBuilder) *diag.IssueBuilder {
				return b.WithAsset(string(rootID)).WithBundle(string(bundleID)).
					WithDetails(diag.ExpectedGot(bundle.bundleType, root.Type)...)
			})
	}

	for id := range bg.reachableFrom(rootID, bundle.bundleType) {
		bundle.assets[id] = true
	}

	for _, e := range bundle.entryAssets {
		if e == rootID {
			return nil
		}
	}
	bundle.entryAssets = append(bundle.entryAssets, rootID)
	return nil
}

// RemoveAssetGraphFromBundle removes rootID's subgraph from bundle,
// preserving any asset still reachable from one of bundle's other entry
// assets.
func (bg *BundleGraph) RemoveAssetGraphFromBundle(ctx context.Context, rootID asset.ID, bundleID BundleID) (retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.removeAssetGraphFromBundle",
		slog.String("asset", string(rootID)), slog.String("bundle", string(bundleID)))
	defer func() { op.End(retErr) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	bundle, ok := bg.bundles[bundleID]
	if !ok {
		retErr = ErrBundleNotFound
		return retErr
	}

	idx := -1
	for i, e := range bundle.entryAssets {
		if e == rootID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	candidate := bg.reachableFrom(rootID, bundle.bundleType)

	keep := make(map[asset.ID]bool)
	for i, e := range bundle.entryAssets {
		if i == idx {
			continue
		}
		for id := range bg.reachableFrom(e, bundle.bundleType) {
			keep[id] = true
		}
	}

	for id := range candidate {
		if !keep[id] {
			delete(bundle.assets, id)
		}
	}

	bundle.entryAssets = append(bundle.entryAssets[:idx], bundle.entryAssets[idx+1:]...)
	return nil
}

// RemoveAssetFromBundle removes a single asset from bundle's contents,
// without walking its subgraph or touching entryAssets beyond dropping
// assetID itself if present there. Shared-bundle extraction operates at
// individual-asset granularity — an asset it relocates was often pulled
// into its source bundle only as part of another root's subgraph, so the
// root-scoped RemoveAssetGraphFromBundle cannot express "drop just this
// one" without disturbing the rest of that subgraph.
func (bg *BundleGraph) RemoveAssetFromBundle(ctx context.Context, bundleID BundleID, assetID asset.ID) (retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.removeAssetFromBundle",
		slog.String("bundle", string(bundleID)), slog.String("asset", string(assetID)))
	defer func() { op.End(retErr) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	bundle, ok := bg.bundles[bundleID]
	if !ok {
		retErr = ErrBundleNotFound
		return retErr
	}

	delete(bundle.assets, assetID)
	for i, e := range bundle.entryAssets {
		if e == assetID {
			bundle.entryAssets = append(bundle.entryAssets[:i], bundle.entryAssets[i+1:]...)
			break
		}
	}
	return nil
}

// reachableFrom walks the asset graph from rootID, following
// dependencies that are not split points (async) to targets that are
// not themselves split points (isolated, inline) and that match
// bundleType, collecting every asset reached including rootID. Caller
// must hold bg.mu.
func (bg *BundleGraph) reachableFrom(rootID asset.ID, bundleType string) map[asset.ID]bool {
	visited := make(map[asset.ID]bool)
	var walk func(id asset.ID)
	walk = func(id asset.ID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, depID := range bg.graph.DependenciesOf(id) {
			dep, ok := bg.graph.Dependency(depID)
			if !ok || dep.IsAsync {
				continue
			}
			for _, targetID := range dep.Resolve() {
				target, ok := bg.graph.Asset(targetID)
				if !ok || target.IsIsolated || target.IsInline {
					continue
				}
				if target.Type != bundleType {
					continue
				}
				walk(targetID)
			}
		}
	}
	walk(rootID)
	return visited
}

// CreateAssetReference records that dep references asset in a bundle
// other than dep's origin asset's bundle, for the packager to rewrite
// the require() call at codegen.
func (bg *BundleGraph) CreateAssetReference(ctx context.Context, dep asset.ID, assetID asset.ID) (retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.createAssetReference",
		slog.String("dep", string(dep)), slog.String("asset", string(assetID)))
	defer func() { op.End(retErr) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	if _, ok := bg.graph.Dependency(dep); !ok {
		retErr = ErrAssetNotFound
		return retErr
	}
	if _, ok := bg.graph.Asset(assetID); !ok {
		retErr = ErrAssetNotFound
		return retErr
	}

	set, ok := bg.assetReferences[dep]
	if !ok {
		set = make(map[asset.ID]bool)
		bg.assetReferences[dep] = set
	}
	set[assetID] = true
	return nil
}

// CreateBundleReference records that from's code causes to to load.
// Panics with a StructuralError if the reference would introduce a
// cycle between bundles.
func (bg *BundleGraph) CreateBundleReference(ctx context.Context, from, to BundleID) (retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.createBundleReference",
		slog.String("from", string(from)), slog.String("to", string(to)))
	defer func() { op.End(retErr) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	if _, ok := bg.bundles[from]; !ok {
		retErr = ErrBundleNotFound
		return retErr
	}
	if _, ok := bg.bundles[to]; !ok {
		retErr = ErrBundleNotFound
		return retErr
	}

	if from == to || bg.referencesTransitively(to, from) {
		panicStructural(diag.E_REFERENCE_CYCLE, "bundle reference would introduce a cycle",
			func(b *diag.IssueBuilder) *diag.IssueBuilder {
				return b.WithBundle(string(from)).WithDetail(diag.DetailKeyCycle, string(to))
			})
	}

	set, ok := bg.bundleReferences[from]
	if !ok {
		set = make(map[BundleID]bool)
		bg.bundleReferences[from] = set
	}
	set[to] = true
	return nil
}

// referencesTransitively reports whether from reaches to via zero or
// more bundle-reference hops. Caller must hold bg.mu.
func (bg *BundleGraph) referencesTransitively(from, to BundleID) bool {
	visited := make(map[BundleID]bool)
	var walk func(id BundleID) bool
	walk = func(id BundleID) bool {
		if id == to {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		for next := range bg.bundleReferences[id] {
			if walk(next) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// InternalizeAsyncDependency marks dep as satisfied inside bundle; the
// code generator elides the loader call at that site.
func (bg *BundleGraph) InternalizeAsyncDependency(ctx context.Context, bundleID BundleID, dep asset.ID) (retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.internalizeAsyncDependency",
		slog.String("bundle", string(bundleID)), slog.String("dep", string(dep)))
	defer func() { op.End(retErr) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	if _, ok := bg.bundles[bundleID]; !ok {
		retErr = ErrBundleNotFound
		return retErr
	}
	if _, ok := bg.graph.Dependency(dep); !ok {
		retErr = ErrAssetNotFound
		return retErr
	}

	set, ok := bg.internalized[bundleID]
	if !ok {
		set = make(map[asset.ID]bool)
		bg.internalized[bundleID] = set
	}
	set[dep] = true
	return nil
}

// IsInternalized reports whether dep was internalized within bundle.
func (bg *BundleGraph) IsInternalized(bundleID BundleID, dep asset.ID) bool {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	return bg.internalized[bundleID][dep]
}

// RecordExternalDependency records what an excluded/external dependency
// resolves to, for ResolveExternalDependency. This is not itself a
// diagnostic — excluded modules are recorded for the packager, not
// reported as an error.
func (bg *BundleGraph) RecordExternalDependency(dep asset.ID, external ExternalDependency) {
	bg.mu.Lock()
	defer bg.mu.Unlock()
	bg.externalDeps[dep] = external
}

// RemoveBundleGroup removes group, and any bundle that is no longer a
// member of any remaining group.
func (bg *BundleGraph) RemoveBundleGroup(ctx context.Context, groupID GroupID) (retErr error) {
	op := trace.Begin(ctx, bg.logger, "bundler.bundlegraph.removeBundleGroup",
		slog.String("group", string(groupID)))
	defer func() { op.End(retErr) }()

	bg.mu.Lock()
	defer bg.mu.Unlock()

	group, ok := bg.groups[groupID]
	if !ok {
		retErr = ErrGroupNotFound
		return retErr
	}
	delete(bg.groups, groupID)

	for _, bundleID := range group.bundles {
		orphan := true
		for _, other := range bg.groups {
			if other.hasBundle(bundleID) {
				orphan = false
				break
			}
		}
		if !orphan {
			continue
		}
		trace.Debug(ctx, bg.logger, "removing orphaned bundle", slog.String("bundle", string(bundleID)))
		delete(bg.bundles, bundleID)
		delete(bg.bundleReferences, bundleID)
		delete(bg.internalized, bundleID)
		for _, refs := range bg.bundleReferences {
			delete(refs, bundleID)
		}
		for key, id := range bg.uniqueKeyIndex {
			if id == bundleID {
				delete(bg.uniqueKeyIndex, key)
			}
		}
	}
	return nil
}
