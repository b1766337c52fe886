package bundlegraph

import (
	"github.com/quiltcore/bundler/asset"
)

// Bundle is an emittable artifact: a set of assets of one type, destined
// for one output target.
//
// Bundle is a read-only snapshot handed out by BundleGraph's query
// methods; mutate a bundle's membership exclusively through
// [BundleGraph.AddAssetGraphToBundle],
// [BundleGraph.RemoveAssetGraphFromBundle] and
// [BundleGraph.RemoveAssetFromBundle].
type Bundle struct {
	ID           BundleID
	Type         string
	Env          asset.Env
	Target       asset.Target
	IsEntry      bool
	IsInline     bool
	IsSplittable bool

	// UniqueKey identifies a shared bundle that has no single entry asset
	// (see CreateBundle). Empty for entry-asset bundles.
	UniqueKey string

	// EntryAssets are the ordered root assets whose reachable subgraphs
	// comprise this bundle's contents.
	EntryAssets []asset.ID

	// Assets is the full set of assets currently attached, sorted by
	// asset.ID for deterministic output.
	Assets []asset.ID
}

// BundleGroup is an atomic loadable unit: one HTML entry or one async
// import site, and the ordered set of bundles it loads together.
type BundleGroup struct {
	ID GroupID

	// Dependency is the triggering dependency's asset.ID (an entry or
	// async dependency).
	Dependency asset.ID

	Target asset.Target

	// Bundles is the ordered set of member bundle IDs, in the order they
	// were added to the group.
	Bundles []BundleID
}

// ExternalDependencyKind distinguishes the two shapes
// resolveExternalDependency may return.
type ExternalDependencyKind string

// Recognized external-dependency kinds.
const (
	ExternalBundleGroup ExternalDependencyKind = "bundle_group"
	ExternalAsset       ExternalDependencyKind = "asset"
)

// ExternalDependency describes what an excluded/external dependency
// resolves to, for the packager to emit a runtime loader call or a
// direct reference.
type ExternalDependency struct {
	Kind  ExternalDependencyKind
	Group GroupID  // set when Kind == ExternalBundleGroup
	Asset asset.ID // set when Kind == ExternalAsset
}

// CreateBundleParams configures BundleGraph.CreateBundle. Either
// EntryAsset or UniqueKey must be set.
type CreateBundleParams struct {
	EntryAsset   asset.ID // zero value means "no entry asset"
	UniqueKey    string
	Type         string
	Env          asset.Env
	Target       asset.Target
	IsEntry      bool
	IsInline     bool
	IsSplittable bool
}

// bundleRecord is the internal mutable state behind a Bundle. BundleGraph
// owns the only live records; [Bundle] values handed to callers are
// point-in-time copies.
type bundleRecord struct {
	id           BundleID
	bundleType   string
	env          asset.Env
	target       asset.Target
	isEntry      bool
	isInline     bool
	isSplittable bool
	uniqueKey    string

	entryAssets []asset.ID
	assets      map[asset.ID]bool
}

func (b *bundleRecord) snapshot() Bundle {
	assets := make([]asset.ID, 0, len(b.assets))
	for id := range b.assets {
		assets = append(assets, id)
	}
	sortAssetIDs(assets)

	entries := make([]asset.ID, len(b.entryAssets))
	copy(entries, b.entryAssets)

	return Bundle{
		ID:           b.id,
		Type:         b.bundleType,
		Env:          b.env,
		Target:       b.target,
		IsEntry:      b.isEntry,
		IsInline:     b.isInline,
		IsSplittable: b.isSplittable,
		UniqueKey:    b.uniqueKey,
		EntryAssets:  entries,
		Assets:       assets,
	}
}

// groupRecord is the internal mutable state behind a BundleGroup.
type groupRecord struct {
	id      GroupID
	dep     asset.ID
	target  asset.Target
	bundles []BundleID // ordered, membership also tracked for idempotence checks
}

func (g *groupRecord) hasBundle(id BundleID) bool {
	for _, b := range g.bundles {
		if b == id {
			return true
		}
	}
	return false
}

func (g *groupRecord) snapshot() BundleGroup {
	bundles := make([]BundleID, len(g.bundles))
	copy(bundles, g.bundles)
	return BundleGroup{
		ID:         g.id,
		Dependency: g.dep,
		Target:     g.target,
		Bundles:    bundles,
	}
}
