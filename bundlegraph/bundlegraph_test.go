package bundlegraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/bundlegraph"
)

func resolveTo(ids ...asset.ID) func() []asset.ID {
	return func() []asset.ID { return ids }
}

func jsAsset(id asset.ID, size int64) asset.Asset {
	return asset.Asset{ID: id, Type: "js", Size: size}
}

// chainGraph builds entry -> a.js -> b.js -> c.js, a plain dependency
// chain all of type js.
func chainGraph(t *testing.T) *asset.Graph {
	t.Helper()

	entry := asset.NewDependency("entry", true, false, false, false, false, asset.Target{}, resolveTo("a.js"))
	aToB := asset.NewDependency("a->b", false, false, false, false, false, asset.Target{}, resolveTo("b.js"))
	bToC := asset.NewDependency("b->c", false, false, false, false, false, asset.Target{}, resolveTo("c.js"))

	g, err := asset.NewGraph(
		[]asset.ID{"entry"},
		[]asset.Asset{jsAsset("a.js", 100), jsAsset("b.js", 200), jsAsset("c.js", 300)},
		[]asset.Dependency{entry, aToB, bToC},
		map[asset.ID][]asset.ID{
			"a.js": {"a->b"},
			"b.js": {"b->c"},
		},
	)
	require.NoError(t, err)
	return g
}

func newTestGraph(t *testing.T, g *asset.Graph) *bundlegraph.BundleGraph {
	t.Helper()
	bg, err := bundlegraph.NewBundleGraph(g)
	require.NoError(t, err)
	return bg
}

func TestCreateBundle_RequiresEntryAssetOrUniqueKey(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))
	_, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{Type: "js"})
	require.ErrorIs(t, err, bundlegraph.ErrInvalidBundleParams)
}

func TestAddAssetGraphToBundle_AttachesWholeChain(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))

	bundle, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{
		EntryAsset: "a.js", Type: "js", IsEntry: true, IsSplittable: true,
	})
	require.NoError(t, err)

	require.NoError(t, bg.AddAssetGraphToBundle(context.Background(), "a.js", bundle.ID))

	got, ok := bg.GetBundle(bundle.ID)
	require.True(t, ok)
	assert.Equal(t, []asset.ID{"a.js", "b.js", "c.js"}, got.Assets)
	assert.Equal(t, []asset.ID{"a.js"}, got.EntryAssets)
}

func TestAddAssetGraphToBundle_StopsAtAsyncSplitPoint(t *testing.T) {
	entry := asset.NewDependency("entry", true, false, false, false, false, asset.Target{}, resolveTo("a.js"))
	asyncDep := asset.NewDependency("a->b", false, true, false, false, false, asset.Target{}, resolveTo("b.js"))

	g, err := asset.NewGraph(
		[]asset.ID{"entry"},
		[]asset.Asset{jsAsset("a.js", 100), jsAsset("b.js", 200)},
		[]asset.Dependency{entry, asyncDep},
		map[asset.ID][]asset.ID{"a.js": {"a->b"}},
	)
	require.NoError(t, err)

	bg := newTestGraph(t, g)
	bundle, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "a.js", Type: "js", IsEntry: true})
	require.NoError(t, err)
	require.NoError(t, bg.AddAssetGraphToBundle(context.Background(), "a.js", bundle.ID))

	got, _ := bg.GetBundle(bundle.ID)
	assert.Equal(t, []asset.ID{"a.js"}, got.Assets)
}

func TestAddAssetGraphToBundle_TypeMismatchPanics(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))
	bundle, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "a.js", Type: "css"})
	require.NoError(t, err)

	assert.Panics(t, func() {
		_ = bg.AddAssetGraphToBundle(context.Background(), "a.js", bundle.ID)
	})
}

func TestRemoveAssetGraphFromBundle_KeepsAssetsReachableFromOtherEntries(t *testing.T) {
	entryA := asset.NewDependency("entryA", true, false, false, false, false, asset.Target{}, resolveTo("a.js"))
	entryC := asset.NewDependency("entryC", true, false, false, false, false, asset.Target{}, resolveTo("c.js"))
	aToShared := asset.NewDependency("a->shared", false, false, false, false, false, asset.Target{}, resolveTo("shared.js"))
	cToShared := asset.NewDependency("c->shared", false, false, false, false, false, asset.Target{}, resolveTo("shared.js"))

	g, err := asset.NewGraph(
		[]asset.ID{"entryA", "entryC"},
		[]asset.Asset{jsAsset("a.js", 10), jsAsset("c.js", 10), jsAsset("shared.js", 40_000)},
		[]asset.Dependency{entryA, entryC, aToShared, cToShared},
		map[asset.ID][]asset.ID{
			"a.js": {"a->shared"},
			"c.js": {"c->shared"},
		},
	)
	require.NoError(t, err)

	bg := newTestGraph(t, g)
	bundle, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "a.js", Type: "js", IsSplittable: true})
	require.NoError(t, err)
	require.NoError(t, bg.AddAssetGraphToBundle(context.Background(), "a.js", bundle.ID))
	require.NoError(t, bg.AddAssetGraphToBundle(context.Background(), "c.js", bundle.ID))

	require.NoError(t, bg.RemoveAssetGraphFromBundle(context.Background(), "a.js", bundle.ID))

	got, _ := bg.GetBundle(bundle.ID)
	assert.Equal(t, []asset.ID{"c.js", "shared.js"}, got.Assets)
	assert.Equal(t, []asset.ID{"c.js"}, got.EntryAssets)
}

func TestGetTotalSize_SumsReachableSubgraph(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))
	size, err := bg.GetTotalSize("a.js")
	require.NoError(t, err)
	assert.Equal(t, int64(600), size)
}

func TestAddBundleToBundleGroup_Idempotent(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))
	bundle, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "a.js", Type: "js"})
	require.NoError(t, err)
	group := bg.CreateBundleGroup(context.Background(), "entry", asset.Target{})

	require.NoError(t, bg.AddBundleToBundleGroup(context.Background(), bundle.ID, group.ID))
	require.NoError(t, bg.AddBundleToBundleGroup(context.Background(), bundle.ID, group.ID))

	bundles, err := bg.GetBundlesInBundleGroup(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []bundlegraph.BundleID{bundle.ID}, bundles)
}

func TestIsAssetInAncestorBundles_TrueWhenEveryGroupHasAnAncestorContainingAsset(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))

	shared, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{UniqueKey: "shared-key", Type: "js", IsSplittable: true})
	require.NoError(t, err)
	require.NoError(t, bg.AddAssetGraphToBundle(context.Background(), "c.js", shared.ID))

	leaf, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "b.js", Type: "js", IsSplittable: true})
	require.NoError(t, err)
	require.NoError(t, bg.AddAssetGraphToBundle(context.Background(), "b.js", leaf.ID))

	group := bg.CreateBundleGroup(context.Background(), "entry", asset.Target{})
	require.NoError(t, bg.AddBundleToBundleGroup(context.Background(), shared.ID, group.ID))
	require.NoError(t, bg.AddBundleToBundleGroup(context.Background(), leaf.ID, group.ID))

	ok, err := bg.IsAssetInAncestorBundles(leaf.ID, "c.js")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bg.IsAssetInAncestorBundles(shared.ID, "c.js")
	require.NoError(t, err)
	assert.False(t, ok, "shared bundle has no earlier co-member and is not its own ancestor")
}

func TestIsAssetInAncestorBundles_NoContainingGroupsIsFalse(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))
	bundle, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "a.js", Type: "js"})
	require.NoError(t, err)

	ok, err := bg.IsAssetInAncestorBundles(bundle.ID, "a.js")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateBundleReference_RejectsCycle(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))
	a, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "a.js", Type: "js"})
	require.NoError(t, err)
	b, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "b.js", Type: "js"})
	require.NoError(t, err)

	require.NoError(t, bg.CreateBundleReference(context.Background(), a.ID, b.ID))

	assert.Panics(t, func() {
		_ = bg.CreateBundleReference(context.Background(), b.ID, a.ID)
	})
}

func TestRemoveBundleGroup_RemovesOrphanedBundles(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))
	bundle, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "a.js", Type: "js"})
	require.NoError(t, err)
	group := bg.CreateBundleGroup(context.Background(), "entry", asset.Target{})
	require.NoError(t, bg.AddBundleToBundleGroup(context.Background(), bundle.ID, group.ID))

	require.NoError(t, bg.RemoveBundleGroup(context.Background(), group.ID))

	_, ok := bg.GetBundle(bundle.ID)
	assert.False(t, ok)
}

func TestCreateAssetReference_AndIsAssetReferencedByDependant(t *testing.T) {
	bg := newTestGraph(t, chainGraph(t))
	bundleA, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "a.js", Type: "js"})
	require.NoError(t, err)
	require.NoError(t, bg.AddAssetGraphToBundle(context.Background(), "a.js", bundleA.ID))

	bundleB, err := bg.CreateBundle(context.Background(), bundlegraph.CreateBundleParams{EntryAsset: "b.js", Type: "js"})
	require.NoError(t, err)
	require.NoError(t, bg.AddAssetGraphToBundle(context.Background(), "b.js", bundleB.ID))

	require.NoError(t, bg.CreateAssetReference(context.Background(), "a->b", "b.js"))

	referenced, err := bg.IsAssetReferencedByDependant(bundleA.ID, "b.js")
	require.NoError(t, err)
	assert.False(t, referenced, "a->b's origin (a.js) is already contained in bundleA")

	referenced, err = bg.IsAssetReferencedByDependant(bundleB.ID, "b.js")
	require.NoError(t, err)
	assert.True(t, referenced, "a->b's origin (a.js) is not contained in bundleB")
}

func TestNewBundleGraph_NilGraph(t *testing.T) {
	_, err := bundlegraph.NewBundleGraph(nil)
	require.ErrorIs(t, err, bundlegraph.ErrNilGraph)
}
