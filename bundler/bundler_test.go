package bundler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/bundler"
	"github.com/quiltcore/bundler/diag"
	"github.com/quiltcore/bundler/internal/fixture"
)

func resolveTo(ids ...asset.ID) func() []asset.ID {
	return func() []asset.ID { return ids }
}

func htmlAsset(id asset.ID) asset.Asset {
	return asset.Asset{ID: id, Type: "html", Size: 1}
}

func jsAsset(id asset.ID, size int64) asset.Asset {
	return asset.Asset{ID: id, Type: "js", Size: size}
}

func cssAsset(id asset.ID, size int64) asset.Asset {
	return asset.Asset{ID: id, Type: "css", Size: size}
}

// TestBundle_S1_EntryHTMLWithJS covers spec scenario S1: one entry HTML
// depending on one js asset opens one group with two bundles, and the html
// bundle references the js bundle.
func TestBundle_S1_EntryHTMLWithJS(t *testing.T) {
	entry := asset.NewDependency("entry", true, false, false, false, false, asset.Target{}, resolveTo("a.html"))
	htmlToJS := asset.NewDependency("html->js", false, false, false, false, false, asset.Target{}, resolveTo("a.js"))

	g, err := asset.NewGraph(
		[]asset.ID{"entry"},
		[]asset.Asset{htmlAsset("a.html"), jsAsset("a.js", 100)},
		[]asset.Dependency{entry, htmlToJS},
		map[asset.ID][]asset.ID{"a.html": {"html->js"}},
	)
	require.NoError(t, err)

	bg, _, err := bundler.Bundle(context.Background(), g)
	require.NoError(t, err)

	htmlBundleID := bg.FindBundlesWithAsset("a.html")
	jsBundleID := bg.FindBundlesWithAsset("a.js")
	require.Len(t, htmlBundleID, 1)
	require.Len(t, jsBundleID, 1)

	htmlBundle, ok := bg.GetBundle(htmlBundleID[0])
	require.True(t, ok)
	assert.Equal(t, "html", htmlBundle.Type)
	assert.True(t, htmlBundle.IsEntry)

	jsBundle, ok := bg.GetBundle(jsBundleID[0])
	require.True(t, ok)
	assert.Equal(t, "js", jsBundle.Type)

	groups := bg.GetBundleGroupsContainingBundle(htmlBundleID[0])
	require.Len(t, groups, 1)
	jsGroups := bg.GetBundleGroupsContainingBundle(jsBundleID[0])
	assert.Equal(t, groups, jsGroups, "both bundles belong to the single group S1 expects")

	assert.Contains(t, bg.GetReferencedBundles(htmlBundleID[0]), jsBundleID[0])
}

// TestBundle_S6_ParallelTypeBundles covers spec scenario S6: an entry html
// asset depending on both a.js and a.css produces one group with two
// parallel type bundles via rule 2.
func TestBundle_S6_ParallelTypeBundles(t *testing.T) {
	entry := asset.NewDependency("entry", true, false, false, false, false, asset.Target{}, resolveTo("a.html"))
	htmlToJS := asset.NewDependency("html->js", false, false, false, false, false, asset.Target{}, resolveTo("a.js"))
	htmlToCSS := asset.NewDependency("html->css", false, false, false, false, false, asset.Target{}, resolveTo("a.css"))

	g, err := asset.NewGraph(
		[]asset.ID{"entry"},
		[]asset.Asset{htmlAsset("a.html"), jsAsset("a.js", 100), cssAsset("a.css", 50)},
		[]asset.Dependency{entry, htmlToJS, htmlToCSS},
		map[asset.ID][]asset.ID{"a.html": {"html->js", "html->css"}},
	)
	require.NoError(t, err)

	bg, _, err := bundler.Bundle(context.Background(), g)
	require.NoError(t, err)

	htmlBundleID := bg.FindBundlesWithAsset("a.html")
	jsBundleID := bg.FindBundlesWithAsset("a.js")
	cssBundleID := bg.FindBundlesWithAsset("a.css")
	require.Len(t, htmlBundleID, 1)
	require.Len(t, jsBundleID, 1)
	require.Len(t, cssBundleID, 1)

	groups := bg.GetBundleGroupsContainingBundle(htmlBundleID[0])
	require.Len(t, groups, 1)
	bundles, err := bg.GetBundlesInBundleGroup(groups[0])
	require.NoError(t, err)
	assert.Len(t, bundles, 3, "html entry plus two rule-2 parallel type bundles share one group")
}

// TestBundle_S2_AsyncImportOpensNewGroup covers spec scenario S2: a
// dynamic import opens a second bundle-group containing only the
// imported asset's bundle.
func TestBundle_S2_AsyncImportOpensNewGroup(t *testing.T) {
	entry := asset.NewDependency("entry", true, false, false, false, false, asset.Target{}, resolveTo("a.js"))
	asyncDep := asset.NewDependency("a->b", false, true, false, false, false, asset.Target{}, resolveTo("b.js"))

	g, err := asset.NewGraph(
		[]asset.ID{"entry"},
		[]asset.Asset{jsAsset("a.js", 100), jsAsset("b.js", 10_000)},
		[]asset.Dependency{entry, asyncDep},
		map[asset.ID][]asset.ID{"a.js": {"a->b"}},
	)
	require.NoError(t, err)

	bg, _, err := bundler.Bundle(context.Background(), g)
	require.NoError(t, err)

	aBundleID := bg.FindBundlesWithAsset("a.js")
	bBundleID := bg.FindBundlesWithAsset("b.js")
	require.Len(t, aBundleID, 1)
	require.Len(t, bBundleID, 1)

	aGroups := bg.GetBundleGroupsContainingBundle(aBundleID[0])
	bGroups := bg.GetBundleGroupsContainingBundle(bBundleID[0])
	require.Len(t, aGroups, 1)
	require.Len(t, bGroups, 1)
	assert.NotEqual(t, aGroups[0], bGroups[0], "async import opens its own group")

	aBundle, _ := bg.GetBundle(aBundleID[0])
	assert.Equal(t, []asset.ID{"a.js"}, aBundle.Assets)
}

// TestBundle_DAGSharedAssetJoinsBothGroups exercises the DAG re-entry
// rule: an asset reached by two distinct entries is visited once per
// path; every entry gets its own bundle.
func TestBundle_DAGSharedAssetJoinsBothGroups(t *testing.T) {
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

	bg, _, err := bundler.Bundle(context.Background(), g)
	require.NoError(t, err)

	aBundleID := bg.FindBundlesWithAsset("a.js")
	cBundleID := bg.FindBundlesWithAsset("c.js")
	require.Len(t, aBundleID, 1)
	require.Len(t, cBundleID, 1)

	aBundle, _ := bg.GetBundle(aBundleID[0])
	cBundle, _ := bg.GetBundle(cBundleID[0])
	assert.Contains(t, aBundle.Assets, asset.ID("shared.js"))
	assert.Contains(t, cBundle.Assets, asset.ID("shared.js"))
}

// TestBundle_S1_FromFixture re-covers S1 from a JSONC fixture file instead
// of an inline graph literal, exercising the fixture loader end to end.
func TestBundle_S1_FromFixture(t *testing.T) {
	g, err := fixture.LoadFile("testdata/s1_entry_html_with_js.jsonc")
	require.NoError(t, err)

	bg, _, err := bundler.Bundle(context.Background(), g)
	require.NoError(t, err)

	htmlBundleID := bg.FindBundlesWithAsset("a.html")
	jsBundleID := bg.FindBundlesWithAsset("a.js")
	require.Len(t, htmlBundleID, 1)
	require.Len(t, jsBundleID, 1)
	assert.Contains(t, bg.GetReferencedBundles(htmlBundleID[0]), jsBundleID[0])
}

// TestBundle_RequiredDependencyUnresolvedRaisesDiagnostic covers a
// required dependency whose resolver closure yields no target assets at
// all: the bundle graph still builds (no bundle for the missing target),
// but the result carries an E_UNRESOLVED_REQUIRED error naming the
// declaring asset.
func TestBundle_RequiredDependencyUnresolvedRaisesDiagnostic(t *testing.T) {
	entry := asset.NewDependency("entry", true, false, false, false, false, asset.Target{}, resolveTo("a.js"))
	missing := asset.NewDependency("a->missing", false, false, false, false, false, asset.Target{}, resolveTo())

	g, err := asset.NewGraph(
		[]asset.ID{"entry"},
		[]asset.Asset{jsAsset("a.js", 10)},
		[]asset.Dependency{entry, missing},
		map[asset.ID][]asset.ID{"a.js": {"a->missing"}},
	)
	require.NoError(t, err)

	_, result, err := bundler.Bundle(context.Background(), g)
	require.NoError(t, err)

	errs := result.ErrorsSlice()
	require.Len(t, errs, 1)
	assert.Equal(t, diag.E_UNRESOLVED_REQUIRED, errs[0].Code())
	assert.Equal(t, "a.js", errs[0].AssetID())
}

// TestBundle_OptionalDependencyUnresolvedIsSilent covers the same empty
// resolution, but on an optional dependency: no diagnostic is raised.
func TestBundle_OptionalDependencyUnresolvedIsSilent(t *testing.T) {
	entry := asset.NewDependency("entry", true, false, false, false, false, asset.Target{}, resolveTo("a.js"))
	missing := asset.NewDependency("a->missing", false, false, true, false, false, asset.Target{}, resolveTo())

	g, err := asset.NewGraph(
		[]asset.ID{"entry"},
		[]asset.Asset{jsAsset("a.js", 10)},
		[]asset.Dependency{entry, missing},
		map[asset.ID][]asset.ID{"a.js": {"a->missing"}},
	)
	require.NoError(t, err)

	_, result, err := bundler.Bundle(context.Background(), g)
	require.NoError(t, err)
	assert.Empty(t, result.ErrorsSlice())
}

// TestBundle_ExternalDependencyIsRecordedNotReported covers a dependency
// that resolves to an id the resolver produced but that never made it
// into this graph (the external/excluded case): no diagnostic, and the
// external target is recorded for the packager.
func TestBundle_ExternalDependencyIsRecordedNotReported(t *testing.T) {
	entry := asset.NewDependency("entry", true, false, false, false, false, asset.Target{}, resolveTo("a.js"))
	toExternal := asset.NewDependency("a->ext", false, false, false, false, false, asset.Target{}, resolveTo("external-package"))

	g, err := asset.NewGraph(
		[]asset.ID{"entry"},
		[]asset.Asset{jsAsset("a.js", 10)},
		[]asset.Dependency{entry, toExternal},
		map[asset.ID][]asset.ID{"a.js": {"a->ext"}},
	)
	require.NoError(t, err)

	bg, result, err := bundler.Bundle(context.Background(), g)
	require.NoError(t, err)
	assert.Empty(t, result.ErrorsSlice())

	ext, ok := bg.ResolveExternalDependency("a->ext")
	require.True(t, ok)
	assert.Equal(t, asset.ID("external-package"), ext.Asset)
}

func TestBundle_NilGraph(t *testing.T) {
	bg, _, err := bundler.Bundle(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, bg)
}
