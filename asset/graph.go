package asset

import (
	"fmt"
	"sort"
)

// Graph is the read-only input DAG: source assets, their dependencies, and
// the edges from an asset to the dependencies it declares. It is built once
// by the external resolver/transformer stage and handed to the bundler core,
// which never mutates it.
//
// Graph is safe for concurrent read access: all fields are populated during
// NewGraph and never written afterward.
type Graph struct {
	assets  map[ID]Asset
	deps    map[ID]Dependency
	outEdge map[ID][]ID // asset ID -> dependency IDs declared by that asset, insertion order
	entries []ID        // dependency IDs reachable from the virtual root
}

// NewGraph builds a Graph from its constituent assets and dependencies.
//
// entries is the ordered set of dependency IDs hanging directly off the
// virtual root (typically one per HTML entry point or CLI-specified entry
// module). assetDeps maps an asset's ID to the ordered dependency IDs it
// declares; an asset absent from assetDeps declares no further
// dependencies (it is a leaf).
//
// NewGraph returns an error if any ID is duplicated, or if an entry or
// asset-dependency edge references an ID not present in assets/deps.
func NewGraph(entries []ID, assets []Asset, deps []Dependency, assetDeps map[ID][]ID) (*Graph, error) {
	assetMap := make(map[ID]Asset, len(assets))
	for _, a := range assets {
		if _, exists := assetMap[a.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAssetID, a.ID)
		}
		assetMap[a.ID] = a
	}

	depMap := make(map[ID]Dependency, len(deps))
	for _, d := range deps {
		if _, exists := depMap[d.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDependencyID, d.ID)
		}
		depMap[d.ID] = d
	}

	for _, id := range entries {
		if _, ok := depMap[id]; !ok {
			return nil, fmt.Errorf("%w: entry %s", ErrUnknownDependency, id)
		}
	}

	outEdge := make(map[ID][]ID, len(assetDeps))
	for assetID, depIDs := range assetDeps {
		if _, ok := assetMap[assetID]; !ok {
			return nil, fmt.Errorf("%w: %s (in assetDeps)", ErrUnknownAsset, assetID)
		}
		for _, depID := range depIDs {
			if _, ok := depMap[depID]; !ok {
				return nil, fmt.Errorf("%w: %s (declared by asset %s)", ErrUnknownDependency, depID, assetID)
			}
		}
		cp := make([]ID, len(depIDs))
		copy(cp, depIDs)
		outEdge[assetID] = cp
	}

	entriesCopy := make([]ID, len(entries))
	copy(entriesCopy, entries)

	return &Graph{
		assets:  assetMap,
		deps:    depMap,
		outEdge: outEdge,
		entries: entriesCopy,
	}, nil
}

// Entries returns the dependency IDs hanging off the virtual root, in the
// stable order supplied to NewGraph. This is the traversal's top-level
// fan-out; a stable order here keeps the whole bundling pass deterministic.
func (g *Graph) Entries() []ID {
	out := make([]ID, len(g.entries))
	copy(out, g.entries)
	return out
}

// Asset returns the asset with the given ID.
func (g *Graph) Asset(id ID) (Asset, bool) {
	a, ok := g.assets[id]
	return a, ok
}

// Dependency returns the dependency with the given ID.
func (g *Graph) Dependency(id ID) (Dependency, bool) {
	d, ok := g.deps[id]
	return d, ok
}

// DependenciesOf returns the dependency IDs declared by the given asset, in
// the stable order supplied to NewGraph. Returns nil for a leaf asset.
func (g *Graph) DependenciesOf(assetID ID) []ID {
	ids := g.outEdge[assetID]
	if len(ids) == 0 {
		return nil
	}
	out := make([]ID, len(ids))
	copy(out, ids)
	return out
}

// Len returns the number of assets in the graph.
func (g *Graph) Len() int {
	return len(g.assets)
}

// AssetIDs returns every asset ID in the graph, sorted lexicographically.
// Used by passes that must iterate the whole asset set deterministically
// (e.g. optimizer shared-bundle candidate bucketing).
func (g *Graph) AssetIDs() []ID {
	out := make([]ID, 0, len(g.assets))
	for id := range g.assets {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
