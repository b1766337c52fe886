// Package asset defines the read-only input model consumed by the bundler
// core: assets, dependencies, environments, and output targets.
//
// Values in this package are supplied by an external resolver/transformer
// stage and never mutated once constructed. Graph wraps them into a
// traversable structure; graphmodel, bundlegraph, bundler, and optimizer
// only ever read from it.
//
// # Construction
//
// NewGraph builds a Graph from a root set of entry dependencies plus the
// assets and dependencies they transitively reach, and the dependencies
// each asset declares:
//
//	g, err := asset.NewGraph(entries, assets, deps, assetDeps)
//
// A Dependency's resolution is a closure bound at construction time
// ([Dependency.Resolve]), not an interface the core calls back through;
// callers provide it via [NewDependency].
package asset
