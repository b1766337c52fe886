// Package bundler turns a resolved asset dependency graph into a bundle
// graph: it decides which assets travel together in the same output file,
// which outputs load together as a group, and which shared dependencies get
// pulled out into their own bundles so they are fetched once instead of
// duplicated everywhere they're used.
//
// It does not parse source files, resolve module specifiers, or write
// bytes to disk — those stages hand it an already-resolved [asset.Graph]
// and consume the resulting [bundlegraph.BundleGraph] afterward.
//
// # Architecture Overview
//
// The module is organized into layers with strict dependency ordering:
//
//	Foundation tier (no internal dependencies):
//	  - location: canonical path handling
//	  - diag: structured diagnostics with stable error codes
//	  - immutable: read-only wrappers for safe data sharing
//	  - internal/trace: nil-safe slog operation tracing
//
//	Core tier:
//	  - asset: the resolved input model (Asset, Dependency, Env, Target, Graph)
//	  - graphmodel: generic typed-DAG traversal over Asset/Dependency nodes
//	  - bundlegraph: Bundle, BundleGroup, BundleGraph and their invariants
//	  - bundler: Pass 1, the initial bundle assignment
//	  - optimizer: Passes 2-5 (reparent, dedup ancestors, extract shared,
//	    internalize async)
//
//	Test support:
//	  - internal/fixture: JSONC asset-graph fixtures for table-driven tests
//
// # Entry Points
//
// Building a bundle graph from a resolved asset graph:
//
//	import (
//	    "github.com/quiltcore/bundler/bundler"
//	    "github.com/quiltcore/bundler/optimizer"
//	)
//
//	bg, result, err := bundler.Bundle(ctx, assetGraph, bundler.WithTunables(tunables))
//	if err != nil {
//	    // internal error
//	}
//	if !result.OK() {
//	    // unresolved required dependencies, type conflicts, etc.
//	}
//	result, err = optimizer.Run(ctx, assetGraph, bg)
//	if err != nil {
//	    // internal error
//	}
//
// # Subpackages
//
// See the individual package documentation for detailed usage:
//
//   - [github.com/quiltcore/bundler/diag]: structured diagnostics
//   - [github.com/quiltcore/bundler/location]: canonical path handling
//   - [github.com/quiltcore/bundler/immutable]: read-only data wrappers
//   - [github.com/quiltcore/bundler/asset]: resolved asset/dependency model
//   - [github.com/quiltcore/bundler/graphmodel]: generic DAG traversal
//   - [github.com/quiltcore/bundler/bundlegraph]: bundle/group graph
//   - [github.com/quiltcore/bundler/bundler]: Pass 1, initial bundling
//   - [github.com/quiltcore/bundler/optimizer]: Passes 2-5, optimization
package bundler
