// Package bundlegraph implements the mutable overlay graph the bundler
// core builds on top of a read-only [asset.Graph]: bundles, bundle-groups,
// their membership and reference edges, and the queries the Bundler and
// Optimizer passes need to decide where an asset belongs.
//
// A BundleGraph is created once per build via [NewBundleGraph] and mutated
// in place by exactly one pass at a time (Pass 1 through Pass 5); its
// query methods are safe to call concurrently with each other, but never
// concurrently with a mutating call.
//
// Structural invariant violations (a missing parent-group context, a
// bundle/type disagreement, a reference cycle) surface as a panic
// carrying a [StructuralError]: internally-inconsistent state fails fast
// rather than propagating. Ordinary bundling
// decisions — an unresolved required dependency, a declined shared-bundle
// candidate — are reported through the graph's [diag.Collector] or
// silently skipped, never panicked.
package bundlegraph
