// Package bundler implements Pass 1 of the bundling core: a single
// depth-first traversal of an [asset.Graph] that materializes a fresh
// [bundlegraph.BundleGraph] by opening bundle-groups at code-split points
// (entry dependencies, async imports, isolated or inline targets) and
// assigning every other resolved asset to a parallel same-type bundle
// within the enclosing group.
//
// Bundle is the package's only entry point. The Optimizer passes that
// follow (reparenting, ancestor dedup, shared-bundle extraction, async
// internalization) run afterward against the BundleGraph Bundle returns.
package bundler
