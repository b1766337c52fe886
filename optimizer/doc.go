// Package optimizer implements Passes 2 through 5 of the bundling core:
// reparenting splittable entries into bundles that already load them,
// deduplicating assets already available in an ancestor bundle, extracting
// assets shared across enough bundles into dedicated shared bundles, and
// internalizing async dependencies that are also reachable statically.
//
// Run is the package's only entry point. It mutates the [bundlegraph.BundleGraph]
// the Bundler pass produced in place, running the four passes in the fixed
// order the overlay's invariants require: each pass assumes the ones before
// it have already re-established the graph's structural invariants.
package optimizer
