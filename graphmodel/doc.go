// Package graphmodel provides the generic typed-DAG traversal the rest of
// the bundler core is built on: a depth-first [Walk] over an [asset.Graph],
// visiting [Node] values tagged as either an asset or a dependency.
//
// Walk carries visitor state as an explicit, caller-defined context value
// returned from [Visitor.Enter] and passed to that node's children — never
// as a shared mutable map, mirroring the "no inheritance, tagged variant"
// design of [Node] itself.
package graphmodel
