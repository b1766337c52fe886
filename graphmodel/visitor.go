package graphmodel

import "context"

// Control tells Walk whether to descend into a node's children.
type Control uint8

const (
	// Continue descends into the node's children normally.
	Continue Control = iota

	// SkipChildren suppresses descent into the node's children. Exit is
	// still called for the node itself.
	SkipChildren
)

// Visitor receives Enter/Exit callbacks during a depth-first Walk. C is the
// caller-defined context type threaded through the traversal: Enter returns
// the context value its children should see, never a shared mutable value.
//
// Enter's returned error short-circuits the walk; Walk returns that error
// to its caller without calling Exit for the node that failed.
type Visitor[C any] interface {
	// Enter is called on descent into node, carrying the context produced
	// by the parent's Enter (or the Walk caller's initial value, for
	// roots). It returns the context to thread into this node's children,
	// plus an optional Control to skip descending into them.
	Enter(ctx context.Context, node Node, c C) (next C, ctrl Control, err error)

	// Exit is called on ascent from node, after all children (unless
	// skipped) have been visited, carrying the context Enter returned for
	// this node.
	Exit(ctx context.Context, node Node, c C) error
}

// BaseVisitor provides no-op defaults for [Visitor]. Embed it to implement
// only the callbacks a particular walk cares about.
type BaseVisitor[C any] struct{}

// Enter returns c unchanged, [Continue], and no error.
func (BaseVisitor[C]) Enter(_ context.Context, _ Node, c C) (C, Control, error) {
	return c, Continue, nil
}

// Exit returns nil.
func (BaseVisitor[C]) Exit(_ context.Context, _ Node, _ C) error {
	return nil
}
