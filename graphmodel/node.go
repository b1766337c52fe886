package graphmodel

import "github.com/quiltcore/bundler/asset"

// Kind tags which variant a Node carries.
type Kind uint8

const (
	// KindAsset tags a Node that carries an asset.ID.
	KindAsset Kind = iota

	// KindDependency tags a Node that carries a Dependency's asset.ID.
	KindDependency
)

// String returns a human-readable label for the kind.
func (k Kind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Node is the tagged-variant node type GraphModel traverses: either an
// asset or a dependency, identified by its asset.ID. There is no shared
// interface or inheritance between the two variants — callers type-switch
// on Kind.
type Node struct {
	kind Kind
	id   asset.ID
}

// NewAssetNode wraps an asset ID as a Node.
func NewAssetNode(id asset.ID) Node {
	return Node{kind: KindAsset, id: id}
}

// NewDependencyNode wraps a dependency ID as a Node.
func NewDependencyNode(id asset.ID) Node {
	return Node{kind: KindDependency, id: id}
}

// Kind returns which variant this node carries.
func (n Node) Kind() Kind {
	return n.kind
}

// ID returns the wrapped asset or dependency ID.
func (n Node) ID() asset.ID {
	return n.id
}

// IsAsset reports whether this node carries an asset.ID.
func (n Node) IsAsset() bool {
	return n.kind == KindAsset
}

// IsDependency reports whether this node carries a dependency's asset.ID.
func (n Node) IsDependency() bool {
	return n.kind == KindDependency
}
