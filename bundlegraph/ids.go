package bundlegraph

import "github.com/google/uuid"

// BundleID identifies a Bundle within a BundleGraph.
type BundleID string

// GroupID identifies a BundleGroup within a BundleGraph.
type GroupID string

// newBundleID mints a synthetic Bundle.ID. Every bundle gets one of these,
// entry-asset-rooted or not; the entry asset itself is tracked separately
// via Bundle.EntryAssets and is not reused as the bundle's own id.
func newBundleID() BundleID {
	return BundleID(uuid.NewString())
}

// newGroupID mints a synthetic BundleGroup.ID. Every bundle-group is
// synthetic (it is never directly named by an asset), so this is the only
// constructor path.
func newGroupID() GroupID {
	return GroupID(uuid.NewString())
}
