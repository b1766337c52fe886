package bundlegraph

import (
	"sort"

	"github.com/quiltcore/bundler/asset"
)

// sortAssetIDs sorts ids lexicographically in place. Used wherever a set
// built from map iteration must be presented in a deterministic order for
// BundleGraph snapshots.
func sortAssetIDs(ids []asset.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortBundleIDs(ids []BundleID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortGroupIDs(ids []GroupID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
