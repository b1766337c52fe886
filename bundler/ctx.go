package bundler

import (
	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/bundlegraph"
)

// Ctx is the per-traversal state threaded through the walk. bundleByType
// is a map reference: distinct
// bundle-groups get distinct maps (seeded fresh on the new-bundle-group
// branch), but every node visited within one group shares the same map,
// so a type-change bundle registered by one sibling is visible to the
// next sibling descended under the same group.
type Ctx struct {
	bundleGroup           bundlegraph.GroupID
	bundleGroupDependency asset.ID
	bundleByType          map[string]bundlegraph.BundleID
	parentBundle          bundlegraph.BundleID
	parentNode            asset.ID
}
