package asset

import "errors"

// Sentinel errors returned by NewGraph. Use errors.Is to distinguish them.
var (
	// ErrDuplicateAssetID indicates two assets were supplied with the same ID.
	ErrDuplicateAssetID = errors.New("asset: duplicate asset id")

	// ErrDuplicateDependencyID indicates two dependencies were supplied with
	// the same ID.
	ErrDuplicateDependencyID = errors.New("asset: duplicate dependency id")

	// ErrUnknownDependency indicates an entry or asset-dependency edge names
	// a dependency ID that was not supplied to NewGraph.
	ErrUnknownDependency = errors.New("asset: unknown dependency id")

	// ErrUnknownAsset indicates an asset-dependency edge names an asset ID
	// that was not supplied to NewGraph.
	ErrUnknownAsset = errors.New("asset: unknown asset id")
)
