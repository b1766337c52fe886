package diag

// Detail provides key-value context for diagnostic issues.
//
// Details are used to add structured information to issues that can be
// programmatically inspected by tools. Use the standard detail key constants
// to ensure consistent key naming across the codebase.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys for consistent diagnostic metadata.
//
// Use these constants to avoid stringly-typed drift and enable programmatic
// inspection of diagnostic details. Custom detail keys are permitted for
// domain-specific diagnostics; use lower_snake_case for custom keys.
const (
	// DetailKeyAssetID is the asset.ID involved in the diagnostic.
	DetailKeyAssetID = "asset_id"

	// DetailKeyBundleID is the Bundle.ID involved in the diagnostic.
	DetailKeyBundleID = "bundle_id"

	// DetailKeyGroupID is the BundleGroup.ID involved in the diagnostic.
	DetailKeyGroupID = "group_id"

	// DetailKeyPass is the pass name that raised the diagnostic
	// ("bundler", "reparent", "dedup_ancestors", "extract_shared",
	// "internalize_async").
	DetailKeyPass = "pass"

	// DetailKeyExpected is the expected value or type.
	DetailKeyExpected = "expected"

	// DetailKeyGot is the actual value or type received.
	DetailKeyGot = "got"

	// DetailKeyTypeName is the asset type involved in the diagnostic.
	DetailKeyTypeName = "type"

	// DetailKeyReason is the failure reason discriminant.
	// Used with E_UNRESOLVED_REQUIRED ("absent", "empty", "target_missing").
	DetailKeyReason = "reason"

	// DetailKeyDetail is the specific error description.
	DetailKeyDetail = "detail"

	// DetailKeyCycle is the id of the bundle that the rejected reference
	// points to (for E_REFERENCE_CYCLE).
	DetailKeyCycle = "cycle"

	// DetailKeyContext is contextual information (e.g., "Bundler", "Optimizer").
	DetailKeyContext = "context"

	// DetailKeyUniqueKey is the shared-bundle uniqueKey involved in a
	// collision diagnostic.
	DetailKeyUniqueKey = "unique_key"
)

// AssetBundle creates detail entries for asset+bundle diagnostics.
//
// Use for diagnostics involving a specific asset within a specific bundle,
// e.g. E_TYPE_MISMATCH when addAssetGraphToBundle rejects a mismatched type.
func AssetBundle(assetID, bundleID string) []Detail {
	return []Detail{
		{Key: DetailKeyAssetID, Value: assetID},
		{Key: DetailKeyBundleID, Value: bundleID},
	}
}

// ExpectedGot creates a pair of details for type mismatch diagnostics.
//
// This is the standard pattern for reporting "expected X, got Y" errors.
func ExpectedGot(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpected, Value: expected},
		{Key: DetailKeyGot, Value: got},
	}
}

// UnresolvedDependency creates detail entries for an unresolved required
// dependency, naming the asset the dependency was declared on and the
// reason it produced no target assets.
func UnresolvedDependency(assetID, reason string) []Detail {
	return []Detail{
		{Key: DetailKeyAssetID, Value: assetID},
		{Key: DetailKeyReason, Value: reason},
	}
}
