package diag

// CodeCategory represents the semantic domain of an error code.
//
// Categories represent the semantic domain of an error, not necessarily the
// pass that emits it. Most codes are emitted exclusively by their category's
// pass, but some codes represent cross-cutting concerns.
type CodeCategory uint8

const (
	// CategorySentinel is for sentinel codes like E_LIMIT_REACHED and E_INTERNAL.
	CategorySentinel CodeCategory = iota

	// CategoryGraph is for BundleGraph structural errors (invariant
	// violations in bundle/group membership, reference bookkeeping).
	CategoryGraph

	// CategoryBundler is for errors raised during the initial bundling pass.
	CategoryBundler

	// CategoryOptimizer is for errors raised during the optimization passes
	// (reparenting, ancestor dedup, shared-bundle extraction, async
	// internalization).
	CategoryOptimizer
)

// String returns a human-readable label for the category.
func (c CodeCategory) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategoryGraph:
		return "graph"
	case CategoryBundler:
		return "bundler"
	case CategoryOptimizer:
		return "optimizer"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue.
//
// Error codes are stable identifiers that tools can match on, even when
// message text changes. The Code type uses unexported fields to enforce
// a closed set of valid codes—only codes defined in this package are valid.
//
// Code.String() values are globally unique across all categories. The
// CodeCategory is informational metadata for filtering and grouping.
type Code struct {
	value string
	cat   CodeCategory
}

// String returns the code's string representation (e.g., "E_TYPE_MISMATCH").
func (c Code) String() string {
	return c.value
}

// Category returns the programmatic category for this code.
func (c Code) Category() CodeCategory {
	return c.cat
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// code is the unexported constructor—callers cannot create arbitrary codes.
func code(value string, cat CodeCategory) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// E_LIMIT_REACHED is a sentinel code for explicit limit notification.
	// It does not automatically trigger Result.LimitReached(); use
	// Collector.LimitReached() to check limit status. Callers may inject
	// this code manually when desired.
	E_LIMIT_REACHED = code("E_LIMIT_REACHED", CategorySentinel)

	// E_INTERNAL indicates an unexpected invariant failure (internal bug indicator).
	// Use for conditions that should never occur in correct code.
	E_INTERNAL = code("E_INTERNAL", CategorySentinel)
)

// BundleGraph codes.
var (
	// E_BUNDLE_NOT_FOUND indicates a referenced Bundle.ID has no bundle.
	E_BUNDLE_NOT_FOUND = code("E_BUNDLE_NOT_FOUND", CategoryGraph)

	// E_GROUP_NOT_FOUND indicates a referenced BundleGroup.ID has no group.
	E_GROUP_NOT_FOUND = code("E_GROUP_NOT_FOUND", CategoryGraph)

	// E_TYPE_MISMATCH indicates an asset was added to a bundle whose type
	// does not match the bundle's fixed type.
	E_TYPE_MISMATCH = code("E_TYPE_MISMATCH", CategoryGraph)

	// E_MISSING_PARENT_CONTEXT indicates an internal traversal step lost
	// the enclosing bundle/group context that every node requires.
	E_MISSING_PARENT_CONTEXT = code("E_MISSING_PARENT_CONTEXT", CategoryGraph)

	// E_REFERENCE_CYCLE indicates a bundle reference would introduce a
	// cycle between bundles.
	E_REFERENCE_CYCLE = code("E_REFERENCE_CYCLE", CategoryGraph)
)

// Bundler (Pass 1) codes.
var (
	// E_UNRESOLVED_REQUIRED indicates a required dependency (not optional,
	// and not both weak and deferred) resolved to no target assets.
	E_UNRESOLVED_REQUIRED = code("E_UNRESOLVED_REQUIRED", CategoryBundler)

	// E_EXTERNAL_DEPENDENCY_CONFLICT indicates two dependencies on the same
	// asset disagree on external/excluded status.
	E_EXTERNAL_DEPENDENCY_CONFLICT = code("E_EXTERNAL_DEPENDENCY_CONFLICT", CategoryBundler)
)

// Optimizer (Passes 2-5) codes.
var (
	// E_SHARED_BUNDLE_KEY_COLLISION indicates two distinct source-bundle
	// sets hashed to the same shared-bundle uniqueKey.
	E_SHARED_BUNDLE_KEY_COLLISION = code("E_SHARED_BUNDLE_KEY_COLLISION", CategoryOptimizer)

	// E_INTERNALIZE_CONFLICT indicates an async dependency could not be
	// internalized because its target is reachable from more than one
	// bundle group.
	E_INTERNALIZE_CONFLICT = code("E_INTERNALIZE_CONFLICT", CategoryOptimizer)
)

// allCodes contains all defined codes for AllCodes() and uniqueness verification.
var allCodes = []Code{
	// Sentinel
	E_LIMIT_REACHED,
	E_INTERNAL,
	// Graph
	E_BUNDLE_NOT_FOUND,
	E_GROUP_NOT_FOUND,
	E_TYPE_MISMATCH,
	E_MISSING_PARENT_CONTEXT,
	E_REFERENCE_CYCLE,
	// Bundler
	E_UNRESOLVED_REQUIRED,
	E_EXTERNAL_DEPENDENCY_CONFLICT,
	// Optimizer
	E_SHARED_BUNDLE_KEY_COLLISION,
	E_INTERNALIZE_CONFLICT,
}

// AllCodes returns all defined codes.
//
// This function is useful for tooling and testing. The returned slice is a
// copy; modifications do not affect the original.
func AllCodes() []Code {
	result := make([]Code, len(allCodes))
	copy(result, allCodes)
	return result
}

// CodesByCategory returns codes in the given category.
//
// The returned slice is a new allocation; modifications do not affect
// internal state.
func CodesByCategory(cat CodeCategory) []Code {
	var result []Code
	for _, c := range allCodes {
		if c.cat == cat {
			result = append(result, c)
		}
	}
	return result
}
