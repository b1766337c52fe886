package bundlegraph

import (
	"errors"
	"fmt"

	"github.com/quiltcore/bundler/diag"
)

// Error sentinels for internal BundleGraph failures: programmer errors
// and malformed calls, not bundling decisions. Bundling decisions are
// reported via diag.Result or silently skipped.
var (
	// ErrInternal is the base error for internal BundleGraph failures.
	ErrInternal = errors.New("internal bundlegraph failure")

	// ErrNilGraph indicates a nil graph was passed where one is required:
	// a nil *asset.Graph to NewBundleGraph, or a nil asset graph or
	// *BundleGraph to optimizer.Run.
	ErrNilGraph = fmt.Errorf("%w: nil graph", ErrInternal)

	// ErrBundleNotFound indicates a referenced BundleID has no bundle.
	ErrBundleNotFound = fmt.Errorf("%w: bundle not found", ErrInternal)

	// ErrGroupNotFound indicates a referenced GroupID has no bundle-group.
	ErrGroupNotFound = fmt.Errorf("%w: bundle-group not found", ErrInternal)

	// ErrInvalidBundleParams indicates CreateBundle was called with
	// neither EntryAsset nor UniqueKey set.
	ErrInvalidBundleParams = fmt.Errorf("%w: CreateBundle requires EntryAsset or UniqueKey", ErrInternal)

	// ErrAssetNotFound indicates an asset.ID absent from the underlying
	// asset.Graph was passed to a BundleGraph mutation.
	ErrAssetNotFound = fmt.Errorf("%w: asset not found in graph", ErrInternal)
)

// StructuralError indicates a structural invariant violation: a missing
// parent-group context, a type-map disagreement, or an asset assigned to
// a bundle of a different type. These are fatal and abort the build;
// callers surface them as a panic value rather than an error return,
// since they indicate a broken invariant rather than a normal failure.
type StructuralError struct {
	Issue diag.Issue
}

func (e *StructuralError) Error() string {
	return e.Issue.Message()
}

// panicStructural raises a StructuralError for an invariant violation
// that must never occur in correctly-driven code.
func panicStructural(code diag.Code, message string, opts ...func(*diag.IssueBuilder) *diag.IssueBuilder) {
	b := diag.NewIssue(diag.Fatal, code, message)
	for _, opt := range opts {
		b = opt(b)
	}
	panic(&StructuralError{Issue: b.Build()})
}
