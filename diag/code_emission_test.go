package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltcore/bundler/diag"
)

// TestCodeEmission_AllCodes verifies that every defined code can be used
// to create a valid issue that passes through the diagnostic pipeline.
func TestCodeEmission_AllCodes(t *testing.T) {
	t.Parallel()

	codes := diag.AllCodes()
	require.NotEmpty(t, codes, "AllCodes should return all defined codes")

	for _, code := range codes {
		t.Run(code.String(), func(t *testing.T) {
			t.Parallel()
			issue := diag.NewIssue(diag.Error, code, "test message for "+code.String()).Build()

			assert.True(t, issue.IsValid(), "Issue with %s should be valid", code.String())
			assert.Equal(t, code, issue.Code())
			assert.Contains(t, issue.Message(), code.String())

			collector := diag.NewCollector(100)
			collector.Collect(issue)

			result := collector.Result()
			assert.True(t, result.HasErrors())

			foundCode := false
			for i := range result.Issues() {
				if i.Code() == code {
					foundCode = true
					break
				}
			}
			assert.True(t, foundCode, "Code %s should be present in result", code.String())
		})
	}
}

// TestCodeEmission_Categories verifies that each category has at least one code.
func TestCodeEmission_Categories(t *testing.T) {
	t.Parallel()

	categories := []diag.CodeCategory{
		diag.CategorySentinel,
		diag.CategoryGraph,
		diag.CategoryBundler,
		diag.CategoryOptimizer,
	}

	for _, cat := range categories {
		t.Run(cat.String(), func(t *testing.T) {
			t.Parallel()
			codes := diag.CodesByCategory(cat)
			assert.NotEmpty(t, codes, "Category %s should have at least one code", cat.String())
		})
	}
}

// TestCodeEmission_Uniqueness verifies that all code string values are unique.
func TestCodeEmission_Uniqueness(t *testing.T) {
	t.Parallel()

	codes := diag.AllCodes()
	seen := make(map[string]bool)

	for _, code := range codes {
		str := code.String()
		assert.False(t, seen[str], "Duplicate code string: %s", str)
		seen[str] = true
	}
}

// TestCodeEmission_SentinelCodes verifies the sentinel codes behave correctly.
func TestCodeEmission_SentinelCodes(t *testing.T) {
	t.Parallel()

	t.Run("E_LIMIT_REACHED", func(t *testing.T) {
		t.Parallel()
		issue := diag.NewIssue(diag.Fatal, diag.E_LIMIT_REACHED, "limit reached").Build()
		assert.Equal(t, diag.E_LIMIT_REACHED, issue.Code())
		assert.Equal(t, diag.Fatal, issue.Severity())
	})

	t.Run("E_INTERNAL", func(t *testing.T) {
		t.Parallel()
		issue := diag.NewIssue(diag.Error, diag.E_INTERNAL, "internal error").Build()
		assert.Equal(t, diag.E_INTERNAL, issue.Code())
	})
}

// TestCodeEmission_WithProvenance verifies codes work with asset/bundle/pass provenance.
func TestCodeEmission_WithProvenance(t *testing.T) {
	t.Parallel()

	codes := []diag.Code{
		diag.E_TYPE_MISMATCH,
		diag.E_UNRESOLVED_REQUIRED,
		diag.E_BUNDLE_NOT_FOUND,
	}

	for _, code := range codes {
		t.Run(code.String(), func(t *testing.T) {
			t.Parallel()
			issue := diag.NewIssue(diag.Error, code, "test message").
				WithAsset("asset-1").
				WithBundle("bundle-1").
				WithPass("bundler").
				Build()

			assert.Equal(t, "asset-1", issue.AssetID())
			assert.Equal(t, "bundle-1", issue.BundleID())
			assert.Equal(t, "bundler", issue.Pass())
			assert.Equal(t, code, issue.Code())
		})
	}
}

// TestCodeEmission_WithDetails verifies codes work with detail fields.
func TestCodeEmission_WithDetails(t *testing.T) {
	t.Parallel()

	issue := diag.NewIssue(diag.Error, diag.E_TYPE_MISMATCH, "type mismatch").
		WithExpectedGot("js", "css").
		WithDetail("asset_id", "asset-42").
		Build()

	assert.Equal(t, diag.E_TYPE_MISMATCH, issue.Code())

	details := issue.Details()
	detailMap := make(map[string]string)
	for _, d := range details {
		detailMap[d.Key] = d.Value
	}
	assert.Equal(t, "js", detailMap["expected"])
	assert.Equal(t, "css", detailMap["got"])
	assert.Equal(t, "asset-42", detailMap["asset_id"])
}

// TestCodeEmission_GraphCodes verifies graph codes can be created.
func TestCodeEmission_GraphCodes(t *testing.T) {
	t.Parallel()

	codes := diag.CodesByCategory(diag.CategoryGraph)
	require.NotEmpty(t, codes)

	for _, code := range codes {
		assert.Equal(t, diag.CategoryGraph, code.Category())
	}
}

// TestCodeEmission_BundlerCodes verifies bundler codes can be created.
func TestCodeEmission_BundlerCodes(t *testing.T) {
	t.Parallel()

	codes := diag.CodesByCategory(diag.CategoryBundler)
	require.NotEmpty(t, codes)

	for _, code := range codes {
		assert.Equal(t, diag.CategoryBundler, code.Category())
	}
}

// TestCodeEmission_OptimizerCodes verifies optimizer codes can be created.
func TestCodeEmission_OptimizerCodes(t *testing.T) {
	t.Parallel()

	codes := diag.CodesByCategory(diag.CategoryOptimizer)
	require.NotEmpty(t, codes)

	for _, code := range codes {
		assert.Equal(t, diag.CategoryOptimizer, code.Category())
	}
}

// TestCodeEmission_ZeroCode verifies zero code behavior.
func TestCodeEmission_ZeroCode(t *testing.T) {
	t.Parallel()

	var zeroCode diag.Code
	assert.True(t, zeroCode.IsZero())
	assert.Equal(t, "", zeroCode.String())
}

// TestCodeEmission_CollectorPreservesCode verifies the collector preserves codes.
func TestCodeEmission_CollectorPreservesCode(t *testing.T) {
	t.Parallel()

	collector := diag.NewCollector(100)

	codes := []diag.Code{
		diag.E_TYPE_MISMATCH,
		diag.E_UNRESOLVED_REQUIRED,
		diag.E_BUNDLE_NOT_FOUND,
		diag.E_REFERENCE_CYCLE,
	}

	for _, code := range codes {
		issue := diag.NewIssue(diag.Error, code, "test "+code.String()).Build()
		collector.Collect(issue)
	}

	result := collector.Result()
	assert.True(t, result.HasErrors())

	collectedCodes := make(map[string]bool)
	for issue := range result.Issues() {
		collectedCodes[issue.Code().String()] = true
	}

	for _, code := range codes {
		assert.True(t, collectedCodes[code.String()], "Code %s should be in result", code.String())
	}
}

// TestCodeEmission_ResultFilterByCode tests filtering issues by code.
func TestCodeEmission_ResultFilterByCode(t *testing.T) {
	t.Parallel()

	collector := diag.NewCollector(100)
	collector.Collect(diag.NewIssue(diag.Error, diag.E_TYPE_MISMATCH, "type error 1").Build())
	collector.Collect(diag.NewIssue(diag.Error, diag.E_TYPE_MISMATCH, "type error 2").Build())
	collector.Collect(diag.NewIssue(diag.Error, diag.E_UNRESOLVED_REQUIRED, "unresolved error").Build())

	result := collector.Result()

	typeMismatchCount := 0
	unresolvedCount := 0
	for issue := range result.Issues() {
		switch issue.Code() {
		case diag.E_TYPE_MISMATCH:
			typeMismatchCount++
		case diag.E_UNRESOLVED_REQUIRED:
			unresolvedCount++
		}
	}

	assert.Equal(t, 2, typeMismatchCount)
	assert.Equal(t, 1, unresolvedCount)
}
