package bundlegraph

import (
	"hash/fnv"

	"github.com/quiltcore/bundler/immutable"
)

// sharedBundleKey computes the uniqueKey for a shared bundle extracted
// from a given source-bundle set: the bundle IDs are sorted, wrapped into
// a canonical key via immutable.WrapKey, and the canonical string is
// hashed with FNV-1a for a short, stable identifier.
func sharedBundleKey(sourceBundles []BundleID) string {
	sorted := make([]BundleID, len(sourceBundles))
	copy(sorted, sourceBundles)
	sortBundleIDs(sorted)

	values := make([]any, len(sorted))
	for i, id := range sorted {
		values[i] = string(id)
	}

	canonical := immutable.WrapKey(values).String()

	h := fnv.New64a()
	_, _ = h.Write([]byte(canonical))
	return "shared:" + formatHash(h.Sum64())
}

func formatHash(v uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}
