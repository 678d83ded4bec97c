// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metastore

// Range is one half-open slice [Start, End) of a remote listing.
type Range struct {
	Start int
	End   int
}

// Ranges splits [0, n) into ceil(n/batchSize) non-overlapping ranges of at
// most batchSize elements. The final range may extend past n; the remote
// slice simply comes back short, which is not an error.
func Ranges(n, batchSize int) []Range {
	if n <= 0 || batchSize <= 0 {
		return nil
	}
	buckets := (n + batchSize - 1) / batchSize
	ranges := make([]Range, 0, buckets)
	for i := 0; i < buckets; i++ {
		ranges = append(ranges, Range{Start: i * batchSize, End: (i + 1) * batchSize})
	}
	return ranges
}
