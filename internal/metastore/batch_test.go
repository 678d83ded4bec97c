// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metastore

import "testing"

func TestRanges(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		batchSize int
		want      []Range
	}{
		{name: "empty", n: 0, batchSize: 100, want: nil},
		{name: "single partial batch", n: 7, batchSize: 100, want: []Range{{0, 100}}},
		{name: "exact multiple", n: 200, batchSize: 100, want: []Range{{0, 100}, {100, 200}}},
		{name: "one over", n: 201, batchSize: 100, want: []Range{{0, 100}, {100, 200}, {200, 300}}},
		{name: "batch of one", n: 3, batchSize: 1, want: []Range{{0, 1}, {1, 2}, {2, 3}}},
		{name: "invalid batch size", n: 10, batchSize: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ranges(tt.n, tt.batchSize)
			if len(got) != len(tt.want) {
				t.Fatalf("Ranges(%d, %d) = %v, want %v", tt.n, tt.batchSize, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Every n/batchSize pair must yield exactly ceil(n/b) ranges that cover
// [0, n) contiguously with no overlap.
func TestRangesCoverage(t *testing.T) {
	for n := 0; n <= 257; n++ {
		for _, b := range []int{1, 2, 7, 100, 256} {
			ranges := Ranges(n, b)
			wantCount := (n + b - 1) / b
			if len(ranges) != wantCount {
				t.Fatalf("Ranges(%d, %d): %d ranges, want %d", n, b, len(ranges), wantCount)
			}
			next := 0
			for _, r := range ranges {
				if r.Start != next {
					t.Fatalf("Ranges(%d, %d): gap or overlap at %d (start %d)", n, b, next, r.Start)
				}
				if r.End-r.Start != b {
					t.Fatalf("Ranges(%d, %d): range %v is not batch-sized", n, b, r)
				}
				next = r.End
			}
			if n > 0 && next < n {
				t.Fatalf("Ranges(%d, %d): coverage stops at %d", n, b, next)
			}
		}
	}
}
