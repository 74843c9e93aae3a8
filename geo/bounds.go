// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package geo

import "sort"

// rangeSentinel sorts after every alphabet character (0x7E > 'z'), so the
// half-open interval [hash, hash+rangeSentinel) covers exactly the strings
// that have hash as a prefix.
const rangeSentinel = "~"

// Range is a half-open interval [Start, End) over the lexicographic ordering
// of geohash strings, suitable for a store's native range query.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether s falls inside the range.
func (r Range) Contains(s string) bool {
	return s >= r.Start && s < r.End
}

// PlanRanges turns a set of cells into the minimal ordered list of
// non-overlapping ranges whose union covers every string prefixed by one of
// the cells. Fewer ranges means fewer downstream range queries, each of which
// carries fixed latency. An empty input yields an empty plan: no area to
// search is a valid state, not an error.
func PlanRanges(cells []string) []Range {
	ranges := make([]Range, 0, len(cells))
	for _, cell := range cells {
		ranges = append(ranges, Range{Start: cell, End: cell + rangeSentinel})
	}

	return mergeRanges(ranges)
}

// mergeRanges sorts ranges by start and folds every range whose start is
// covered by the running accumulator into it, keeping the larger end.
func mergeRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return ranges
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start < ranges[j].Start
	})

	merged := make([]Range, 0, len(ranges))
	merged = append(merged, ranges[0])

	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]

		if last.End >= r.Start {
			if r.End > last.End {
				last.End = r.End
			}

			continue
		}

		merged = append(merged, r)
	}

	return merged
}
