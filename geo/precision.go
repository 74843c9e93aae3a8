// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package geo

// StoragePrecision is the geohash length written on every searchable record.
// It is three characters longer than the finest query precision, so every
// query-range prefix still matches the stored value. Never used for querying.
const StoragePrecision = 9

// milesPerDegree is the great-circle length of one degree at the equator.
const milesPerDegree = 69.172

// Tier maps a search-radius bucket to the geohash length used for querying,
// with the approximate cell dimensions at that length for reference.
type Tier struct {
	MaxRadiusMiles  float64 `json:"max_radius_miles"`
	Precision       int     `json:"precision"`
	CellWidthMiles  float64 `json:"cell_width_miles"`
	CellHeightMiles float64 `json:"cell_height_miles"`
}

// tierBuckets is the radius step function; upper bounds are inclusive, so a
// five-mile search still queries at precision 5. The 3x3 grid of center plus
// eight neighbors at each tier roughly spans twice the bucket's radius;
// candidates beyond that window are silently dropped. That undercoverage near
// a bucket's upper edge is a known, accepted approximation of this policy.
var tierBuckets = []struct {
	maxRadiusMiles float64
	precision      int
}{
	{1, 6},
	{5, 5},
	{50, 4},
	{150, 3},
}

const coarsestPrecision = 2

// QueryPrecision returns the geohash length to query with for the given
// search radius. Smaller radii get finer (longer) precisions.
func QueryPrecision(radiusMiles float64) int {
	for _, bucket := range tierBuckets {
		if radiusMiles <= bucket.maxRadiusMiles {
			return bucket.precision
		}
	}

	return coarsestPrecision
}

// Tiers returns the full tier table with derived cell dimensions. The mile
// figures use the equatorial degree length; actual cell widths shrink with
// the cosine of the latitude.
func Tiers() []Tier {
	tiers := make([]Tier, 0, len(tierBuckets))

	for _, bucket := range tierBuckets {
		latDegrees, lngDegrees, _ := CellSize(bucket.precision)
		tiers = append(tiers, Tier{
			MaxRadiusMiles:  bucket.maxRadiusMiles,
			Precision:       bucket.precision,
			CellWidthMiles:  lngDegrees * milesPerDegree,
			CellHeightMiles: latDegrees * milesPerDegree,
		})
	}

	return tiers
}

// Limits bounds the cost of the downstream query fan-out. They are loaded
// once at startup and never mutated; enforcing them is the caller's job, not
// this package's.
type Limits struct {
	MaxCandidatesTotal int     `json:"max_candidates_total"`
	PerRangeLimit      int     `json:"per_range_limit"`
	MaxRadiusMiles     float64 `json:"max_radius_miles"`
	MaxDateWindowDays  int     `json:"max_date_window_days"`
}

// DefaultLimits returns the process-wide safety limits.
func DefaultLimits() Limits {
	return Limits{
		MaxCandidatesTotal: 1000,
		PerRangeLimit:      200,
		MaxRadiusMiles:     250,
		MaxDateWindowDays:  90,
	}
}
