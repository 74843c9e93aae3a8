// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package geo

import "math"

const (
	earthRadiusMiles  = 3958.7613
	earthRadiusMeters = 6371e3
)

// DistanceMiles returns the great-circle distance between two points in miles.
func DistanceMiles(a, b Point) float64 {
	return earthRadiusMiles * angularDistance(a, b)
}

// DistanceMeters returns the great-circle distance between two points in meters.
func DistanceMeters(a, b Point) float64 {
	return earthRadiusMeters * angularDistance(a, b)
}

// angularDistance computes the haversine central angle in radians. The
// haversine term is clamped to [0,1] so floating-point overshoot on antipodal
// or coincident points cannot push the square roots out of domain.
func angularDistance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	if h < 0 {
		h = 0
	} else if h > 1 {
		h = 1
	}

	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
