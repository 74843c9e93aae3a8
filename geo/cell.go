// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package geo

// CellSize returns the angular height and width in degrees of a geohash cell
// at the given precision. Longitude is bisected first, so of the 5*precision
// total bits longitude takes the extra one when the count is odd. The split
// must match Encode exactly or neighbor derivation drifts off the grid.
func CellSize(precision int) (latDegrees, lngDegrees float64, err error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return 0, 0, ErrInvalidPrecision
	}

	totalBits := precision * 5
	lngBits := (totalBits + 1) / 2
	latBits := totalBits / 2

	return 180 / float64(uint64(1)<<latBits), 360 / float64(uint64(1)<<lngBits), nil
}
