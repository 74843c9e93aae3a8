// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package geo

import "sort"

// compassOffsets are the signed (lat, lng) cell steps for the eight compass
// directions: N, NE, E, SE, S, SW, W, NW.
var compassOffsets = [8][2]float64{
	{1, 0},
	{1, 1},
	{0, 1},
	{-1, 1},
	{-1, 0},
	{-1, -1},
	{0, -1},
	{1, -1},
}

// Neighbors returns the cells adjacent to hash at the same precision. The
// result has at most eight entries, never contains hash itself and never
// contains duplicates: at the poles the clamped rows collapse into fewer
// distinct cells, and at the antimeridian the longitude wraps around.
func Neighbors(hash string) ([]string, error) {
	center, err := Decode(hash)
	if err != nil {
		return nil, err
	}

	latDegrees, lngDegrees, err := CellSize(len(hash))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(compassOffsets))
	neighbors := make([]string, 0, len(compassOffsets))

	for _, offset := range compassOffsets {
		lat := center.Lat + offset[0]*latDegrees
		lng := center.Lng + offset[1]*lngDegrees

		if lat > 90 {
			lat = 90
		} else if lat < -90 {
			lat = -90
		}

		if lng >= 180 {
			lng -= 360
		} else if lng < -180 {
			lng += 360
		}

		neighbor, err := Encode(lat, lng, len(hash))
		if err != nil {
			return nil, err
		}

		if neighbor == hash {
			continue
		}

		if _, ok := seen[neighbor]; ok {
			continue
		}

		seen[neighbor] = struct{}{}
		neighbors = append(neighbors, neighbor)
	}

	return neighbors, nil
}

// NeighborsWithCenter returns the sorted, deduplicated union of hash and its
// neighbors (at most nine entries). This is the working set a single query
// plan covers.
func NeighborsWithCenter(hash string) ([]string, error) {
	neighbors, err := Neighbors(hash)
	if err != nil {
		return nil, err
	}

	cells := append(neighbors, hash)
	sort.Strings(cells)

	return cells, nil
}
