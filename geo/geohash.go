// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package geo implements the proximity search core: a base32 geohash codec,
// neighbor derivation, range-query planning over the geohash ordering, the
// radius-to-precision policy and exact great-circle distances. Everything in
// the package is a pure function over immutable values; callers may share it
// freely across goroutines.
package geo

import (
	"errors"
	"fmt"
)

// alphabet is the standard geohash base32 alphabet. Each character encodes
// five bits; bits alternate longitude/latitude starting with longitude.
const alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

const (
	// MinPrecision and MaxPrecision bound the supported geohash lengths.
	MinPrecision = 1
	MaxPrecision = 12
)

var (
	// ErrInvalidCoordinates reports a latitude outside [-90,90] or a
	// longitude outside [-180,180].
	ErrInvalidCoordinates = errors.New("geo: coordinates out of range")
	// ErrInvalidPrecision reports a precision outside [1,12].
	ErrInvalidPrecision = errors.New("geo: precision out of range")
	// ErrInvalidGeohash reports an empty hash, a hash longer than
	// MaxPrecision, or a character outside the base32 alphabet.
	ErrInvalidGeohash = errors.New("geo: invalid geohash")
)

// charValue maps an alphabet byte to its 5-bit value, or -1.
var charValue = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}

	for i := range len(alphabet) {
		table[alphabet[i]] = int8(i)
	}

	return table
}()

// Encode returns the geohash of the given coordinates at the given precision.
// The longitude range is bisected first; every five bits are packed into one
// alphabet character, most-significant bit first.
func Encode(lat, lng float64, precision int) (string, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return "", fmt.Errorf("%w: %d", ErrInvalidPrecision, precision)
	}

	if !(Point{Lat: lat, Lng: lng}).Valid() {
		return "", fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinates, lat, lng)
	}

	latRange := [2]float64{-90, 90}
	lngRange := [2]float64{-180, 180}

	out := make([]byte, 0, precision)
	even := true
	bit := 0
	ch := 0

	for len(out) < precision {
		if even {
			mid := (lngRange[0] + lngRange[1]) / 2
			if lng >= mid {
				ch |= 1 << (4 - bit)
				lngRange[0] = mid
			} else {
				lngRange[1] = mid
			}
		} else {
			mid := (latRange[0] + latRange[1]) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}

		even = !even
		bit++

		if bit == 5 {
			out = append(out, alphabet[ch])
			bit = 0
			ch = 0
		}
	}

	return string(out), nil
}

// Decode returns the approximate center of the cell named by hash: the
// midpoint of the latitude and longitude bounds after replaying the same
// bisection the encoder performed. Re-encoding the result at len(hash)
// reproduces hash.
func Decode(hash string) (Point, error) {
	if len(hash) < MinPrecision || len(hash) > MaxPrecision {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidGeohash, hash)
	}

	latRange := [2]float64{-90, 90}
	lngRange := [2]float64{-180, 180}
	even := true

	for i := range len(hash) {
		value := charValue[hash[i]]
		if value < 0 {
			return Point{}, fmt.Errorf("%w: %q", ErrInvalidGeohash, hash)
		}

		for bit := 4; bit >= 0; bit-- {
			upper := value&(1<<bit) != 0

			if even {
				mid := (lngRange[0] + lngRange[1]) / 2
				if upper {
					lngRange[0] = mid
				} else {
					lngRange[1] = mid
				}
			} else {
				mid := (latRange[0] + latRange[1]) / 2
				if upper {
					latRange[0] = mid
				} else {
					latRange[1] = mid
				}
			}

			even = !even
		}
	}

	return Point{
		Lat: (latRange[0] + latRange[1]) / 2,
		Lng: (lngRange[0] + lngRange[1]) / 2,
	}, nil
}
