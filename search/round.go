// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package search executes proximity searches over stored rounds: it turns a
// center and radius into geohash range queries, fans them out against the
// store, and re-ranks the candidates by exact circular distance.
package search

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ChanhaBB/teepals-search/geo"
)

// Round is a searchable record: a hosted round at a course with a tee time.
// The Geohash field is written at geo.StoragePrecision so that every query
// prefix, at any query precision, still matches it.
type Round struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	HostID    string    `json:"host_id"`
	Course    string    `json:"course"`
	Point     geo.Point `json:"point"`
	Geohash   string    `json:"geohash,omitempty"`
	TeeTime   time.Time `json:"tee_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks a round before it is written.
func (r *Round) Validate() error {
	if r == nil {
		return errors.New("round can't be nil")
	}

	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title can't be empty")
	}

	if utf8.RuneCountInString(r.Title) > 200 {
		return errors.New("title too long (maximum 200 characters)")
	}

	if strings.TrimSpace(r.HostID) == "" {
		return errors.New("host_id can't be empty")
	}

	if !r.Point.Valid() {
		return fmt.Errorf("invalid coordinates: (%f, %f)", r.Point.Lat, r.Point.Lng)
	}

	if r.TeeTime.IsZero() {
		return errors.New("tee_time can't be empty")
	}

	return nil
}

// NewRoundID returns a random identifier for a round created without one.
func NewRoundID() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"

	b := make([]byte, 16)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}

	return "rnd_" + string(b)
}
