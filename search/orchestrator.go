// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ChanhaBB/teepals-search/geo"
)

// ErrInvalidQuery is wrapped by every query validation failure.
var ErrInvalidQuery = errors.New("search: invalid query")

// Query describes one proximity search.
type Query struct {
	Center      geo.Point `json:"center"`
	RadiusMiles float64   `json:"radius_miles"`
	// DateWindowDays restricts results to tee times within the next N
	// days. Zero disables the date filter.
	DateWindowDays int `json:"date_window_days"`
	PageSize       int `json:"page_size"`
}

// Result is one search hit with its exact distance from the query center.
type Result struct {
	Round         *Round  `json:"round"`
	DistanceMiles float64 `json:"distance_miles"`
}

// Orchestrator runs proximity searches: it picks the query precision, plans
// the geohash ranges, dispatches them concurrently against the repository,
// and re-ranks the merged candidates by true circular distance.
type Orchestrator struct {
	repo   RoundRepository
	limits geo.Limits
	now    func() time.Time
}

// NewOrchestrator creates an orchestrator bound to a repository and the
// process-wide search limits.
func NewOrchestrator(repo RoundRepository, limits geo.Limits) *Orchestrator {
	return &Orchestrator{
		repo:   repo,
		limits: limits,
		now:    time.Now,
	}
}

func (o *Orchestrator) validate(q Query) error {
	if !q.Center.Valid() {
		return fmt.Errorf("%w: center (%f, %f) out of range", ErrInvalidQuery, q.Center.Lat, q.Center.Lng)
	}

	if q.RadiusMiles <= 0 || q.RadiusMiles > o.limits.MaxRadiusMiles {
		return fmt.Errorf("%w: radius %.2f must be in (0, %.0f]", ErrInvalidQuery, q.RadiusMiles, o.limits.MaxRadiusMiles)
	}

	if q.DateWindowDays < 0 || q.DateWindowDays > o.limits.MaxDateWindowDays {
		return fmt.Errorf("%w: date window %d must be in [0, %d]", ErrInvalidQuery, q.DateWindowDays, o.limits.MaxDateWindowDays)
	}

	if q.PageSize <= 0 {
		return fmt.Errorf("%w: page size %d must be positive", ErrInvalidQuery, q.PageSize)
	}

	return nil
}

// Search returns rounds within the radius, sorted ascending by distance and
// truncated to the page size. Candidates come from the planned range scans,
// so cells outside the 3x3 neighborhood of the center are never visited;
// everything fetched is then filtered by exact distance, which drops the
// false positives the rectangular cells let through.
func (o *Orchestrator) Search(ctx context.Context, q Query) ([]Result, error) {
	if err := o.validate(q); err != nil {
		return nil, err
	}

	precision := geo.QueryPrecision(q.RadiusMiles)

	centerHash, err := geo.Encode(q.Center.Lat, q.Center.Lng, precision)
	if err != nil {
		return nil, fmt.Errorf("encoding query center: %w", err)
	}

	cells, err := geo.NeighborsWithCenter(centerHash)
	if err != nil {
		return nil, fmt.Errorf("deriving neighborhood of %q: %w", centerHash, err)
	}

	plan := geo.PlanRanges(cells)

	var from, to time.Time
	if q.DateWindowDays > 0 {
		from = o.now()
		to = from.AddDate(0, 0, q.DateWindowDays)
	}

	// One range query per goroutine; all results joined before distance
	// filtering so a later-arriving closer candidate is never discarded.
	g, gctx := errgroup.WithContext(ctx)
	batches := make([][]*Round, len(plan))

	for i, r := range plan {
		g.Go(func() error {
			rounds, err := o.repo.InRange(gctx, r.Start, r.End, from, to, o.limits.PerRangeLimit)
			if err != nil {
				return err
			}

			batches[i] = rounds

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("executing %d range queries: %w", len(plan), err)
	}

	// Merged ranges are disjoint, but a store retrying or a future overlap
	// in the plan must not surface the same round twice.
	seen := make(map[string]struct{})
	results := make([]Result, 0)
	total := 0

	for _, batch := range batches {
		for _, round := range batch {
			if total >= o.limits.MaxCandidatesTotal {
				break
			}

			if _, ok := seen[round.ID]; ok {
				continue
			}

			seen[round.ID] = struct{}{}
			total++

			distance := geo.DistanceMiles(q.Center, round.Point)
			if distance > q.RadiusMiles {
				continue
			}

			results = append(results, Result{Round: round, DistanceMiles: distance})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceMiles != results[j].DistanceMiles {
			return results[i].DistanceMiles < results[j].DistanceMiles
		}

		return results[i].Round.ID < results[j].Round.ID
	})

	if len(results) > q.PageSize {
		results = results[:q.PageSize]
	}

	return results, nil
}

// Plan exposes the ranges a query would scan, for debugging and tooling.
func (o *Orchestrator) Plan(center geo.Point, radiusMiles float64) ([]geo.Range, error) {
	precision := geo.QueryPrecision(radiusMiles)

	centerHash, err := geo.Encode(center.Lat, center.Lng, precision)
	if err != nil {
		return nil, err
	}

	cells, err := geo.NeighborsWithCenter(centerHash)
	if err != nil {
		return nil, err
	}

	return geo.PlanRanges(cells), nil
}
