// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SeedData represents the JSON seed file format.
type SeedData struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	Rounds      []*Round  `json:"rounds"`
}

// ReadSeedFile parses a seed file without touching the database.
func ReadSeedFile(filepath string) (*SeedData, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var seed SeedData
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed JSON: %w", err)
	}

	return &seed, nil
}

// ImportFromJSON imports rounds from a JSON seed file.
func ImportFromJSON(ctx context.Context, repo RoundRepository, filepath string) (int, error) {
	seed, err := ReadSeedFile(filepath)
	if err != nil {
		return 0, err
	}

	if err := repo.BulkInsert(ctx, seed.Rounds); err != nil {
		return 0, fmt.Errorf("inserting seed rounds: %w", err)
	}

	return len(seed.Rounds), nil
}

// SeedIfEmpty seeds the database from a JSON file if no rounds exist.
func SeedIfEmpty(ctx context.Context, repo RoundRepository, filepath string) (bool, int, error) {
	count, err := repo.CountRounds(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("counting rounds: %w", err)
	}

	if count > 0 {
		return false, count, nil
	}
	// Database is empty, try to seed
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		// No seed file exists, that's okay
		return false, 0, nil
	}

	imported, err := ImportFromJSON(ctx, repo, filepath)
	if err != nil {
		return false, 0, err
	}

	return true, imported, nil
}

// ExportToJSON is not symmetric with import on purpose: rounds are exported
// without their stored geohash so re-import recomputes it at the current
// storage precision.
func ExportToJSON(ctx context.Context, repo RoundRepository, filepath string) error {
	rows, err := repo.DB().QueryContext(ctx, `
		SELECT `+roundColumns+`
		FROM rounds
		ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("listing rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*Round

	for rows.Next() {
		round, err := scanRound(rows.Scan)
		if err != nil {
			return fmt.Errorf("scanning round: %w", err)
		}

		round.Geohash = ""
		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	seed := &SeedData{
		Version:     "1.0",
		LastUpdated: time.Now(),
		Rounds:      rounds,
	}

	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	err = os.WriteFile(filepath, data, 0o600)
	if err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
