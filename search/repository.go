// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ChanhaBB/teepals-search/geo"
)

// ErrRoundNotFound is returned when a round id does not exist.
var ErrRoundNotFound = errors.New("search: round not found")

// RoundRepository handles persistence of rounds. The store exposes no
// geospatial index; proximity queries run as lexicographic range scans over
// the geohash column.
type RoundRepository interface {
	// CreateSchema creates the rounds table
	CreateSchema() error

	// Insert stores a single round, computing its geohash
	Insert(ctx context.Context, round *Round) error

	// BulkInsert stores a slice of rounds in one transaction
	BulkInsert(ctx context.Context, rounds []*Round) error

	// Get returns the round with the given id
	Get(ctx context.Context, id string) (*Round, error)

	// CountRounds returns the total number of stored rounds
	CountRounds(ctx context.Context) (int, error)

	// InRange returns up to limit rounds whose geohash falls in
	// [start, end) and whose tee time falls in [from, to), ordered by
	// geohash. A zero "to" disables the upper tee-time bound.
	InRange(ctx context.Context, start, end string, from, to time.Time, limit int) ([]*Round, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type duckdbRoundRepository struct {
	db *sql.DB
}

// NewRoundRepository creates a DuckDB-backed round repository.
func NewRoundRepository(db *sql.DB) RoundRepository {
	return &duckdbRoundRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *duckdbRoundRepository) DB() *sql.DB {
	return r.db
}

func (r *duckdbRoundRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS rounds (
			id VARCHAR PRIMARY KEY,
			title VARCHAR NOT NULL,
			host_id VARCHAR NOT NULL,
			course VARCHAR,
			point POINT_2D NOT NULL,
			geohash VARCHAR NOT NULL,
			tee_time TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS rounds_geohash_idx ON rounds(geohash);
	`)

	return err
}

func (r *duckdbRoundRepository) Insert(ctx context.Context, round *Round) error {
	return r.BulkInsert(ctx, []*Round{round})
}

func (r *duckdbRoundRepository) BulkInsert(ctx context.Context, rounds []*Round) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rounds(
			id,
			title,
			host_id,
			course,
			point,
			geohash,
			tee_time,
			created_at,
			updated_at
		)
		VALUES (?, ?, ?, ?, ST_Point(?, ?), ?, ?, ?, ?)
	`)
	if err != nil {
		return rollback(tx, err)
	}
	defer stmt.Close()

	now := time.Now()

	for _, round := range rounds {
		if err := round.Validate(); err != nil {
			return rollback(tx, fmt.Errorf("validating round %q: %w", round.ID, err))
		}

		if round.ID == "" {
			round.ID = NewRoundID()
		}

		hash, err := geo.Encode(round.Point.Lat, round.Point.Lng, geo.StoragePrecision)
		if err != nil {
			return rollback(tx, fmt.Errorf("encoding geohash for round %q: %w", round.ID, err))
		}

		round.Geohash = hash

		if round.CreatedAt.IsZero() {
			round.CreatedAt = now
		}

		round.UpdatedAt = now

		_, err = stmt.ExecContext(ctx,
			round.ID,
			round.Title,
			round.HostID,
			round.Course,
			round.Point.Lng,
			round.Point.Lat,
			round.Geohash,
			round.TeeTime,
			round.CreatedAt,
			round.UpdatedAt,
		)
		if err != nil {
			return rollback(tx, err)
		}
	}

	return tx.Commit()
}

// rollback aborts the transaction, keeping cause as the reported error. A
// rollback failure is annotated onto it rather than replacing it.
func rollback(tx *sql.Tx, cause error) error {
	if rErr := tx.Rollback(); rErr != nil {
		return fmt.Errorf("%w (rollback failed: %v)", cause, rErr)
	}

	return cause
}

const roundColumns = `id, title, host_id, course, point, geohash, tee_time, created_at, updated_at`

func (r *duckdbRoundRepository) Get(ctx context.Context, id string) (*Round, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+roundColumns+`
		FROM rounds
		WHERE id = ?
	`, id)

	round, err := scanRound(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, id)
	}

	return round, err
}

func (r *duckdbRoundRepository) CountRounds(ctx context.Context) (int, error) {
	var count int

	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rounds`).Scan(&count)

	return count, err
}

func (r *duckdbRoundRepository) InRange(ctx context.Context, start, end string, from, to time.Time, limit int) ([]*Round, error) {
	query := `
		SELECT ` + roundColumns + `
		FROM rounds
		WHERE geohash >= ? AND geohash < ?
	`
	args := []any{start, end}

	if !from.IsZero() {
		query += ` AND tee_time >= ?`

		args = append(args, from)
	}

	if !to.IsZero() {
		query += ` AND tee_time < ?`

		args = append(args, to)
	}

	query += `
		ORDER BY geohash, id
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying range [%s, %s): %w", start, end, err)
	}
	defer rows.Close()

	var rounds []*Round

	for rows.Next() {
		round, err := scanRound(rows.Scan)
		if err != nil {
			return nil, err
		}

		rounds = append(rounds, round)
	}

	return rounds, rows.Err()
}

func scanRound(scan func(...any) error) (*Round, error) {
	round := &Round{}

	var course sql.NullString

	err := scan(
		&round.ID,
		&round.Title,
		&round.HostID,
		&course,
		&round.Point,
		&round.Geohash,
		&round.TeeTime,
		&round.CreatedAt,
		&round.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if course.Valid {
		round.Course = course.String
	}

	return round, nil
}
