// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package search

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChanhaBB/teepals-search/geo"
)

func setupTestDB(t *testing.T) (*sql.DB, RoundRepository) {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	repo := NewRoundRepository(db)
	if err := repo.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db, repo
}

func testRound(title string, lat, lng float64, teeTime time.Time) *Round {
	return &Round{
		Title:   title,
		HostID:  "host-1",
		Course:  "Some Course",
		Point:   geo.Point{Lat: lat, Lng: lng},
		TeeTime: teeTime,
	}
}

func TestCreateSchema(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	var tableName string

	err := db.QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = 'rounds'").Scan(&tableName)
	if err != nil {
		t.Fatalf("Table not created: %v", err)
	}

	if tableName != "rounds" {
		t.Errorf("Expected table 'rounds', got '%s'", tableName)
	}
}

func TestInsertAndGet(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	teeTime := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	round := testRound("Saturday morning at Harding Park", 37.7225, -122.4928, teeTime)

	require.NoError(t, repo.Insert(ctx, round))
	require.NotEmpty(t, round.ID, "Insert should assign an id")

	// The stored geohash is always at storage precision.
	wantHash, err := geo.Encode(37.7225, -122.4928, geo.StoragePrecision)
	require.NoError(t, err)
	assert.Equal(t, wantHash, round.Geohash)

	retrieved, err := repo.Get(ctx, round.ID)
	require.NoError(t, err)

	assert.Equal(t, round.Title, retrieved.Title)
	assert.Equal(t, round.HostID, retrieved.HostID)
	assert.Equal(t, round.Course, retrieved.Course)
	assert.Equal(t, wantHash, retrieved.Geohash)
	assert.InDelta(t, 37.7225, retrieved.Point.Lat, 1e-9)
	assert.InDelta(t, -122.4928, retrieved.Point.Lng, 1e-9)
	assert.True(t, retrieved.TeeTime.Equal(teeTime), "tee time %v != %v", retrieved.TeeTime, teeTime)
}

func TestGetMissingRound(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	_, err := repo.Get(context.Background(), "rnd_missing")
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestInsertRejectsInvalidRound(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	// The validation cause must survive the transaction rollback.
	err := repo.Insert(ctx, testRound("", 37.7, -122.4, time.Now()))
	require.Error(t, err, "empty title")
	assert.Contains(t, err.Error(), "title")

	err = repo.Insert(ctx, testRound("Bad point", 95, -122.4, time.Now()))
	require.Error(t, err, "latitude out of range")
	assert.Contains(t, err.Error(), "coordinates")

	count, err := repo.CountRounds(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "failed inserts must not persist")
}

func TestBulkInsertRollsBackOnDuplicateID(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	teeTime := time.Now().Add(24 * time.Hour)

	first := testRound("First", 37.7749, -122.4194, teeTime)
	dup := testRound("Duplicate", 37.78, -122.42, teeTime)
	first.ID = "rnd_same"
	dup.ID = "rnd_same"

	err := repo.BulkInsert(ctx, []*Round{first, dup})
	require.Error(t, err)

	count, err := repo.CountRounds(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "the whole batch must roll back")
}

func TestInRange(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	teeTime := time.Now().Add(24 * time.Hour)

	sf := testRound("San Francisco round", 37.7749, -122.4194, teeTime)
	nyc := testRound("New York round", 40.7128, -74.006, teeTime)
	require.NoError(t, repo.BulkInsert(ctx, []*Round{sf, nyc}))

	// The SF cell at query precision 5 covers the stored 9-character hash.
	rounds, err := repo.InRange(ctx, "9q8yy", "9q8yy~", time.Time{}, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, sf.ID, rounds[0].ID)

	// A range that covers nothing stored.
	rounds, err = repo.InRange(ctx, "zzzzz", "zzzzz~", time.Time{}, time.Time{}, 10)
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestInRangeLimit(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	teeTime := time.Now().Add(24 * time.Hour)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, testRound("Round", 37.7749, -122.4194, teeTime)))
	}

	rounds, err := repo.InRange(ctx, "9q8yy", "9q8yy~", time.Time{}, time.Time{}, 3)
	require.NoError(t, err)
	assert.Len(t, rounds, 3)
}

func TestInRangeDateWindow(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	soon := testRound("Soon", 37.7749, -122.4194, now.Add(48*time.Hour))
	far := testRound("Far out", 37.7749, -122.4194, now.Add(60*24*time.Hour))
	past := testRound("Already played", 37.7749, -122.4194, now.Add(-24*time.Hour))
	require.NoError(t, repo.BulkInsert(ctx, []*Round{soon, far, past}))

	rounds, err := repo.InRange(ctx, "9q8yy", "9q8yy~", now, now.AddDate(0, 0, 30), 10)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, soon.ID, rounds[0].ID)

	// Zero bounds disable the tee-time filter.
	rounds, err = repo.InRange(ctx, "9q8yy", "9q8yy~", time.Time{}, time.Time{}, 10)
	require.NoError(t, err)
	assert.Len(t, rounds, 3)
}
