// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChanhaBB/teepals-search/geo"
)

func setupTestServer(t *testing.T) (*gin.Engine, RoundRepository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, repo := setupTestDB(t)

	router := gin.New()
	NewServer(repo, geo.DefaultLimits()).Register(router)

	return router, repo, func() { db.Close() }
}

func TestHealthEndpoint(t *testing.T) {
	router, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestSearchEndpoint(t *testing.T) {
	router, repo, cleanup := setupTestServer(t)
	defer cleanup()

	teeTime := time.Now().Add(48 * time.Hour)
	nearest := testRound("Golden Gate Park round", 37.78, -122.42, teeTime)
	faraway := testRound("New York round", 40.7128, -74.006, teeTime)
	require.NoError(t, repo.BulkInsert(context.Background(), []*Round{nearest, faraway}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rounds/search?lat=37.7749&lng=-122.4194&radius_miles=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, 1, resp.Count)
	assert.Equal(t, nearest.ID, resp.Results[0].Round.ID)
	assert.Greater(t, resp.Results[0].DistanceMiles, 0.0)
}

func TestSearchEndpointBadRequests(t *testing.T) {
	router, _, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name  string
		query string
	}{
		{"missing lat", "lng=-122.4194&radius_miles=5"},
		{"garbage lat", "lat=abc&lng=-122.4194&radius_miles=5"},
		{"missing radius", "lat=37.7749&lng=-122.4194"},
		{"radius over limit", "lat=37.7749&lng=-122.4194&radius_miles=9000"},
		{"garbage days", "lat=37.7749&lng=-122.4194&radius_miles=5&days=soon"},
		{"garbage limit", "lat=37.7749&lng=-122.4194&radius_miles=5&limit=all"},
		{"latitude out of range", "lat=95&lng=-122.4194&radius_miles=5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/rounds/search?"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateAndGetRound(t *testing.T) {
	router, _, cleanup := setupTestServer(t)
	defer cleanup()

	body, err := json.Marshal(CreateRoundRequest{
		Title:   "Sunday scramble",
		HostID:  "host-42",
		Course:  "Presidio",
		Lat:     37.79,
		Lng:     -122.46,
		TeeTime: time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rounds", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created Round
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Len(t, created.Geohash, geo.StoragePrecision)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/rounds/"+created.ID, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var fetched Round
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "Sunday scramble", fetched.Title)

	// The new round is immediately searchable around its own location.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/rounds/search?lat=%f&lng=%f&radius_miles=2", 37.79, -122.46), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, created.ID, resp.Results[0].Round.ID)
}

func TestCreateRoundRejectsInvalidPayload(t *testing.T) {
	router, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rounds", bytes.NewBufferString(`{"title": ""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRoundNotFound(t *testing.T) {
	router, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rounds/rnd_missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
