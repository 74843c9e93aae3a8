// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package search

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChanhaBB/teepals-search/geo"
)

// Server exposes the proximity search over HTTP.
type Server struct {
	repo         RoundRepository
	orchestrator *Orchestrator
}

// NewServer creates the HTTP surface over a repository.
func NewServer(repo RoundRepository, limits geo.Limits) *Server {
	return &Server{
		repo:         repo,
		orchestrator: NewOrchestrator(repo, limits),
	}
}

// Register attaches the API routes to the router.
func (s *Server) Register(router *gin.Engine) {
	router.GET("/healthz", s.health)
	router.GET("/api/rounds/search", s.searchRounds)
	router.GET("/api/rounds/:id", s.getRound)
	router.POST("/api/rounds", s.createRound)
}

func (s *Server) health(ctx *gin.Context) {
	if _, err := s.repo.CountRounds(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SearchResponse is the payload of GET /api/rounds/search.
type SearchResponse struct {
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

func (s *Server) searchRounds(ctx *gin.Context) {
	lat, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat parameter"})

		return
	}

	lng, err := strconv.ParseFloat(ctx.Query("lng"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid lng parameter"})

		return
	}

	radius, err := strconv.ParseFloat(ctx.Query("radius_miles"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_miles parameter"})

		return
	}

	days := 0

	if raw := ctx.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid days parameter"})

			return
		}
	}

	pageSize := 50

	if raw := ctx.Query("limit"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})

			return
		}
	}

	query := Query{
		Center:         geo.Point{Lat: lat, Lng: lng},
		RadiusMiles:    radius,
		DateWindowDays: days,
		PageSize:       pageSize,
	}

	results, err := s.orchestrator.Search(ctx.Request.Context(), query)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		log.Printf("search failed for center (%f, %f): %v", lat, lng, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, SearchResponse{Results: results, Count: len(results)})
}

func (s *Server) getRound(ctx *gin.Context) {
	round, err := s.repo.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ErrRoundNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, round)
}

// CreateRoundRequest is the payload of POST /api/rounds.
type CreateRoundRequest struct {
	Title   string    `json:"title"`
	HostID  string    `json:"host_id"`
	Course  string    `json:"course"`
	Lat     float64   `json:"lat"`
	Lng     float64   `json:"lng"`
	TeeTime time.Time `json:"tee_time"`
}

func (s *Server) createRound(ctx *gin.Context) {
	var req CreateRoundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	round := &Round{
		ID:      NewRoundID(),
		Title:   req.Title,
		HostID:  req.HostID,
		Course:  req.Course,
		Point:   geo.Point{Lat: req.Lat, Lng: req.Lng},
		TeeTime: req.TeeTime,
	}

	if err := round.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := s.repo.Insert(ctx.Request.Context(), round); err != nil {
		log.Printf("inserting round %q: %v", round.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusCreated, round)
}
