// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ChanhaBB/teepals-search/config"
	"github.com/ChanhaBB/teepals-search/search"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	Long: `Opens the rounds database, seeds it from the configured seed file if it is
empty, and serves the search API.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		_ = godotenv.Load(".env")

		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		db, err := sql.Open("duckdb", cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		repo := search.NewRoundRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		seeded, count, err := search.SeedIfEmpty(context.Background(), repo, cfg.Storage.SeedFile)
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}

		if seeded {
			log.Printf("seeded %d rounds from %s", count, cfg.Storage.SeedFile)
		} else {
			log.Printf("database holds %d rounds", count)
		}

		router := gin.Default()
		search.NewServer(repo, cfg.Limits()).Register(router)

		log.Printf("teepals-search %s listening on %s", Version, cfg.Addr())

		return router.Run(cfg.Addr())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
