// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ChanhaBB/teepals-search/config"
	"github.com/ChanhaBB/teepals-search/search"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Load rounds from a JSON seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_ = godotenv.Load(".env")

		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		seed, err := search.ReadSeedFile(args[0])
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

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(seed.Rounds),
				progressbar.OptionSetDescription("Loading rounds"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		ctx := context.Background()

		for _, round := range seed.Rounds {
			if err := repo.Insert(ctx, round); err != nil {
				return fmt.Errorf("inserting round %q: %w", round.Title, err)
			}

			if bar != nil {
				_ = bar.Add(1)
			}
		}

		fmt.Printf("✅ Loaded %d rounds into %s\n", len(seed.Rounds), cfg.Storage.Path)

		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all rounds to a JSON seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
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
		if err := search.ExportToJSON(context.Background(), repo, args[0]); err != nil {
			return err
		}

		fmt.Printf("✅ Exported rounds to %s\n", args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
}
