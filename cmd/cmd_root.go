// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "teepals-search",
	Short: "proximity search backend for TeePals rounds",
	Long: `
teepals-search answers "rounds near me" queries. Rounds carry a geohash field
encoded at a fixed storage precision; a search is planned as a handful of
lexicographic range scans over that field and the candidates are re-ranked by
exact great-circle distance.
`,
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "teepals.yaml", "path to the YAML configuration file")
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
