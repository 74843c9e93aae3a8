// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ChanhaBB/teepals-search/geo"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugHashCmd = &cobra.Command{
	Use:   "hash <lat> <lng>",
	Short: "Print the geohash of a point at every precision",
	Long: `Prints the geohash at each precision from 1 to 12, with the cell size and
the neighborhood at the storage precision.

$ teepals-search debug hash 37.7749 -122.4194
`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("parsing latitude: %w", err)
		}

		lng, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parsing longitude: %w", err)
		}

		for precision := geo.MinPrecision; precision <= geo.MaxPrecision; precision++ {
			hash, err := geo.Encode(lat, lng, precision)
			if err != nil {
				return err
			}

			latDegrees, lngDegrees, err := geo.CellSize(precision)
			if err != nil {
				return err
			}

			fmt.Printf("%2d  %-12s  cell %.6f° x %.6f°\n", precision, hash, latDegrees, lngDegrees)
		}

		storage, err := geo.Encode(lat, lng, geo.StoragePrecision)
		if err != nil {
			return err
		}

		neighbors, err := geo.Neighbors(storage)
		if err != nil {
			return err
		}

		fmt.Printf("\nstored as %s, neighbors %v\n", storage, neighbors)

		return nil
	},
}

var debugPlanCmd = &cobra.Command{
	Use:   "plan <lat> <lng> <radius-miles>",
	Short: "Print the range-query plan for a search",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("parsing latitude: %w", err)
		}

		lng, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parsing longitude: %w", err)
		}

		radius, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("parsing radius: %w", err)
		}

		precision := geo.QueryPrecision(radius)

		hash, err := geo.Encode(lat, lng, precision)
		if err != nil {
			return err
		}

		cells, err := geo.NeighborsWithCenter(hash)
		if err != nil {
			return err
		}

		plan := geo.PlanRanges(cells)

		out, err := json.MarshalIndent(struct {
			Precision int         `json:"precision"`
			Cells     []string    `json:"cells"`
			Ranges    []geo.Range `json:"ranges"`
		}{precision, cells, plan}, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugHashCmd)
	debugCmd.AddCommand(debugPlanCmd)
}
