// Copyright 2025 The TeePals Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads the process configuration once at startup: defaults,
// then an optional YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ChanhaBB/teepals-search/geo"
)

// Config is the process configuration. Search limits are read once here and
// never mutated afterwards.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	Path     string `yaml:"path"`
	SeedFile string `yaml:"seed_file"`
}

type SearchConfig struct {
	MaxCandidatesTotal int     `yaml:"max_candidates_total"`
	PerRangeLimit      int     `yaml:"per_range_limit"`
	MaxRadiusMiles     float64 `yaml:"max_radius_miles"`
	MaxDateWindowDays  int     `yaml:"max_date_window_days"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() *Config {
	limits := geo.DefaultLimits()

	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path:     "teepals.duckdb",
			SeedFile: "seed/rounds.json",
		},
		Search: SearchConfig{
			MaxCandidatesTotal: limits.MaxCandidatesTotal,
			PerRangeLimit:      limits.PerRangeLimit,
			MaxRadiusMiles:     limits.MaxRadiusMiles,
			MaxDateWindowDays:  limits.MaxDateWindowDays,
		},
	}
}

// Load reads the configuration. A missing file is not an error; a malformed
// one is. Environment variables win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - path is provided by admin
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TEEPALS_HOST"); v != "" {
		c.Server.Host = v
	}

	if v := os.Getenv("TEEPALS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	if v := os.Getenv("TEEPALS_DB_PATH"); v != "" {
		c.Storage.Path = v
	}

	if v := os.Getenv("TEEPALS_SEED_FILE"); v != "" {
		c.Storage.SeedFile = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}

	if c.Search.MaxCandidatesTotal <= 0 || c.Search.PerRangeLimit <= 0 {
		return fmt.Errorf("config: candidate limits must be positive: %+v", c.Search)
	}

	if c.Search.MaxRadiusMiles <= 0 || c.Search.MaxDateWindowDays <= 0 {
		return fmt.Errorf("config: radius and date window limits must be positive: %+v", c.Search)
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Limits converts the search section into the core's limit type.
func (c *Config) Limits() geo.Limits {
	return geo.Limits{
		MaxCandidatesTotal: c.Search.MaxCandidatesTotal,
		PerRangeLimit:      c.Search.PerRangeLimit,
		MaxRadiusMiles:     c.Search.MaxRadiusMiles,
		MaxDateWindowDays:  c.Search.MaxDateWindowDays,
	}
}
