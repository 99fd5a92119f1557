// Copyright 2023 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS-IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the typed engine configuration: matcher thresholds,
// grid cell sizes, interval tolerances, routing and history limits.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/akhenakh/sitegeo/interval"
	"github.com/akhenakh/sitegeo/match"
	"github.com/akhenakh/sitegeo/route"
)

// Config is the engine configuration.
type Config struct {
	Match    Match    `yaml:"match"`
	Interval Interval `yaml:"interval"`
	Route    Route    `yaml:"route"`
	History  History  `yaml:"history"`
	Counters Counters `yaml:"counters"`
}

// Match configures label to region matching.
type Match struct {
	CellSize                     float64 `yaml:"cellSize"`
	SmallDiagonal                float64 `yaml:"smallDiagonal"`
	SmallMargin                  float64 `yaml:"smallMargin"`
	NearRadius                   float64 `yaml:"nearRadius"`
	LooseRadius                  float64 `yaml:"looseRadius"`
	AllowSharedLargeRegionLabels bool    `yaml:"allowSharedLargeRegionLabels"`
	ChunkSize                    int     `yaml:"chunkSize"`
}

// Interval configures range bookkeeping.
type Interval struct {
	// Epsilon is the shortest range kept after subtraction.
	Epsilon float64 `yaml:"epsilon"`
	// MinBoxLength is the shortest range a box selection may produce.
	MinBoxLength float64 `yaml:"minBoxLength"`
	// Decimals is the precision, in decimal places of a meter, box
	// selections are rounded to.
	Decimals int `yaml:"decimals"`
}

// Route configures the line network graph.
type Route struct {
	Precision       int     `yaml:"precision"`
	CellSize        float64 `yaml:"cellSize"`
	MaxRings        int     `yaml:"maxRings"`
	MaxSnapDistance float64 `yaml:"maxSnapDistance"`
	Separator       string  `yaml:"separator"`
}

// History configures undo/redo.
type History struct {
	MaxLength int `yaml:"maxLength"`
}

// Counters configures keyed progress counters such as terminations per
// station.
type Counters struct {
	Max int `yaml:"max"`
}

// Default returns the default configuration.
func Default() *Config {
	m := match.DefaultOptions()
	r := route.DefaultOptions()
	return &Config{
		Match: Match{
			CellSize:      m.CellSize,
			SmallDiagonal: m.SmallDiagonal,
			SmallMargin:   m.SmallMargin,
			NearRadius:    m.NearRadius,
			LooseRadius:   m.LooseRadius,
			ChunkSize:     m.ChunkSize,
		},
		Interval: Interval{
			Epsilon:      interval.DefaultEpsilon,
			MinBoxLength: 0.5,
			Decimals:     3,
		},
		Route: Route{
			Precision:       r.Precision,
			CellSize:        r.CellSize,
			MaxRings:        r.MaxRings,
			MaxSnapDistance: r.MaxSnapDistance,
			Separator:       route.DefaultSeparator,
		},
		History:  History{MaxLength: 100},
		Counters: Counters{Max: 3},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	positive("match.cellSize", c.Match.CellSize)
	positive("match.nearRadius", c.Match.NearRadius)
	positive("route.cellSize", c.Route.CellSize)
	positive("route.maxSnapDistance", c.Route.MaxSnapDistance)
	positive("interval.epsilon", c.Interval.Epsilon)
	if c.Match.LooseRadius < c.Match.NearRadius {
		errs = append(errs, fmt.Errorf("match.looseRadius (%v) must not be below match.nearRadius (%v)", c.Match.LooseRadius, c.Match.NearRadius))
	}
	if c.Match.SmallMargin < 0 || c.Match.SmallDiagonal < 0 || c.Interval.MinBoxLength < 0 {
		errs = append(errs, errors.New("match.smallMargin, match.smallDiagonal and interval.minBoxLength must not be negative"))
	}
	if c.Interval.Decimals < 0 || c.Interval.Decimals > 9 {
		errs = append(errs, fmt.Errorf("interval.decimals must be within [0, 9], got %d", c.Interval.Decimals))
	}
	if c.Match.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("match.chunkSize must be positive, got %d", c.Match.ChunkSize))
	}
	if c.Route.Precision < 0 || c.Route.MaxRings <= 0 {
		errs = append(errs, fmt.Errorf("route.precision must be >= 0 and route.maxRings > 0, got %d and %d", c.Route.Precision, c.Route.MaxRings))
	}
	if c.Route.Separator == "" {
		errs = append(errs, errors.New("route.separator must not be empty"))
	}
	if c.History.MaxLength <= 0 || c.Counters.Max <= 0 {
		errs = append(errs, fmt.Errorf("history.maxLength and counters.max must be positive, got %d and %d", c.History.MaxLength, c.Counters.Max))
	}
	return errors.Join(errs...)
}

// MatchOptions returns the matcher options.
func (c *Config) MatchOptions() match.Options {
	return match.Options{
		CellSize:                     c.Match.CellSize,
		SmallDiagonal:                c.Match.SmallDiagonal,
		SmallMargin:                  c.Match.SmallMargin,
		NearRadius:                   c.Match.NearRadius,
		LooseRadius:                  c.Match.LooseRadius,
		AllowSharedLargeRegionLabels: c.Match.AllowSharedLargeRegionLabels,
		ChunkSize:                    c.Match.ChunkSize,
	}
}

// RouteOptions returns the graph options.
func (c *Config) RouteOptions() route.Options {
	return route.Options{
		Precision:       c.Route.Precision,
		CellSize:        c.Route.CellSize,
		MaxRings:        c.Route.MaxRings,
		MaxSnapDistance: c.Route.MaxSnapDistance,
	}
}

// Decode parses YAML on top of the defaults and validates the result.
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads and decodes a YAML config from any location afs supports
// (file://, mem://, s3://, gs://, ...).
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	return Decode(data)
}

// Environment variables read by ApplyEnv.
const (
	EnvMatchCellSize     = "SITEGEO_MATCH_CELL_SIZE"
	EnvSmallDiagonal     = "SITEGEO_SMALL_DIAGONAL"
	EnvSmallMargin       = "SITEGEO_SMALL_MARGIN"
	EnvNearRadius        = "SITEGEO_NEAR_RADIUS"
	EnvLooseRadius       = "SITEGEO_LOOSE_RADIUS"
	EnvSharedLargeLabels = "SITEGEO_SHARED_LARGE_LABELS"
	EnvChunkSize         = "SITEGEO_CHUNK_SIZE"
	EnvIntervalEpsilon   = "SITEGEO_INTERVAL_EPSILON"
	EnvMinBoxLength      = "SITEGEO_MIN_BOX_LENGTH"
	EnvIntervalDecimals  = "SITEGEO_INTERVAL_DECIMALS"
	EnvRouteCellSize     = "SITEGEO_ROUTE_CELL_SIZE"
	EnvRouteMaxSnap      = "SITEGEO_ROUTE_MAX_SNAP"
	EnvHistoryMaxLength  = "SITEGEO_HISTORY_MAX_LENGTH"
	EnvCountersMax       = "SITEGEO_COUNTERS_MAX"
	EnvSegmentSeparator  = "SITEGEO_SEGMENT_SEPARATOR"
	EnvRoutePrecision    = "SITEGEO_ROUTE_PRECISION"
	EnvRouteMaxRings     = "SITEGEO_ROUTE_MAX_RINGS"
)

// ApplyEnv overrides cfg from dotenv files (read in order, without touching
// the process environment) and then from the process environment, which
// wins. The result is validated.
func ApplyEnv(cfg *Config, files ...string) error {
	vars := make(map[string]string)
	if len(files) > 0 {
		read, err := godotenv.Read(files...)
		if err != nil {
			return fmt.Errorf("failed to read env files: %w", err)
		}
		vars = read
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	var errs []error
	setFloat := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setFloat(EnvMatchCellSize, &cfg.Match.CellSize)
	setFloat(EnvSmallDiagonal, &cfg.Match.SmallDiagonal)
	setFloat(EnvSmallMargin, &cfg.Match.SmallMargin)
	setFloat(EnvNearRadius, &cfg.Match.NearRadius)
	setFloat(EnvLooseRadius, &cfg.Match.LooseRadius)
	setInt(EnvChunkSize, &cfg.Match.ChunkSize)
	setFloat(EnvIntervalEpsilon, &cfg.Interval.Epsilon)
	setFloat(EnvMinBoxLength, &cfg.Interval.MinBoxLength)
	setInt(EnvIntervalDecimals, &cfg.Interval.Decimals)
	setFloat(EnvRouteCellSize, &cfg.Route.CellSize)
	setFloat(EnvRouteMaxSnap, &cfg.Route.MaxSnapDistance)
	setInt(EnvRoutePrecision, &cfg.Route.Precision)
	setInt(EnvRouteMaxRings, &cfg.Route.MaxRings)
	setInt(EnvHistoryMaxLength, &cfg.History.MaxLength)
	setInt(EnvCountersMax, &cfg.Counters.Max)
	if v, ok := lookup(EnvSharedLargeLabels); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSharedLargeLabels, err))
		} else {
			cfg.Match.AllowSharedLargeRegionLabels = b
		}
	}
	if v, ok := lookup(EnvSegmentSeparator); ok {
		cfg.Route.Separator = v
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	return cfg.Validate()
}
