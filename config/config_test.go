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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15.0, cfg.Match.NearRadius)
	assert.Equal(t, 30.0, cfg.Match.LooseRadius)
	assert.Equal(t, 3, cfg.Counters.Max)
	assert.Equal(t, 3, cfg.Interval.Decimals)
	assert.False(t, cfg.MatchOptions().AllowSharedLargeRegionLabels)
	assert.Equal(t, cfg.Route.MaxRings, cfg.RouteOptions().MaxRings)
}

func TestDecode(t *testing.T) {
	data := []byte(`
match:
  nearRadius: 10
  looseRadius: 25
  allowSharedLargeRegionLabels: true
route:
  separator: "_"
history:
  maxLength: 20
`)
	cfg, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.Match.NearRadius)
	assert.Equal(t, 25.0, cfg.Match.LooseRadius)
	assert.True(t, cfg.Match.AllowSharedLargeRegionLabels)
	assert.Equal(t, "_", cfg.Route.Separator)
	assert.Equal(t, 20, cfg.History.MaxLength)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().Match.CellSize, cfg.Match.CellSize)
}

func TestDecodeInvalid(t *testing.T) {
	tests := []string{
		"match: [",
		"match:\n  nearRadius: 40\n  looseRadius: 30\n",
		"match:\n  chunkSize: 0\n",
		"route:\n  separator: \"\"\n",
		"interval:\n  epsilon: -1\n",
		"interval:\n  decimals: -1\n",
	}
	for _, data := range tests {
		_, err := Decode([]byte(data))
		assert.Error(t, err, "Decode(%q)", data)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitegeo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("counters:\n  max: 4\n"), 0o644))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Counters.Max)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SITEGEO_NEAR_RADIUS=12\nSITEGEO_CHUNK_SIZE=64\nSITEGEO_SHARED_LARGE_LABELS=true\n"), 0o644))
	t.Setenv(EnvChunkSize, "128")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, path))
	assert.Equal(t, 12.0, cfg.Match.NearRadius)
	// The process environment wins over the file.
	assert.Equal(t, 128, cfg.Match.ChunkSize)
	assert.True(t, cfg.Match.AllowSharedLargeRegionLabels)
	_, set := os.LookupEnv(EnvNearRadius)
	assert.False(t, set, "ApplyEnv must not export file values")
}

func TestApplyEnvErrors(t *testing.T) {
	t.Setenv(EnvCountersMax, "three")
	assert.Error(t, ApplyEnv(Default()))

	t.Setenv(EnvCountersMax, "0")
	assert.Error(t, ApplyEnv(Default()))

	assert.Error(t, ApplyEnv(Default(), filepath.Join(t.TempDir(), "missing.env")))
}
