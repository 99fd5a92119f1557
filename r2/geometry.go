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

package r2

// Geometry is the shape of a line feature as delivered by a loader: either
// a Single vertex list or a Multi list of parts.
type Geometry interface {
	// Parts returns the vertex lists of the geometry, one per part.
	Parts() [][]Point
	privateInterface()
}

// Single is a one-part line geometry.
type Single []Point

// Multi is a multi-part line geometry.
type Multi [][]Point

func (s Single) Parts() [][]Point { return [][]Point{s} }
func (m Multi) Parts() [][]Point  { return m }
func (Single) privateInterface()  {}
func (Multi) privateInterface()   {}

// Part is one line part of a feature, addressed by (FeatureID, PartIndex).
type Part struct {
	FeatureID string
	PartIndex int
	Line      Polyline
}

// Normalize flattens a geometry into its parts. Malformed parts (fewer than
// two vertices or non-finite coordinates) are skipped; the remaining parts
// keep their original part index.
func Normalize(featureID string, g Geometry) []Part {
	if g == nil {
		return nil
	}
	var parts []Part
	for i, vs := range g.Parts() {
		line, ok := NewPolyline(vs)
		if !ok {
			continue
		}
		parts = append(parts, Part{FeatureID: featureID, PartIndex: i, Line: line})
	}
	return parts
}
