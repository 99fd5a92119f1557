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

import "math"

// EarthRadiusMeters is the mean Earth radius used by Equirectangular.
const EarthRadiusMeters = 6371008.8

// Equirectangular projects longitude/latitude degrees (stored as X=lng,
// Y=lat) onto a local plane in meters around Origin. Distortion is small
// over the extent of a construction site.
type Equirectangular struct {
	Origin Point
	kx, ky float64
}

// NewEquirectangular returns a projection centered on origin (X=lng, Y=lat).
func NewEquirectangular(origin Point) Equirectangular {
	ky := EarthRadiusMeters * math.Pi / 180
	return Equirectangular{
		Origin: origin,
		kx:     ky * math.Cos(origin.Y*math.Pi/180),
		ky:     ky,
	}
}

// Project maps a single point.
func (e Equirectangular) Project(p Point) Point {
	return Point{(p.X - e.Origin.X) * e.kx, (p.Y - e.Origin.Y) * e.ky}
}

// Unproject is the inverse of Project.
func (e Equirectangular) Unproject(p Point) Point {
	return Point{p.X/e.kx + e.Origin.X, p.Y/e.ky + e.Origin.Y}
}

// ProjectAll maps a batch of points.
func (e Equirectangular) ProjectAll(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	lngs, lats := splitXY(pts)
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	BaseEquirectangularProject(lngs, lats, xs, ys, e.Origin.X, e.Origin.Y, e.kx, e.ky)
	out := make([]Point, len(pts))
	for i := range out {
		out[i] = Point{xs[i], ys[i]}
	}
	return out
}
