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

// Package r2 implements types and functions for working with geometry in
// the plane: points, rectangles, polylines measured by cumulative distance,
// and simple polygons.
//
// Coordinates are expected to be in a planar frame whose unit is meters
// (see Equirectangular for turning longitude/latitude into such a frame).
package r2

import (
	"fmt"
	"math"
)

// Point represents a point in ℝ².
type Point struct {
	X, Y float64
}

// Add returns the sum of p and op.
func (p Point) Add(op Point) Point { return Point{p.X + op.X, p.Y + op.Y} }

// Sub returns the difference of p and op.
func (p Point) Sub(op Point) Point { return Point{p.X - op.X, p.Y - op.Y} }

// Mul returns the scalar product of p and m.
func (p Point) Mul(m float64) Point { return Point{m * p.X, m * p.Y} }

// Dot returns the dot product between p and op.
func (p Point) Dot(op Point) float64 { return p.X*op.X + p.Y*op.Y }

// Cross returns the cross product of p and op.
func (p Point) Cross(op Point) float64 { return p.X*op.Y - p.Y*op.X }

// Norm returns the vector's norm.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and op.
func (p Point) Distance(op Point) float64 { return p.Sub(op).Norm() }

// IsValid reports whether both coordinates are finite.
func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Lerp returns the point a fraction t of the way from p to op.
func (p Point) Lerp(op Point, t float64) Point {
	return Point{p.X + (op.X-p.X)*t, p.Y + (op.Y-p.Y)*t}
}

func (p Point) String() string { return fmt.Sprintf("(%.12f, %.12f)", p.X, p.Y) }

// DistanceToSegment returns the distance from p to the segment ab.
func DistanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Distance(a.Lerp(b, t))
}

// splitXY de-interleaves points into separate coordinate slices for the
// batch kernels.
func splitXY(pts []Point) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// SquaredDistances returns |p-target|² for every point in pts, in order.
func SquaredDistances(target Point, pts []Point) []float64 {
	if len(pts) == 0 {
		return nil
	}
	xs, ys := splitXY(pts)
	out := make([]float64, len(pts))
	BaseSquaredDistances(target.X, target.Y, xs, ys, out)
	return out
}

// Nearest returns the index of the point in pts closest to target and its
// distance. Ties resolve to the lowest index. It returns -1 when pts is empty.
func Nearest(target Point, pts []Point) (int, float64) {
	d2 := SquaredDistances(target, pts)
	best := -1
	for i, d := range d2 {
		if best < 0 || d < d2[best] {
			best = i
		}
	}
	if best < 0 {
		return -1, math.Inf(1)
	}
	return best, math.Sqrt(d2[best])
}

// Mean returns the vertex average of pts.
func Mean(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	xs, ys := splitXY(pts)
	sx, sy := BaseSumPoints(xs, ys)
	n := float64(len(pts))
	return Point{sx / n, sy / n}
}
