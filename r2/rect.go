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

import (
	"fmt"
	"math"
)

// Rect represents a closed axis-aligned rectangle in the (x,y)-plane.
type Rect struct {
	Lo, Hi Point
}

// EmptyRect returns a rectangle that contains no points.
func EmptyRect() Rect {
	return Rect{Point{1, 1}, Point{0, 0}}
}

// RectFromPoints constructs the smallest rectangle containing the given
// points, ignoring invalid ones.
func RectFromPoints(pts ...Point) Rect {
	valid := make([]Point, 0, len(pts))
	for _, p := range pts {
		if p.IsValid() {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return EmptyRect()
	}
	xs, ys := splitXY(valid)
	loX, loY, hiX, hiY := BaseBounds(xs, ys)
	return Rect{Point{loX, loY}, Point{hiX, hiY}}
}

// RectFromCorners returns the rectangle spanned by two opposite corners in
// any order, as produced by a drag-box.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		Lo: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Hi: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// IsEmpty reports whether the rectangle is empty.
func (r Rect) IsEmpty() bool { return r.Lo.X > r.Hi.X || r.Lo.Y > r.Hi.Y }

// Center returns the center of the rectangle.
func (r Rect) Center() Point {
	return Point{0.5 * (r.Lo.X + r.Hi.X), 0.5 * (r.Lo.Y + r.Hi.Y)}
}

// Diagonal returns the length of the rectangle's diagonal, or 0 if empty.
func (r Rect) Diagonal() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Lo.Distance(r.Hi)
}

// ContainsPoint reports whether the rectangle contains the given point.
// Rectangles are closed regions, i.e. they contain their boundary.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Lo.X && p.X <= r.Hi.X && p.Y >= r.Lo.Y && p.Y <= r.Hi.Y
}

// Intersects reports whether this rectangle and the other rectangle have any
// points in common.
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Lo.X <= other.Hi.X && other.Lo.X <= r.Hi.X &&
		r.Lo.Y <= other.Hi.Y && other.Lo.Y <= r.Hi.Y
}

// AddPoint expands the rectangle to include the given point.
func (r Rect) AddPoint(p Point) Rect {
	if !p.IsValid() {
		return r
	}
	if r.IsEmpty() {
		return Rect{p, p}
	}
	return Rect{
		Lo: Point{math.Min(r.Lo.X, p.X), math.Min(r.Lo.Y, p.Y)},
		Hi: Point{math.Max(r.Hi.X, p.X), math.Max(r.Hi.Y, p.Y)},
	}
}

// ExpandedByMargin returns a rectangle whose sides are moved outwards by m.
func (r Rect) ExpandedByMargin(m float64) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{
		Lo: Point{r.Lo.X - m, r.Lo.Y - m},
		Hi: Point{r.Hi.X + m, r.Hi.Y + m},
	}
}

func (r Rect) String() string { return fmt.Sprintf("[Lo%s, Hi%s]", r.Lo, r.Hi) }
