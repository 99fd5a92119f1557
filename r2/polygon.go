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
	"math"
)

// Polygon is a single ring of vertices. The closing edge from the last
// vertex back to the first is implicit. A ring with fewer than three
// vertices has no interior and behaves as an open chain, as does any
// Polygon with Open set.
type Polygon struct {
	Vertices []Point
	// Open marks a polyline feature: there is no closing edge and no
	// interior.
	Open bool
}

// PolygonFromRing builds a Polygon, dropping non-finite vertices and an
// explicit closing vertex equal to the first one.
func PolygonFromRing(ring []Point) Polygon {
	vs := make([]Point, 0, len(ring))
	for _, v := range ring {
		if v.IsValid() {
			vs = append(vs, v)
		}
	}
	if n := len(vs); n > 1 && vs[0] == vs[n-1] {
		vs = vs[:n-1]
	}
	return Polygon{Vertices: vs}
}

// PolygonFromChain builds an open Polygon from a polyline, dropping
// non-finite vertices.
func PolygonFromChain(chain []Point) Polygon {
	vs := make([]Point, 0, len(chain))
	for _, v := range chain {
		if v.IsValid() {
			vs = append(vs, v)
		}
	}
	return Polygon{Vertices: vs, Open: true}
}

// NumVertices returns the number of vertices in the ring.
func (p Polygon) NumVertices() int { return len(p.Vertices) }

// HasInterior reports whether the ring encloses an area.
func (p Polygon) HasInterior() bool { return !p.Open && len(p.Vertices) >= 3 }

// Bound returns the bounding rectangle of the ring.
func (p Polygon) Bound() Rect { return RectFromPoints(p.Vertices...) }

// Area returns the signed area of the ring; positive for counter-clockwise.
func (p Polygon) Area() float64 {
	if !p.HasInterior() {
		return 0
	}
	var sum float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		sum += p.Vertices[i].Cross(p.Vertices[(i+1)%n])
	}
	return 0.5 * sum
}

// Centroid returns the area centroid of the ring. Degenerate rings (no
// interior or zero area) fall back to the vertex average.
func (p Polygon) Centroid() Point {
	area := p.Area()
	if math.Abs(area) < 1e-12 {
		return Mean(p.Vertices)
	}
	// Shift to the first vertex to keep the products small.
	o := p.Vertices[0]
	var cx, cy float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a := p.Vertices[i].Sub(o)
		b := p.Vertices[(i+1)%n].Sub(o)
		c := a.Cross(b)
		cx += (a.X + b.X) * c
		cy += (a.Y + b.Y) * c
	}
	k := 1 / (6 * area)
	return Point{o.X + cx*k, o.Y + cy*k}
}

// ContainsPoint reports whether q lies strictly inside the ring, using the
// even-odd crossing rule. Points on the boundary may go either way.
func (p Polygon) ContainsPoint(q Point) bool {
	if !p.HasInterior() || !q.IsValid() {
		return false
	}
	inside := false
	n := len(p.Vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Vertices[i], p.Vertices[j]
		if (a.Y > q.Y) != (b.Y > q.Y) {
			x := a.X + (q.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if q.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Distance returns the distance from q to the outline of the ring, or 0 if q
// is inside it. For rings without interior the outline is the open chain.
func (p Polygon) Distance(q Point) float64 {
	n := len(p.Vertices)
	switch {
	case n == 0:
		return math.Inf(1)
	case n == 1:
		return q.Distance(p.Vertices[0])
	}
	if p.ContainsPoint(q) {
		return 0
	}
	best := math.Inf(1)
	last := n - 1
	if p.HasInterior() {
		last = n
	}
	for i := 0; i < last; i++ {
		best = math.Min(best, DistanceToSegment(q, p.Vertices[i], p.Vertices[(i+1)%n]))
	}
	return best
}
