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
	"sort"
)

// Polyline is an ordered sequence of vertices together with the cumulative
// distance at every vertex: Cum[0] = 0 and Cum[i] = Cum[i-1] + |V[i]-V[i-1]|.
//
// A Polyline is immutable once built.
type Polyline struct {
	Vertices []Point
	Cum      []float64
}

// NewPolyline builds a Polyline from the given vertices. It reports false if
// the input has fewer than two vertices or any non-finite coordinate.
func NewPolyline(vertices []Point) (Polyline, bool) {
	if len(vertices) < 2 {
		return Polyline{}, false
	}
	for _, v := range vertices {
		if !v.IsValid() {
			return Polyline{}, false
		}
	}
	vs := append([]Point(nil), vertices...)
	xs, ys := splitXY(vs)
	seg := make([]float64, len(vs)-1)
	BaseSegmentLengthsSq(xs, ys, seg)

	cum := make([]float64, len(vs))
	for i, d2 := range seg {
		cum[i+1] = cum[i] + math.Sqrt(d2)
	}
	return Polyline{Vertices: vs, Cum: cum}, true
}

// NumVertices returns the number of vertices.
func (l Polyline) NumVertices() int { return len(l.Vertices) }

// Length returns the total length of the polyline.
func (l Polyline) Length() float64 {
	if len(l.Cum) == 0 {
		return 0
	}
	return l.Cum[len(l.Cum)-1]
}

// Bound returns the bounding rectangle of the polyline.
func (l Polyline) Bound() Rect { return RectFromPoints(l.Vertices...) }

// PointAt returns the point located m along the polyline. m is clamped to
// [0, Length()].
func (l Polyline) PointAt(m float64) Point {
	n := len(l.Vertices)
	if n == 0 {
		return Point{}
	}
	if m <= 0 {
		return l.Vertices[0]
	}
	if m >= l.Length() {
		return l.Vertices[n-1]
	}
	// First vertex at or beyond m; m lies on the segment ending there.
	i := sort.SearchFloat64s(l.Cum, m)
	if l.Cum[i] == m {
		return l.Vertices[i]
	}
	seg := l.Cum[i] - l.Cum[i-1]
	if seg <= 0 {
		return l.Vertices[i]
	}
	return l.Vertices[i-1].Lerp(l.Vertices[i], (m-l.Cum[i-1])/seg)
}

// Project returns the distance along the polyline of the point on it closest
// to p, and the distance from p to that point.
func (l Polyline) Project(p Point) (along, dist float64) {
	dist = math.Inf(1)
	for i := 1; i < len(l.Vertices); i++ {
		a, b := l.Vertices[i-1], l.Vertices[i]
		ab := b.Sub(a)
		l2 := ab.Dot(ab)
		t := 0.0
		if l2 > 0 {
			t = math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
		}
		if d := p.Distance(a.Lerp(b, t)); d < dist {
			dist = d
			along = l.Cum[i-1] + t*(l.Cum[i]-l.Cum[i-1])
		}
	}
	return along, dist
}
