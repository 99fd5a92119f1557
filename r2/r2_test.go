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
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const epsilon = 1e-9

var approx = cmpopts.EquateApprox(0, epsilon)

func TestNewPolylineCumulative(t *testing.T) {
	line, ok := NewPolyline([]Point{{0, 0}, {3, 4}, {3, 10}, {0, 10}})
	if !ok {
		t.Fatal("NewPolyline() = false, want true")
	}
	want := []float64{0, 5, 11, 14}
	if diff := cmp.Diff(want, line.Cum, approx); diff != "" {
		t.Errorf("Cum mismatch (-want +got):\n%s", diff)
	}
	if got := line.Length(); math.Abs(got-14) > epsilon {
		t.Errorf("Length() = %v, want 14", got)
	}
}

func TestNewPolylineLongChain(t *testing.T) {
	// Long enough to exercise both the vector body and the tail.
	rng := rand.New(rand.NewSource(12345))
	var vs []Point
	for i := 0; i < 37; i++ {
		vs = append(vs, Point{rng.Float64() * 100, rng.Float64() * 100})
	}
	line, ok := NewPolyline(vs)
	if !ok {
		t.Fatal("NewPolyline() = false, want true")
	}
	var want float64
	for i := 1; i < len(vs); i++ {
		want += vs[i].Distance(vs[i-1])
		if math.Abs(line.Cum[i]-want) > 1e-6 {
			t.Fatalf("Cum[%d] = %v, want %v", i, line.Cum[i], want)
		}
	}
}

func TestNewPolylineMalformed(t *testing.T) {
	tests := [][]Point{
		nil,
		{{1, 1}},
		{{0, 0}, {math.NaN(), 1}},
		{{0, 0}, {math.Inf(1), 1}},
	}
	for _, vs := range tests {
		if _, ok := NewPolyline(vs); ok {
			t.Errorf("NewPolyline(%v) = true, want false", vs)
		}
	}
}

func TestPolylinePointAt(t *testing.T) {
	line, _ := NewPolyline([]Point{{0, 0}, {10, 0}, {10, 10}})
	tests := []struct {
		m    float64
		want Point
	}{
		{-5, Point{0, 0}},
		{0, Point{0, 0}},
		{5, Point{5, 0}},
		{10, Point{10, 0}},
		{15, Point{10, 5}},
		{20, Point{10, 10}},
		{25, Point{10, 10}},
	}
	for _, test := range tests {
		if got := line.PointAt(test.m); !cmp.Equal(got, test.want, approx) {
			t.Errorf("PointAt(%v) = %v, want %v", test.m, got, test.want)
		}
	}
}

func TestPolylineProject(t *testing.T) {
	line, _ := NewPolyline([]Point{{0, 0}, {10, 0}, {10, 10}})
	along, dist := line.Project(Point{12, 4})
	if math.Abs(along-14) > epsilon || math.Abs(dist-2) > epsilon {
		t.Errorf("Project() = (%v, %v), want (14, 2)", along, dist)
	}
}

func TestRectFromPoints(t *testing.T) {
	pts := []Point{{3, -1}, {-2, 4}, {7, 2}, {math.NaN(), 100}, {0, 0}, {1, 9}, {5, 5}, {-4, 3}, {2, 2}}
	got := RectFromPoints(pts...)
	want := Rect{Point{-4, -1}, Point{7, 9}}
	if got != want {
		t.Errorf("RectFromPoints() = %v, want %v", got, want)
	}
	if !RectFromPoints().IsEmpty() {
		t.Error("RectFromPoints().IsEmpty() = false, want true")
	}
}

func TestRectFromPointsMatchesScalarBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{1, 3, 8, 17, 64, 131} {
		pts := make([]Point, n)
		want := EmptyRect()
		for i := range pts {
			pts[i] = Point{rng.Float64()*200 - 100, rng.Float64()*50 - 25}
			want = want.AddPoint(pts[i])
		}
		if got := RectFromPoints(pts...); got != want {
			t.Errorf("RectFromPoints(%d points) = %v, want %v", n, got, want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{Point{0, 0}, Point{10, 10}}
	tests := []struct {
		b    Rect
		want bool
	}{
		{Rect{Point{5, 5}, Point{15, 15}}, true},
		{Rect{Point{10, 10}, Point{15, 15}}, true},
		{Rect{Point{11, 0}, Point{15, 15}}, false},
		{EmptyRect(), false},
	}
	for _, test := range tests {
		if got := a.Intersects(test.b); got != test.want {
			t.Errorf("%v.Intersects(%v) = %v, want %v", a, test.b, got, test.want)
		}
	}
}

func TestRectFromCorners(t *testing.T) {
	got := RectFromCorners(Point{5, 1}, Point{2, 8})
	want := Rect{Point{2, 1}, Point{5, 8}}
	if got != want {
		t.Errorf("RectFromCorners() = %v, want %v", got, want)
	}
}

func TestPolygonContainsPoint(t *testing.T) {
	square := PolygonFromRing([]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}})
	if got := square.NumVertices(); got != 4 {
		t.Errorf("NumVertices() = %d, want 4", got)
	}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{5, 5}, true},
		{Point{0.1, 9.9}, true},
		{Point{-1, 5}, false},
		{Point{5, 11}, false},
		{Point{math.NaN(), 5}, false},
	}
	for _, test := range tests {
		if got := square.ContainsPoint(test.p); got != test.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", test.p, got, test.want)
		}
	}
}

func TestPolygonCentroidAndDistance(t *testing.T) {
	rect := PolygonFromRing([]Point{{0, 0}, {4, 0}, {4, 2}, {0, 2}})
	if got, want := rect.Centroid(), (Point{2, 1}); !cmp.Equal(got, want, approx) {
		t.Errorf("Centroid() = %v, want %v", got, want)
	}
	if got := rect.Area(); math.Abs(got-8) > epsilon {
		t.Errorf("Area() = %v, want 8", got)
	}
	if got := rect.Distance(Point{2, 1}); got != 0 {
		t.Errorf("Distance(inside) = %v, want 0", got)
	}
	if got := rect.Distance(Point{7, 1}); math.Abs(got-3) > epsilon {
		t.Errorf("Distance(outside) = %v, want 3", got)
	}

	chain := PolygonFromRing([]Point{{0, 0}, {10, 0}})
	if chain.HasInterior() {
		t.Error("HasInterior() = true, want false")
	}
	if got, want := chain.Centroid(), (Point{5, 0}); !cmp.Equal(got, want, approx) {
		t.Errorf("Centroid() = %v, want %v", got, want)
	}
	if got := chain.Distance(Point{5, 4}); math.Abs(got-4) > epsilon {
		t.Errorf("Distance() = %v, want 4", got)
	}
}

func TestPolygonFromChainIsOpen(t *testing.T) {
	// An L-shaped cable run; (130, 60) lies inside the triangle a closing
	// edge would form.
	l := PolygonFromChain([]Point{{0, 0}, {200, 0}, {200, 200}})
	if l.HasInterior() {
		t.Error("HasInterior() = true, want false")
	}
	if l.ContainsPoint(Point{130, 60}) {
		t.Error("ContainsPoint(130, 60) = true, want false")
	}
	if got := l.Distance(Point{130, 60}); math.Abs(got-60) > epsilon {
		t.Errorf("Distance(130, 60) = %v, want 60", got)
	}
	// The missing closing edge from (200, 200) to (0, 0) is not measured.
	if got := l.Distance(Point{60, 80}); math.Abs(got-80) > epsilon {
		t.Errorf("Distance(60, 80) = %v, want 80", got)
	}
	if got := l.Area(); got != 0 {
		t.Errorf("Area() = %v, want 0", got)
	}
}

func TestNearest(t *testing.T) {
	pts := []Point{{10, 10}, {1, 1}, {-3, 0}, {1, 1}, {5, 5}, {0, 9}, {7, 7}, {2, 8}, {9, 0}}
	i, d := Nearest(Point{0, 0}, pts)
	if i != 1 || math.Abs(d-math.Sqrt2) > epsilon {
		t.Errorf("Nearest() = (%d, %v), want (1, %v)", i, d, math.Sqrt2)
	}
	if i, _ := Nearest(Point{}, nil); i != -1 {
		t.Errorf("Nearest(nil) = %d, want -1", i)
	}
}

func TestMean(t *testing.T) {
	pts := []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {1, 1}}
	if got, want := Mean(pts), (Point{1, 1}); !cmp.Equal(got, want, approx) {
		t.Errorf("Mean() = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	g := Multi{
		{{0, 0}, {1, 0}},
		{{5, 5}},
		{{0, 0}, {math.NaN(), 0}},
		{{0, 1}, {0, 3}, {2, 3}},
	}
	parts := Normalize("F1", g)
	if len(parts) != 2 {
		t.Fatalf("len(Normalize()) = %d, want 2", len(parts))
	}
	if parts[0].PartIndex != 0 || parts[1].PartIndex != 3 {
		t.Errorf("part indexes = %d, %d, want 0, 3", parts[0].PartIndex, parts[1].PartIndex)
	}
	if got := parts[1].Line.Length(); math.Abs(got-4) > epsilon {
		t.Errorf("Length() = %v, want 4", got)
	}

	single := Normalize("F2", Single{{0, 0}, {0, 2}})
	if len(single) != 1 || single[0].FeatureID != "F2" {
		t.Errorf("Normalize(Single) = %v, want one part of F2", single)
	}
	if got := Normalize("F3", nil); got != nil {
		t.Errorf("Normalize(nil) = %v, want nil", got)
	}
}

func TestEquirectangularRoundTrip(t *testing.T) {
	e := NewEquirectangular(Point{2.35, 48.85})
	pts := []Point{{2.35, 48.85}, {2.36, 48.85}, {2.35, 48.86}, {2.30, 48.80}, {2.4, 48.9}, {2.351, 48.851}, {2.352, 48.849}, {2.33, 48.87}, {2.37, 48.83}}
	proj := e.ProjectAll(pts)
	for i, p := range pts {
		if got, want := proj[i], e.Project(p); !cmp.Equal(got, want, cmpopts.EquateApprox(0, 1e-6)) {
			t.Errorf("ProjectAll()[%d] = %v, want %v", i, got, want)
		}
		if back := e.Unproject(proj[i]); !cmp.Equal(back, p, cmpopts.EquateApprox(0, 1e-9)) {
			t.Errorf("Unproject(%v) = %v, want %v", proj[i], back, p)
		}
	}
	// 0.01 degree of latitude is about 1112 meters.
	if got := proj[2].Y; math.Abs(got-1111.95) > 0.1 {
		t.Errorf("projected Y = %v, want ~1111.95", got)
	}
}
