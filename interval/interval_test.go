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

package interval

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/akhenakh/sitegeo/r2"
)

var (
	equateEmpty = cmpopts.EquateEmpty()
	approx      = cmpopts.EquateApprox(0, 1e-9)
)

func mustLine(t *testing.T, vs ...r2.Point) r2.Polyline {
	t.Helper()
	line, ok := r2.NewPolyline(vs)
	if !ok {
		t.Fatalf("NewPolyline(%v) failed", vs)
	}
	return line
}

func TestMerge(t *testing.T) {
	tests := []struct {
		have []Interval
		want []Interval
	}{
		{
			have: []Interval{{0, 5}, {4, 10}, {12, 15}},
			want: []Interval{{0, 10}, {12, 15}},
		},
		{
			have: []Interval{{12, 15}, {0, 5}, {5, 7}},
			want: []Interval{{0, 7}, {12, 15}},
		},
		{
			// Touching within the gap tolerance.
			have: []Interval{{0, 5}, {5 + TouchGap/2, 6}},
			want: []Interval{{0, 6}},
		},
		{
			have: []Interval{{3, 3}, {5, 2}, {math.NaN(), 4}},
			want: nil,
		},
		{
			have: []Interval{{1, 9}, {2, 3}},
			want: []Interval{{1, 9}},
		},
		{have: nil, want: nil},
	}
	for _, test := range tests {
		got := Merge(test.have)
		if diff := cmp.Diff(test.want, got, equateEmpty); diff != "" {
			t.Errorf("Merge(%v) mismatch (-want +got):\n%s", test.have, diff)
		}
	}
}

func TestMergeDoesNotModifyInput(t *testing.T) {
	have := []Interval{{12, 15}, {0, 5}}
	Merge(have)
	if want := []Interval{{12, 15}, {0, 5}}; !cmp.Equal(have, want) {
		t.Errorf("Merge modified its input: %v", have)
	}
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		target Interval
		cuts   []Interval
		want   []Interval
	}{
		{Interval{0, 10}, []Interval{{3, 6}}, []Interval{{0, 3}, {6, 10}}},
		{Interval{0, 10}, []Interval{{0, 10}}, nil},
		{Interval{0, 10}, nil, []Interval{{0, 10}}},
		{Interval{0, 10}, []Interval{{-5, 2}, {4, 5}, {9.9, 20}}, []Interval{{2, 4}, {5, 9.9}}},
		// Slivers shorter than eps are noise.
		{Interval{0, 10}, []Interval{{0.1, 9.95}}, nil},
		{Interval{0, 10}, []Interval{{20, 30}}, []Interval{{0, 10}}},
		{Interval{5, 5}, nil, nil},
	}
	for _, test := range tests {
		got := Subtract(test.target, test.cuts, 0.2)
		if diff := cmp.Diff(test.want, got, equateEmpty, approx); diff != "" {
			t.Errorf("Subtract(%v, %v) mismatch (-want +got):\n%s", test.target, test.cuts, diff)
		}
	}
}

func TestIntersect(t *testing.T) {
	a := []Interval{{0, 10}, {20, 30}, {40, 50}}
	b := []Interval{{5, 25}, {28, 42}, {50, 60}}
	want := []Interval{{5, 10}, {20, 25}, {28, 30}, {40, 42}}
	if diff := cmp.Diff(want, Intersect(a, b)); diff != "" {
		t.Errorf("Intersect() mismatch (-want +got):\n%s", diff)
	}
	if got := Intersect(a, nil); len(got) != 0 {
		t.Errorf("Intersect(a, nil) = %v, want empty", got)
	}
}

func TestLengthClampRound(t *testing.T) {
	list := []Interval{{-5, 10}, {20, 30}, {95, 120}}
	if got := Length(list); got != 50 {
		t.Errorf("Length() = %v, want 50", got)
	}
	want := []Interval{{0, 10}, {20, 30}, {95, 100}}
	if diff := cmp.Diff(want, Clamp(list, 100)); diff != "" {
		t.Errorf("Clamp() mismatch (-want +got):\n%s", diff)
	}
	rounded := Round([]Interval{{1.0001, 1.0004}, {2.12345, 3.98765}}, 3)
	if diff := cmp.Diff([]Interval{{2.123, 3.988}}, rounded, approx); diff != "" {
		t.Errorf("Round() mismatch (-want +got):\n%s", diff)
	}
}

func TestInBox(t *testing.T) {
	// A straight line along x with a vertex every 10 meters.
	var vs []r2.Point
	for x := 0.0; x <= 100; x += 10 {
		vs = append(vs, r2.Point{X: x, Y: 0})
	}
	line := mustLine(t, vs...)

	tests := []struct {
		name   string
		box    r2.Rect
		minLen float64
		want   []Interval
	}{
		{
			name: "middle run",
			box:  r2.RectFromCorners(r2.Point{X: 15, Y: -1}, r2.Point{X: 52, Y: 1}),
			want: []Interval{{20, 50}},
		},
		{
			name: "whole line",
			box:  r2.RectFromCorners(r2.Point{X: -1, Y: -1}, r2.Point{X: 101, Y: 1}),
			want: []Interval{{0, 100}},
		},
		{
			name: "single vertex is degenerate",
			box:  r2.RectFromCorners(r2.Point{X: 38, Y: -1}, r2.Point{X: 42, Y: 1}),
			want: nil,
		},
		{
			name:   "shorter than minimum",
			box:    r2.RectFromCorners(r2.Point{X: 38, Y: -1}, r2.Point{X: 52, Y: 1}),
			minLen: 15,
			want:   nil,
		},
		{
			name: "miss",
			box:  r2.RectFromCorners(r2.Point{X: 0, Y: 5}, r2.Point{X: 100, Y: 10}),
			want: nil,
		},
	}
	for _, test := range tests {
		got := InBox(line, test.box, test.minLen)
		if diff := cmp.Diff(test.want, got, equateEmpty, approx); diff != "" {
			t.Errorf("%s: InBox() mismatch (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestInBoxSeveralRuns(t *testing.T) {
	// A zig-zag leaves and re-enters a thin box.
	line := mustLine(t,
		r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0}, r2.Point{X: 10, Y: 10},
		r2.Point{X: 20, Y: 10}, r2.Point{X: 20, Y: 0}, r2.Point{X: 30, Y: 0})
	box := r2.RectFromCorners(r2.Point{X: -1, Y: -1}, r2.Point{X: 31, Y: 1})
	want := []Interval{{0, 10}, {40, 50}}
	if diff := cmp.Diff(want, InBox(line, box, 0), approx); diff != "" {
		t.Errorf("InBox() mismatch (-want +got):\n%s", diff)
	}
}

func TestSliceRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	vs := []r2.Point{{X: 0, Y: 0}}
	for i := 0; i < 20; i++ {
		last := vs[len(vs)-1]
		vs = append(vs, r2.Point{X: last.X + 1 + rng.Float64()*10, Y: last.Y + rng.Float64()*10 - 5})
	}
	line := mustLine(t, vs...)
	L := line.Length()

	if diff := cmp.Diff(vs, Slice(line, 0, L), approx); diff != "" {
		t.Errorf("Slice(0, L) mismatch (-want +got):\n%s", diff)
	}

	a, b, c := 0.13*L, 0.51*L, 0.87*L
	ab := Slice(line, a, b)
	bc := Slice(line, b, c)
	joined := append(append([]r2.Point(nil), ab...), bc[1:]...)
	if diff := cmp.Diff(Slice(line, a, c), joined, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Slice(a, b) + Slice(b, c) != Slice(a, c) (-want +got):\n%s", diff)
	}
}

func TestSliceInterpolates(t *testing.T) {
	line := mustLine(t, r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0}, r2.Point{X: 10, Y: 10})
	got := Slice(line, 5, 15)
	want := []r2.Point{{X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Slice(5, 15) mismatch (-want +got):\n%s", diff)
	}
	if got := Slice(line, 7, 7); got != nil {
		t.Errorf("Slice(7, 7) = %v, want nil", got)
	}
	if got := Slice(line, 12, 3); got != nil {
		t.Errorf("Slice(12, 3) = %v, want nil", got)
	}
	// Out of range bounds clamp to the line.
	if diff := cmp.Diff([]r2.Point{{X: 10, Y: 5}, {X: 10, Y: 10}}, Slice(line, 15, 99), approx); diff != "" {
		t.Errorf("Slice(15, 99) mismatch (-want +got):\n%s", diff)
	}
}
