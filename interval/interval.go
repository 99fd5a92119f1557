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

// Package interval implements the algebra of completion ranges measured as
// cumulative distance along one line part, and the Tracker that keeps
// selected and committed ranges disjoint per ownership key.
//
// All functions in this file are pure. Ranges with End <= Start are
// degenerate and are dropped silently wherever they appear.
package interval

import (
	"fmt"
	"math"
	"sort"

	"github.com/akhenakh/sitegeo/r2"
)

// TouchGap is the largest gap between two ranges that Merge still treats as
// touching.
const TouchGap = 1e-6

// DefaultEpsilon is the default minimum length of a range kept by Subtract.
const DefaultEpsilon = 0.2

// Interval is a closed range [Start, End] of distance along a line part.
type Interval struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Len returns the length of the interval, or 0 if it is degenerate.
func (i Interval) Len() float64 {
	if i.IsEmpty() {
		return 0
	}
	return i.End - i.Start
}

// IsEmpty reports whether the interval is degenerate (End <= Start, or NaN).
func (i Interval) IsEmpty() bool { return !(i.End > i.Start) }

func (i Interval) String() string { return fmt.Sprintf("[%.7f, %.7f]", i.Start, i.End) }

// Merge sorts the list by start and coalesces overlapping or touching
// ranges into a minimal, disjoint, sorted list. The input is not modified.
func Merge(list []Interval) []Interval {
	tmp := make([]Interval, 0, len(list))
	for _, iv := range list {
		if !iv.IsEmpty() {
			tmp = append(tmp, iv)
		}
	}
	if len(tmp) == 0 {
		return nil
	}
	sort.Slice(tmp, func(a, b int) bool {
		if tmp[a].Start != tmp[b].Start {
			return tmp[a].Start < tmp[b].Start
		}
		return tmp[a].End < tmp[b].End
	})
	out := tmp[:1]
	for _, iv := range tmp[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End+TouchGap {
			last.End = math.Max(last.End, iv.End)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Subtract returns the parts of target not covered by any range in cuts.
// cuts must already be merged. Pieces shorter than eps are dropped.
func Subtract(target Interval, cuts []Interval, eps float64) []Interval {
	if target.IsEmpty() {
		return nil
	}
	var out []Interval
	cur := target.Start
	for _, c := range cuts {
		if c.End <= cur {
			continue
		}
		if c.Start >= target.End {
			break
		}
		if c.Start > cur {
			out = appendLongEnough(out, Interval{cur, c.Start}, eps)
		}
		cur = math.Max(cur, c.End)
		if cur >= target.End {
			return out
		}
	}
	return appendLongEnough(out, Interval{cur, target.End}, eps)
}

// SubtractAll subtracts cuts from every range of list. list and cuts must be
// merged; the result is merged.
func SubtractAll(list, cuts []Interval, eps float64) []Interval {
	var out []Interval
	for _, iv := range list {
		out = append(out, Subtract(iv, cuts, eps)...)
	}
	return out
}

func appendLongEnough(out []Interval, iv Interval, eps float64) []Interval {
	if iv.IsEmpty() || iv.Len() < eps {
		return out
	}
	return append(out, iv)
}

// Intersect returns the overlap of two merged, sorted lists.
func Intersect(a, b []Interval) []Interval {
	var out []Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := math.Max(a[i].Start, b[j].Start)
		hi := math.Min(a[i].End, b[j].End)
		if hi > lo {
			out = append(out, Interval{lo, hi})
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	return out
}

// Length returns the summed length of the list.
func Length(list []Interval) float64 {
	var sum float64
	for _, iv := range list {
		sum += iv.Len()
	}
	return sum
}

// Clamp restricts every range to [0, total], dropping what falls outside.
func Clamp(list []Interval, total float64) []Interval {
	var out []Interval
	for _, iv := range list {
		iv = Interval{math.Max(0, iv.Start), math.Min(total, iv.End)}
		if !iv.IsEmpty() {
			out = append(out, iv)
		}
	}
	return out
}

// Round rounds both ends of every range to the given number of decimals and
// drops ranges that became degenerate.
func Round(list []Interval, decimals int) []Interval {
	k := math.Pow(10, float64(decimals))
	var out []Interval
	for _, iv := range list {
		iv = Interval{math.Round(iv.Start*k) / k, math.Round(iv.End*k) / k}
		if !iv.IsEmpty() {
			out = append(out, iv)
		}
	}
	return out
}

// InBox returns, as distance ranges, the maximal runs of consecutive
// vertices of line that fall inside box. Ranges shorter than minLen are
// discarded. box must be in the same planar frame as line.
func InBox(line r2.Polyline, box r2.Rect, minLen float64) []Interval {
	if box.IsEmpty() || len(line.Vertices) < 2 || len(line.Cum) != len(line.Vertices) {
		return nil
	}
	if !box.Intersects(line.Bound()) {
		return nil
	}
	var out []Interval
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		iv := Interval{line.Cum[start], line.Cum[end]}
		if !iv.IsEmpty() && iv.Len() >= minLen {
			out = append(out, iv)
		}
		start = -1
	}
	for i, v := range line.Vertices {
		if box.ContainsPoint(v) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i - 1)
	}
	flush(len(line.Vertices) - 1)
	return out
}

// Slice returns the vertices of the sub-line [start, end]: the interpolated
// cut point at start, every original vertex strictly between, and the
// interpolated cut point at end. Bounds are clamped to the line. A
// degenerate range yields nil.
func Slice(line r2.Polyline, start, end float64) []r2.Point {
	if len(line.Vertices) < 2 || len(line.Cum) != len(line.Vertices) {
		return nil
	}
	start = math.Max(0, start)
	end = math.Min(line.Length(), end)
	if !(end > start) {
		return nil
	}
	out := []r2.Point{line.PointAt(start)}
	for i, m := range line.Cum {
		if m > start && m < end {
			out = append(out, line.Vertices[i])
		}
	}
	return append(out, line.PointAt(end))
}
