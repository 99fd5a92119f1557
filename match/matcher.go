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

// Package match assigns point labels to the regions they name.
//
// Regions are visited largest diagonal first. A label strictly inside the
// region wins (nearest to the centroid among several); small regions may
// also take the nearest label within a near radius, then a loose radius.
// A label identifier claimed by one large region is not available to other
// large regions unless Options.AllowSharedLargeRegionLabels is set; small
// regions may always share.
//
// The work is split into chunks so a caller can interleave it with other
// work; partial results are readable at any time.
package match

import (
	"context"
	"math"
	"sort"

	"github.com/akhenakh/sitegeo/grid"
	"github.com/akhenakh/sitegeo/r2"
)

// Options controls the matcher.
type Options struct {
	// CellSize is the edge length of the label grid.
	CellSize float64
	// SmallDiagonal is the diagonal below which a region is small.
	SmallDiagonal float64
	// SmallMargin expands the candidate search box of small regions.
	SmallMargin float64
	// NearRadius and LooseRadius bound the fallback search of small regions.
	NearRadius  float64
	LooseRadius float64
	// AllowSharedLargeRegionLabels lets overlapping large regions of the
	// same kind carry one label, so they show one status together.
	AllowSharedLargeRegionLabels bool
	// ChunkSize is the number of regions processed per Step.
	ChunkSize int
}

// DefaultOptions returns the default matcher options.
func DefaultOptions() Options {
	return Options{
		CellSize:      50,
		SmallDiagonal: 40,
		SmallMargin:   30,
		NearRadius:    15,
		LooseRadius:   30,
		ChunkSize:     500,
	}
}

// Label is an identifier placed at a position.
type Label struct {
	ID    string
	Pos   r2.Point
	Angle float64
}

// Class is a size classification hint for a region.
type Class int

const (
	// ClassAuto classifies by diagonal against Options.SmallDiagonal.
	ClassAuto Class = iota
	// ClassSmall forces the small-region rules.
	ClassSmall
	// ClassLarge forces the large-region rules.
	ClassLarge
)

// Region is a polygon or polyline feature that can carry one label.
type Region struct {
	ID    int
	Kind  string
	Class Class
	Shape r2.Polygon

	bound    r2.Rect
	centroid r2.Point
	diagonal float64
}

// NewRegion builds a region from its ring and derives its bound, centroid
// and diagonal.
func NewRegion(id int, kind string, class Class, ring []r2.Point) Region {
	return newRegion(id, kind, class, r2.PolygonFromRing(ring))
}

// NewLineRegion builds a region from an open polyline. No label is ever
// inside it, so only the small-region radius fallback can assign one.
func NewLineRegion(id int, kind string, class Class, chain []r2.Point) Region {
	return newRegion(id, kind, class, r2.PolygonFromChain(chain))
}

func newRegion(id int, kind string, class Class, shape r2.Polygon) Region {
	bound := shape.Bound()
	return Region{
		ID:       id,
		Kind:     kind,
		Class:    class,
		Shape:    shape,
		bound:    bound,
		centroid: shape.Centroid(),
		diagonal: bound.Diagonal(),
	}
}

// Bound returns the bounding rectangle of the region.
func (r Region) Bound() r2.Rect { return r.bound }

// Centroid returns the centroid of the region.
func (r Region) Centroid() r2.Point { return r.centroid }

// Open reports whether the region is an open polyline.
func (r Region) Open() bool { return r.Shape.Open }

// Diagonal returns the diagonal of the region's bound.
func (r Region) Diagonal() float64 { return r.diagonal }

// IsSmall reports whether the region follows the small-region rules.
func (r Region) IsSmall(opts Options) bool {
	switch r.Class {
	case ClassSmall:
		return true
	case ClassLarge:
		return false
	}
	return r.diagonal < opts.SmallDiagonal
}

// Result maps region IDs to the label identifier assigned to them. A region
// missing from the map has no label for this load.
type Result struct {
	byRegion map[int]string
}

func newResult() Result { return Result{byRegion: make(map[int]string)} }

// Assigned returns the label assigned to a region.
func (r Result) Assigned(regionID int) (string, bool) {
	id, ok := r.byRegion[regionID]
	return id, ok
}

// Len returns the number of assigned regions.
func (r Result) Len() int { return len(r.byRegion) }

// Regions returns the IDs of the regions carrying label, sorted.
func (r Result) Regions(label string) []int {
	var ids []int
	for rid, l := range r.byRegion {
		if l == label {
			ids = append(ids, rid)
		}
	}
	sort.Ints(ids)
	return ids
}

// Map returns a copy of the assignment.
func (r Result) Map() map[int]string {
	out := make(map[int]string, len(r.byRegion))
	for k, v := range r.byRegion {
		out[k] = v
	}
	return out
}

// Matcher runs one matching pass over a fixed set of labels and regions.
type Matcher struct {
	opts    Options
	labels  []Label
	regions []Region
	order   []int
	index   *grid.Index[int]

	pos          int
	result       Result
	largeClaimed map[string]int
}

// NewMatcher prepares a pass: labels are indexed and regions are ordered
// largest diagonal first, ties broken by ID then input position.
func NewMatcher(labels []Label, regions []Region, opts Options) *Matcher {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}
	m := &Matcher{
		opts:         opts,
		labels:       labels,
		regions:      regions,
		index:        grid.NewIndex[int](opts.CellSize),
		result:       newResult(),
		largeClaimed: make(map[string]int),
	}
	for i, l := range labels {
		m.index.Insert(i, l.Pos.X, l.Pos.Y)
	}
	m.order = make([]int, len(regions))
	for i := range m.order {
		m.order[i] = i
	}
	sort.SliceStable(m.order, func(a, b int) bool {
		ra, rb := regions[m.order[a]], regions[m.order[b]]
		if ra.diagonal != rb.diagonal {
			return ra.diagonal > rb.diagonal
		}
		return ra.ID < rb.ID
	})
	return m
}

// Done reports whether every region has been visited.
func (m *Matcher) Done() bool { return m.pos >= len(m.order) }

// Progress returns the number of visited regions and the total.
func (m *Matcher) Progress() (done, total int) { return m.pos, len(m.order) }

// Result returns the assignment computed so far. It must not be mutated.
func (m *Matcher) Result() Result { return m.result }

// Step processes the next chunk of regions. It reports whether work remains.
func (m *Matcher) Step() bool {
	end := min(m.pos+m.opts.ChunkSize, len(m.order))
	for ; m.pos < end; m.pos++ {
		m.matchRegion(&m.regions[m.order[m.pos]])
	}
	return !m.Done()
}

// Run steps until the pass completes or ctx is done. On cancellation the
// partial result is returned together with ctx.Err().
func (m *Matcher) Run(ctx context.Context) (Result, error) {
	for !m.Done() {
		if err := ctx.Err(); err != nil {
			return m.result, err
		}
		m.Step()
	}
	return m.result, nil
}

// Match runs a complete pass synchronously.
func Match(labels []Label, regions []Region, opts Options) Result {
	m := NewMatcher(labels, regions, opts)
	for m.Step() {
	}
	return m.result
}

func (m *Matcher) matchRegion(r *Region) {
	if r.Shape.NumVertices() == 0 {
		return
	}
	small := r.IsSmall(m.opts)
	box := r.bound
	if small {
		box = box.ExpandedByMargin(m.opts.SmallMargin)
	}

	var candidates []int
	for _, li := range m.index.Query(box) {
		if !small && !m.available(m.labels[li].ID, r.ID) {
			continue
		}
		candidates = append(candidates, li)
	}
	if len(candidates) == 0 {
		return
	}

	chosen := m.pickInside(r, candidates)
	if chosen < 0 && small {
		chosen = m.pickNearest(r, candidates, m.opts.NearRadius)
		if chosen < 0 {
			chosen = m.pickNearest(r, candidates, m.opts.LooseRadius)
		}
	}
	if chosen < 0 {
		return
	}

	id := m.labels[chosen].ID
	m.result.byRegion[r.ID] = id
	if !small {
		if _, ok := m.largeClaimed[id]; !ok {
			m.largeClaimed[id] = r.ID
		}
	}
}

// available reports whether label id may go to the large region rid.
func (m *Matcher) available(id string, rid int) bool {
	owner, ok := m.largeClaimed[id]
	if !ok || owner == rid {
		return true
	}
	return m.opts.AllowSharedLargeRegionLabels
}

// pickInside returns the candidate strictly inside r nearest to its
// centroid, or -1.
func (m *Matcher) pickInside(r *Region, candidates []int) int {
	var inside []int
	var pts []r2.Point
	for _, li := range candidates {
		p := m.labels[li].Pos
		if r.bound.ContainsPoint(p) && r.Shape.ContainsPoint(p) {
			inside = append(inside, li)
			pts = append(pts, p)
		}
	}
	i, _ := r2.Nearest(r.centroid, pts)
	if i < 0 {
		return -1
	}
	return inside[i]
}

// pickNearest returns the candidate closest to the outline of r within
// radius, or -1. Ties go to the earlier label.
func (m *Matcher) pickNearest(r *Region, candidates []int, radius float64) int {
	best, bestD := -1, math.Inf(1)
	for _, li := range candidates {
		d := r.Shape.Distance(m.labels[li].Pos)
		if d <= radius && d < bestD {
			best, bestD = li, d
		}
	}
	return best
}

// DedupeLabels drops labels repeating an earlier label's identifier at the
// same position, keeping the first occurrence.
func DedupeLabels(labels []Label) []Label {
	type key struct {
		id string
		p  r2.Point
	}
	seen := make(map[key]bool, len(labels))
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		k := key{l.ID, l.Pos}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}
