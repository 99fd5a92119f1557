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

// Package grid provides a uniform grid bucketing index for planar points
// and segments. Queries return a superset of the exact answer; callers are
// expected to apply their own distance or containment checks.
package grid

import (
	"math"
	"sort"

	"github.com/akhenakh/sitegeo/r2"
)

// DefaultCellSize is used when a non-positive cell size is requested.
const DefaultCellSize = 50.0

// Cell identifies one grid bucket: Col = floor(x/cellSize),
// Row = floor(y/cellSize).
type Cell struct {
	Row, Col int
}

// Index stores items bucketed by grid cell. There is no deletion; build a
// new Index (or call Reset) when the source geometry changes.
type Index[T any] struct {
	cellSize float64
	cells    map[Cell][]entry[T]
	numItems int
}

type entry[T any] struct {
	seq  int
	item T
}

// NewIndex creates an empty index with the given cell size.
func NewIndex[T any](cellSize float64) *Index[T] {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &Index[T]{
		cellSize: cellSize,
		cells:    make(map[Cell][]entry[T]),
	}
}

// CellSize returns the edge length of a cell.
func (g *Index[T]) CellSize() float64 { return g.cellSize }

// NumItems returns the number of inserted items. A segment spanning several
// cells counts once.
func (g *Index[T]) NumItems() int { return g.numItems }

// NumCells returns the number of non-empty cells.
func (g *Index[T]) NumCells() int { return len(g.cells) }

// Reset drops every item, keeping the cell size.
func (g *Index[T]) Reset() {
	g.cells = make(map[Cell][]entry[T])
	g.numItems = 0
}

// CellOf returns the cell containing (x, y).
func (g *Index[T]) CellOf(x, y float64) Cell {
	return Cell{
		Row: int(math.Floor(y / g.cellSize)),
		Col: int(math.Floor(x / g.cellSize)),
	}
}

// Insert places item in the cell containing (x, y). Non-finite coordinates
// are rejected.
func (g *Index[T]) Insert(item T, x, y float64) bool {
	if !(r2.Point{X: x, Y: y}).IsValid() {
		return false
	}
	c := g.CellOf(x, y)
	g.cells[c] = append(g.cells[c], entry[T]{seq: g.numItems, item: item})
	g.numItems++
	return true
}

// InsertSegment places item in every cell overlapped by the bounding box of
// the segment ab.
func (g *Index[T]) InsertSegment(item T, a, b r2.Point) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	lo := g.CellOf(math.Min(a.X, b.X), math.Min(a.Y, b.Y))
	hi := g.CellOf(math.Max(a.X, b.X), math.Max(a.Y, b.Y))
	e := entry[T]{seq: g.numItems, item: item}
	for row := lo.Row; row <= hi.Row; row++ {
		for col := lo.Col; col <= hi.Col; col++ {
			c := Cell{row, col}
			g.cells[c] = append(g.cells[c], e)
		}
	}
	g.numItems++
	return true
}

// QueryRect returns every item stored in a cell overlapping the rectangle
// [minX, maxX] x [minY, maxY], each item once, in insertion order.
func (g *Index[T]) QueryRect(minX, minY, maxX, maxY float64) []T {
	if minX > maxX || minY > maxY {
		return nil
	}
	for _, v := range []float64{minX, minY, maxX, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
	}
	lo := g.CellOf(minX, minY)
	hi := g.CellOf(maxX, maxY)

	// Walk whichever is smaller: the covered cell range or the occupied cells.
	span := (hi.Row - lo.Row + 1) * (hi.Col - lo.Col + 1)
	var found []entry[T]
	if span <= len(g.cells) {
		for row := lo.Row; row <= hi.Row; row++ {
			for col := lo.Col; col <= hi.Col; col++ {
				found = append(found, g.cells[Cell{row, col}]...)
			}
		}
	} else {
		for c, es := range g.cells {
			if c.Row >= lo.Row && c.Row <= hi.Row && c.Col >= lo.Col && c.Col <= hi.Col {
				found = append(found, es...)
			}
		}
	}
	return collect(found)
}

// Query is QueryRect over an r2.Rect.
func (g *Index[T]) Query(r r2.Rect) []T {
	if r.IsEmpty() {
		return nil
	}
	return g.QueryRect(r.Lo.X, r.Lo.Y, r.Hi.X, r.Hi.Y)
}

// Ring returns the items of the cells at Chebyshev distance exactly r from
// center. Ring 0 is the center cell itself.
func (g *Index[T]) Ring(center Cell, r int) []T {
	if r < 0 {
		return nil
	}
	if r == 0 {
		return collect(append([]entry[T](nil), g.cells[center]...))
	}
	var found []entry[T]
	for col := center.Col - r; col <= center.Col+r; col++ {
		found = append(found, g.cells[Cell{center.Row - r, col}]...)
		found = append(found, g.cells[Cell{center.Row + r, col}]...)
	}
	for row := center.Row - r + 1; row <= center.Row+r-1; row++ {
		found = append(found, g.cells[Cell{row, center.Col - r}]...)
		found = append(found, g.cells[Cell{row, center.Col + r}]...)
	}
	return collect(found)
}

// collect dedups entries by sequence number and returns the items in
// insertion order.
func collect[T any](es []entry[T]) []T {
	if len(es) == 0 {
		return nil
	}
	sort.Slice(es, func(i, j int) bool { return es[i].seq < es[j].seq })
	out := make([]T, 0, len(es))
	last := -1
	for _, e := range es {
		if e.seq == last {
			continue
		}
		last = e.seq
		out = append(out, e.item)
	}
	return out
}
