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

package engine

import (
	"maps"
	"slices"

	"github.com/akhenakh/sitegeo/r2"
)

// ToggleRegion flips the completion mark of a region. Unknown ids are
// ignored; it reports whether the region is now marked.
func (e *Engine) ToggleRegion(id int) bool {
	if !e.known[id] {
		return false
	}
	_, on := e.done[id]
	if on {
		delete(e.done, id)
	} else {
		e.done[id] = struct{}{}
	}
	e.marked.Observe()
	return !on
}

// MarkRegions marks every known region of ids as one history entry. It
// returns how many were newly marked.
func (e *Engine) MarkRegions(ids ...int) int {
	n := 0
	for _, id := range ids {
		if !e.known[id] {
			continue
		}
		if _, ok := e.done[id]; !ok {
			e.done[id] = struct{}{}
			n++
		}
	}
	if n > 0 {
		e.marked.Observe()
	}
	return n
}

// MarkLabel marks every region the label is assigned to.
func (e *Engine) MarkLabel(label string) int {
	return e.MarkRegions(e.matcher.Result().Regions(label)...)
}

// MarkRegionsInBox marks every region whose centroid lies in box.
func (e *Engine) MarkRegionsInBox(box r2.Rect) int {
	box = e.projectRect(box)
	var ids []int
	for _, r := range e.regions {
		if box.ContainsPoint(r.Centroid()) {
			ids = append(ids, r.ID)
		}
	}
	return e.MarkRegions(ids...)
}

// RegionMarked reports whether a region is marked.
func (e *Engine) RegionMarked(id int) bool {
	_, ok := e.done[id]
	return ok
}

// MarkedRegions returns the marked region ids in ascending order.
func (e *Engine) MarkedRegions() []int {
	return slices.Sorted(maps.Keys(e.done))
}
