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
	"fmt"

	"github.com/akhenakh/sitegeo/history"
	"github.com/akhenakh/sitegeo/interval"
	"github.com/akhenakh/sitegeo/r2"
	"github.com/akhenakh/sitegeo/route"
)

// SelectBox selects the runs of every line part inside box. owner scopes
// the selection: interval.FreeOwner selects anywhere, any other owner is a
// segment name and the selection is restricted to that segment's route. A
// segment without a route returns the resolver error and selects nothing.
// It returns the length actually added.
func (e *Engine) SelectBox(box r2.Rect, owner string) (float64, error) {
	var rt *route.Route
	if owner != interval.FreeOwner {
		r, err := e.Route(owner)
		if err != nil {
			return 0, fmt.Errorf("selection disabled: %w", err)
		}
		rt = r
	}
	box = e.projectRect(box)

	var added float64
	for _, idx := range e.lineCells.Query(box) {
		p := e.parts[idx]
		req := e.boxRanges(p, box, e.cfg.Interval.MinBoxLength)
		if rt != nil {
			req = interval.Restrict(req, rt.Allowed(route.PartRef{FeatureID: p.FeatureID, Part: p.PartIndex}))
		}
		if len(req) == 0 {
			continue
		}
		k := interval.Key{FeatureID: p.FeatureID, Part: p.PartIndex, Owner: owner}
		added += interval.Length(e.tracker.Select(k, req))
	}
	if added > 0 {
		e.lines.Observe()
	}
	return added, nil
}

// EraseBox removes the runs inside box from owner's selection. Committed
// ranges are untouched. It reports whether anything changed.
func (e *Engine) EraseBox(box r2.Rect, owner string) bool {
	box = e.projectRect(box)
	changed := false
	for _, idx := range e.lineCells.Query(box) {
		p := e.parts[idx]
		cuts := e.boxRanges(p, box, 0)
		if len(cuts) == 0 {
			continue
		}
		k := interval.Key{FeatureID: p.FeatureID, Part: p.PartIndex, Owner: owner}
		if e.tracker.Erase(k, cuts) {
			changed = true
		}
	}
	if changed {
		e.lines.Observe()
	}
	return changed
}

// boxRanges returns the runs of p inside box, rounded to the configured
// precision and kept within the part.
func (e *Engine) boxRanges(p r2.Part, box r2.Rect, minLen float64) []interval.Interval {
	runs := interval.Round(interval.InBox(p.Line, box, minLen), e.cfg.Interval.Decimals)
	return interval.Clamp(runs, p.Line.Length())
}

// SelectRoute selects the whole route of a named segment under its own
// owner key. It returns the length actually added.
func (e *Engine) SelectRoute(name string) (float64, error) {
	rt, err := e.Route(name)
	if err != nil {
		return 0, fmt.Errorf("selection disabled: %w", err)
	}
	var added float64
	for _, ref := range rt.Parts() {
		k := interval.Key{FeatureID: ref.FeatureID, Part: ref.Part, Owner: name}
		added += interval.Length(e.tracker.Select(k, rt.Allowed(ref)))
	}
	if added > 0 {
		e.lines.Observe()
	}
	return added, nil
}

// ClearSelection drops every pending selection.
func (e *Engine) ClearSelection() bool {
	if len(e.tracker.SelectedKeys()) == 0 {
		return false
	}
	e.tracker.ClearSelected()
	e.lines.Observe()
	return true
}

// Commit promotes every selection into committed progress and returns the
// committed length gained. A commit is a history boundary: the line
// history is cleared afterwards.
func (e *Engine) Commit() float64 {
	gained := e.tracker.CommitAll()
	e.lines.Reset()
	if gained > 0 {
		e.log.Info("progress committed", "length", gained)
	}
	return gained
}

// Selected returns the selected ranges of a key.
func (e *Engine) Selected(k interval.Key) []interval.Interval { return e.tracker.Selected(k) }

// Committed returns the committed ranges of a key.
func (e *Engine) Committed(k interval.Key) []interval.Interval { return e.tracker.Committed(k) }

// SelectedKeys returns the keys that have a selection, in stable order.
func (e *Engine) SelectedKeys() []interval.Key { return e.tracker.SelectedKeys() }

// CommittedKeys returns the keys that have committed ranges, in stable order.
func (e *Engine) CommittedKeys() []interval.Key { return e.tracker.CommittedKeys() }

// CommittedLength sums the committed ranges of every key.
func (e *Engine) CommittedLength() float64 {
	var total float64
	for _, k := range e.tracker.CommittedKeys() {
		total += interval.Length(e.tracker.Committed(k))
	}
	return total
}

// SelectedGeometry returns the sub-lines covered by the selection of k, in
// the input frame.
func (e *Engine) SelectedGeometry(k interval.Key) [][]r2.Point {
	return e.geometry(k, e.tracker.Selected(k))
}

// CommittedGeometry returns the sub-lines covered by the committed ranges of
// k, in the input frame.
func (e *Engine) CommittedGeometry(k interval.Key) [][]r2.Point {
	return e.geometry(k, e.tracker.Committed(k))
}

func (e *Engine) geometry(k interval.Key, list []interval.Interval) [][]r2.Point {
	idx, ok := e.partIndex[route.PartRef{FeatureID: k.FeatureID, Part: k.Part}]
	if !ok {
		return nil
	}
	line := e.parts[idx].Line
	var out [][]r2.Point
	for _, iv := range list {
		if vs := interval.Slice(line, iv.Start, iv.End); len(vs) >= 2 {
			out = append(out, e.unprojectAll(vs))
		}
	}
	return out
}

func encodeState(s interval.State) []byte {
	var enc history.Encoder
	for _, k := range s.Keys() {
		list := s[k]
		enc.AppendString(k.FeatureID).AppendInt(int64(k.Part)).AppendString(k.Owner).AppendInt(int64(len(list)))
		for _, iv := range list {
			enc.AppendFloat(iv.Start).AppendFloat(iv.End)
		}
	}
	return enc.Bytes()
}
