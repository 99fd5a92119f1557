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
	"cmp"
	"fmt"
	"slices"
)

// FreeOwner is the ownership key of ranges not scoped to a named segment.
const FreeOwner = "*"

// Key addresses one interval set: a line part plus an ownership key.
type Key struct {
	FeatureID string `json:"featureId" yaml:"featureId"`
	Part      int    `json:"part" yaml:"part"`
	Owner     string `json:"owner" yaml:"owner"`
}

func (k Key) String() string { return fmt.Sprintf("%s/%d@%s", k.FeatureID, k.Part, k.Owner) }

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.FeatureID, b.FeatureID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Part, b.Part); c != 0 {
		return c
	}
	return cmp.Compare(a.Owner, b.Owner)
}

// State is a deep-copyable view of interval sets keyed by Key.
type State map[Key][]Interval

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, list := range s {
		out[k] = append([]Interval(nil), list...)
	}
	return out
}

// Keys returns the keys of s in a stable order.
func (s State) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Tracker holds the selected (pending) and committed (locked) ranges of
// every key. After each mutation the ranges of a key are merged: sorted and
// pairwise disjoint. Committed ranges only ever grow.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	eps       float64
	selected  State
	committed State
}

// NewTracker returns an empty tracker. eps is the minimum length of a range
// kept after subtraction; non-positive values use DefaultEpsilon.
func NewTracker(eps float64) *Tracker {
	if !(eps > 0) {
		eps = DefaultEpsilon
	}
	return &Tracker{
		eps:       eps,
		selected:  make(State),
		committed: make(State),
	}
}

// Epsilon returns the subtraction noise guard.
func (t *Tracker) Epsilon() float64 { return t.eps }

// Selected returns a copy of the selected ranges of k.
func (t *Tracker) Selected(k Key) []Interval {
	return append([]Interval(nil), t.selected[k]...)
}

// Committed returns a copy of the committed ranges of k.
func (t *Tracker) Committed(k Key) []Interval {
	return append([]Interval(nil), t.committed[k]...)
}

// Coverage returns the merged union of selected and committed ranges of k.
func (t *Tracker) Coverage(k Key) []Interval {
	all := make([]Interval, 0, len(t.selected[k])+len(t.committed[k]))
	all = append(all, t.selected[k]...)
	all = append(all, t.committed[k]...)
	return Merge(all)
}

// Select adds the requested ranges to the selection of k. Requested ranges
// are first reduced by everything already selected or committed, so
// repeating a selection never adds length. It returns the ranges that were
// actually added.
func (t *Tracker) Select(k Key, requested []Interval) []Interval {
	fresh := SubtractAll(Merge(requested), t.Coverage(k), t.eps)
	if len(fresh) == 0 {
		return nil
	}
	t.selected[k] = Merge(append(t.selected[k], fresh...))
	return fresh
}

// Erase removes the given ranges from the selection of k. Committed ranges
// are never touched. It reports whether anything changed.
func (t *Tracker) Erase(k Key, cuts []Interval) bool {
	cur, ok := t.selected[k]
	if !ok {
		return false
	}
	next := SubtractAll(cur, Merge(cuts), t.eps)
	if slices.Equal(cur, next) {
		return false
	}
	if len(next) == 0 {
		delete(t.selected, k)
	} else {
		t.selected[k] = next
	}
	return true
}

// Commit promotes the selection of k into its committed ranges. It returns
// the committed length gained.
func (t *Tracker) Commit(k Key) float64 {
	sel, ok := t.selected[k]
	if !ok {
		return 0
	}
	delete(t.selected, k)
	before := Length(t.committed[k])
	t.committed[k] = Merge(append(t.committed[k], sel...))
	return Length(t.committed[k]) - before
}

// CommitAll commits every selection and returns the total length gained.
func (t *Tracker) CommitAll() float64 {
	var gained float64
	for _, k := range t.selected.Keys() {
		gained += t.Commit(k)
	}
	return gained
}

// SelectedKeys returns the keys that have a selection, in stable order.
func (t *Tracker) SelectedKeys() []Key { return t.selected.Keys() }

// CommittedKeys returns the keys that have committed ranges, in stable order.
func (t *Tracker) CommittedKeys() []Key { return t.committed.Keys() }

// SelectedState returns a deep copy of every selection.
func (t *Tracker) SelectedState() State { return t.selected.Clone() }

// CommittedState returns a deep copy of every committed set.
func (t *Tracker) CommittedState() State { return t.committed.Clone() }

// RestoreSelected replaces every selection with s, merging each list.
func (t *Tracker) RestoreSelected(s State) {
	t.selected = normalize(s)
}

// RestoreCommitted replaces every committed set with s, merging each list.
// It is meant for reloading persisted progress.
func (t *Tracker) RestoreCommitted(s State) {
	t.committed = normalize(s)
}

// ClearSelected drops every pending selection.
func (t *Tracker) ClearSelected() {
	t.selected = make(State)
}

func normalize(s State) State {
	out := make(State, len(s))
	for k, list := range s {
		if m := Merge(list); len(m) > 0 {
			out[k] = m
		}
	}
	return out
}

// Restrict intersects requested ranges with the allowed ranges of a route.
func Restrict(requested, allowed []Interval) []Interval {
	return Intersect(Merge(requested), Merge(allowed))
}
