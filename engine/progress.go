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

	"github.com/akhenakh/sitegeo/history"
	"github.com/akhenakh/sitegeo/interval"
	"github.com/akhenakh/sitegeo/route"
)

// Record is the committed progress of one line part for one owner.
type Record struct {
	FeatureID string              `json:"featureId" yaml:"featureId"`
	Part      int                 `json:"part" yaml:"part"`
	Owner     string              `json:"owner" yaml:"owner"`
	Intervals []interval.Interval `json:"intervals" yaml:"intervals"`
}

// Progress is the persistable state of a site: committed ranges, marked
// regions and counters. Pending selections are not part of it.
type Progress struct {
	Lines    []Record       `json:"lines" yaml:"lines"`
	Regions  []int          `json:"regions" yaml:"regions"`
	Counters map[string]int `json:"counters" yaml:"counters"`
}

// Export returns the persistable progress, in stable order.
func (e *Engine) Export() Progress {
	p := Progress{
		Regions:  e.MarkedRegions(),
		Counters: maps.Clone(e.counters),
	}
	for _, k := range e.tracker.CommittedKeys() {
		p.Lines = append(p.Lines, Record{
			FeatureID: k.FeatureID,
			Part:      k.Part,
			Owner:     k.Owner,
			Intervals: e.tracker.Committed(k),
		})
	}
	return p
}

// Import replaces the progress with p. Pending selections and every history
// are cleared. Records of parts unknown to the loaded tables are dropped,
// ranges are clamped to their part's length, region ids unknown to the
// tables are dropped and counters are clamped.
func (e *Engine) Import(p Progress) {
	committed := make(interval.State, len(p.Lines))
	for _, r := range p.Lines {
		idx, ok := e.partIndex[route.PartRef{FeatureID: r.FeatureID, Part: r.Part}]
		if !ok {
			continue
		}
		list := interval.Clamp(r.Intervals, e.parts[idx].Line.Length())
		if len(list) == 0 {
			continue
		}
		k := interval.Key{FeatureID: r.FeatureID, Part: r.Part, Owner: r.Owner}
		committed[k] = append(committed[k], list...)
	}
	e.tracker.ClearSelected()
	e.tracker.RestoreCommitted(committed)

	e.done = make(history.Set[int], len(p.Regions))
	for _, id := range p.Regions {
		if e.known[id] {
			e.done[id] = struct{}{}
		}
	}
	e.counters = make(map[string]int, len(p.Counters))
	for k, v := range p.Counters {
		e.applyCounter(k, max(0, min(v, e.cfg.Counters.Max)))
	}
	e.history.Reset()
}
