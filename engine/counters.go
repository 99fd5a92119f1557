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

import "maps"

// SetCounter sets a keyed counter, such as the termination count of a
// station, clamped to [0, Counters.Max]. It returns the stored value.
func (e *Engine) SetCounter(key string, v int) int {
	v = max(0, min(v, e.cfg.Counters.Max))
	prev := e.counters[key]
	e.applyCounter(key, v)
	e.actions.Record(key, prev, v)
	return v
}

// IncCounter adds one to a counter, wrapping past Counters.Max back to
// zero.
func (e *Engine) IncCounter(key string) int {
	next := e.counters[key] + 1
	if next > e.cfg.Counters.Max {
		next = 0
	}
	return e.SetCounter(key, next)
}

// Counter returns a counter value; unset counters are zero.
func (e *Engine) Counter(key string) int { return e.counters[key] }

// Counters returns a copy of every non-zero counter.
func (e *Engine) Counters() map[string]int { return maps.Clone(e.counters) }

func (e *Engine) applyCounter(key string, v int) {
	if v == 0 {
		delete(e.counters, key)
		return
	}
	e.counters[key] = v
}
