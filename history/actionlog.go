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

package history

// Action is one change of a keyed counter.
type Action struct {
	Key  string
	Prev int
	Next int
}

// ActionLog is an action-log history over scalar counters. actions[:index]
// are applied; actions[index:] can be redone.
type ActionLog struct {
	apply    func(key string, value int)
	maxLen   int
	actions  []Action
	index    int
	applying bool
}

// NewActionLog creates an empty log. apply sets a counter during undo and
// redo. maxLen bounds the log; non-positive values use DefaultMaxLength.
func NewActionLog(apply func(key string, value int), maxLen int) *ActionLog {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	return &ActionLog{apply: apply, maxLen: maxLen}
}

// Record logs a change the caller has already made. Recording drops every
// redoable action. Changes with prev == next and changes arriving while an
// undo or redo is applied are ignored.
func (l *ActionLog) Record(key string, prev, next int) bool {
	if prev == next || l.applying {
		return false
	}
	l.actions = append(l.actions[:l.index], Action{key, prev, next})
	l.index++
	if over := len(l.actions) - l.maxLen; over > 0 {
		l.actions = append(l.actions[:0:0], l.actions[over:]...)
		l.index -= over
	}
	return true
}

// Undo reverts the last applied action.
func (l *ActionLog) Undo() bool {
	if l.index == 0 {
		return false
	}
	l.index--
	a := l.actions[l.index]
	l.set(a.Key, a.Prev)
	return true
}

// Redo re-applies the next undone action.
func (l *ActionLog) Redo() bool {
	if l.index >= len(l.actions) {
		return false
	}
	a := l.actions[l.index]
	l.index++
	l.set(a.Key, a.Next)
	return true
}

func (l *ActionLog) set(key string, v int) {
	l.applying = true
	defer func() { l.applying = false }()
	l.apply(key, v)
}

// CanUndo reports whether Undo would do something.
func (l *ActionLog) CanUndo() bool { return l.index > 0 }

// CanRedo reports whether Redo would do something.
func (l *ActionLog) CanRedo() bool { return l.index < len(l.actions) }

// Len returns the number of undoable and redoable actions.
func (l *ActionLog) Len() (past, future int) { return l.index, len(l.actions) - l.index }

// Reset empties the log.
func (l *ActionLog) Reset() {
	l.actions = nil
	l.index = 0
}
