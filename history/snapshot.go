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

import (
	"github.com/minio/highwayhash"
)

// fingerprintKey keys the snapshot fingerprints. It only needs to be
// stable within a process.
var fingerprintKey = []byte("sitegeo/history/snapshot/key/256")

// Fingerprint hashes an encoded snapshot.
func Fingerprint(encoded []byte) [highwayhash.Size128]byte {
	return highwayhash.Sum128(encoded, fingerprintKey)
}

// SnapshotFuncs binds a snapshot domain to the live state it tracks.
type SnapshotFuncs[T any] struct {
	// Current returns the live state.
	Current func() T
	// Apply replaces the live state with a restored snapshot.
	Apply func(T)
	// Clone deep-copies a state.
	Clone func(T) T
	// Encode returns a canonical encoding of a state; two states are equal
	// when their encodings are.
	Encode func(T) []byte
}

// Snapshots is a snapshot-diff history over a set-shaped state. Each
// observed change pushes the previous snapshot onto the past stack.
type Snapshots[T any] struct {
	fn     SnapshotFuncs[T]
	maxLen int

	past, future []T
	last         T
	lastSum      [highwayhash.Size128]byte
	applying     bool
}

// NewSnapshots creates a snapshot domain whose baseline is the current live
// state. maxLen bounds each stack; non-positive values use DefaultMaxLength.
func NewSnapshots[T any](fn SnapshotFuncs[T], maxLen int) *Snapshots[T] {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	s := &Snapshots[T]{fn: fn, maxLen: maxLen}
	s.rebase()
	return s
}

func (s *Snapshots[T]) rebase() {
	s.last = s.fn.Clone(s.fn.Current())
	s.lastSum = Fingerprint(s.fn.Encode(s.last))
}

// Applying reports whether an undo or redo is restoring state right now.
func (s *Snapshots[T]) Applying() bool { return s.applying }

// Observe records the live state if it differs from the last snapshot. It
// is a no-op while an undo or redo is being applied. It reports whether an
// entry was recorded.
func (s *Snapshots[T]) Observe() bool {
	if s.applying {
		return false
	}
	cur := s.fn.Clone(s.fn.Current())
	sum := Fingerprint(s.fn.Encode(cur))
	if sum == s.lastSum {
		return false
	}
	s.past = pushBounded(s.past, s.last, s.maxLen)
	s.future = nil
	s.last, s.lastSum = cur, sum
	return true
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (s *Snapshots[T]) Undo() bool {
	if len(s.past) == 0 {
		return false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = pushBounded(s.future, s.fn.Clone(s.fn.Current()), s.maxLen)
	s.restore(prev)
	return true
}

// Redo re-applies the last undone snapshot. It reports false when there is
// nothing to redo.
func (s *Snapshots[T]) Redo() bool {
	if len(s.future) == 0 {
		return false
	}
	next := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.past = pushBounded(s.past, s.fn.Clone(s.fn.Current()), s.maxLen)
	s.restore(next)
	return true
}

func (s *Snapshots[T]) restore(state T) {
	s.applying = true
	defer func() { s.applying = false }()
	s.fn.Apply(s.fn.Clone(state))
	s.last = state
	s.lastSum = Fingerprint(s.fn.Encode(state))
}

// CanUndo reports whether Undo would do something.
func (s *Snapshots[T]) CanUndo() bool { return len(s.past) > 0 }

// CanRedo reports whether Redo would do something.
func (s *Snapshots[T]) CanRedo() bool { return len(s.future) > 0 }

// Len returns the sizes of the past and future stacks.
func (s *Snapshots[T]) Len() (past, future int) { return len(s.past), len(s.future) }

// Reset empties both stacks and takes the live state as the new baseline.
func (s *Snapshots[T]) Reset() {
	s.past, s.future = nil, nil
	s.rebase()
}

// pushBounded appends v, dropping the oldest entries beyond maxLen.
func pushBounded[T any](stack []T, v T, maxLen int) []T {
	stack = append(stack, v)
	if over := len(stack) - maxLen; over > 0 {
		stack = append(stack[:0:0], stack[over:]...)
	}
	return stack
}
