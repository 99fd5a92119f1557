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
	"cmp"
	"encoding/binary"
	"maps"
	"math"
	"slices"
)

// Set is a set of comparable ids, the most common snapshot shape.
type Set[K cmp.Ordered] map[K]struct{}

// CloneSet deep-copies a set.
func CloneSet[K cmp.Ordered](s Set[K]) Set[K] {
	if s == nil {
		return Set[K]{}
	}
	return maps.Clone(s)
}

// Encoder builds canonical byte encodings for snapshot comparison.
type Encoder struct {
	buf []byte
}

// AppendString appends a length-prefixed string.
func (e *Encoder) AppendString(s string) *Encoder {
	e.buf = binary.AppendUvarint(e.buf, uint64(len(s)))
	e.buf = append(e.buf, s...)
	return e
}

// AppendInt appends a signed integer.
func (e *Encoder) AppendInt(v int64) *Encoder {
	e.buf = binary.AppendVarint(e.buf, v)
	return e
}

// AppendFloat appends a float64 by its bits.
func (e *Encoder) AppendFloat(v float64) *Encoder {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
	return e
}

// Bytes returns the encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// EncodeStringSet encodes a string set in sorted order.
func EncodeStringSet(s Set[string]) []byte {
	var e Encoder
	e.AppendInt(int64(len(s)))
	for _, k := range slices.Sorted(maps.Keys(s)) {
		e.AppendString(k)
	}
	return e.Bytes()
}

// EncodeIntSet encodes an int set in sorted order.
func EncodeIntSet(s Set[int]) []byte {
	var e Encoder
	e.AppendInt(int64(len(s)))
	for _, k := range slices.Sorted(maps.Keys(s)) {
		e.AppendInt(int64(k))
	}
	return e.Bytes()
}
