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

// Package route resolves named logical segments such as "SS01-SS02" onto a
// network of lines: the segment's endpoints are looked up among labeled
// anchor points, snapped to the nearest network node, and joined by the
// shortest path. The path is then projected back onto distance ranges of
// the lines it runs along.
package route

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/akhenakh/sitegeo/interval"
	"github.com/akhenakh/sitegeo/r2"
)

var (
	// ErrNoEndpoint is returned when a segment endpoint has no anchor
	// position.
	ErrNoEndpoint = errors.New("NO_ENDPOINT")
	// ErrNoPath is returned when the endpoints are not connected.
	ErrNoPath = errors.New("NO_PATH")
)

// DefaultSeparator splits a segment name into its two endpoint identifiers.
const DefaultSeparator = "-"

// Route is a resolved segment.
type Route struct {
	Name     string
	From, To string
	Nodes    []NodeID
	Vertices []r2.Point
	Length   float64
	// Intervals holds, per line part, the merged distance ranges the route
	// runs along.
	Intervals map[PartRef][]interval.Interval
}

// Parts returns the line parts the route runs along, sorted.
func (r *Route) Parts() []PartRef {
	refs := make([]PartRef, 0, len(r.Intervals))
	for ref := range r.Intervals {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].FeatureID != refs[j].FeatureID {
			return refs[i].FeatureID < refs[j].FeatureID
		}
		return refs[i].Part < refs[j].Part
	})
	return refs
}

// Allowed returns the ranges of a part the route runs along.
func (r *Route) Allowed(ref PartRef) []interval.Interval { return r.Intervals[ref] }

// SplitName splits a segment name such as "SS01-SS02" into its endpoints.
func SplitName(name, sep string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(strings.TrimSpace(name), sep)
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || from == "" || to == "" || strings.Contains(to, sep) {
		return "", "", false
	}
	return from, to, true
}

type resolved struct {
	route *Route
	err   error
}

// Resolver resolves segment names against a graph and anchor positions.
// Results, failures included, are cached per name until Reset.
type Resolver struct {
	graph   *Graph
	anchors map[string]r2.Point
	sep     string
	cache   map[string]resolved
}

// NewResolver returns a resolver. anchors maps endpoint identifiers to their
// positions; sep defaults to DefaultSeparator.
func NewResolver(g *Graph, anchors map[string]r2.Point, sep string) *Resolver {
	if sep == "" {
		sep = DefaultSeparator
	}
	return &Resolver{
		graph:   g,
		anchors: anchors,
		sep:     sep,
		cache:   make(map[string]resolved),
	}
}

// Graph returns the underlying graph.
func (r *Resolver) Graph() *Graph { return r.graph }

// Reset drops cached results.
func (r *Resolver) Reset() { r.cache = make(map[string]resolved) }

// Resolve returns the route of the named segment. Failures wrap
// ErrNoEndpoint or ErrNoPath; callers must then treat the segment as having
// no route and disable selection scoped to it.
func (r *Resolver) Resolve(name string) (*Route, error) {
	if c, ok := r.cache[name]; ok {
		return c.route, c.err
	}
	route, err := r.resolve(name)
	r.cache[name] = resolved{route, err}
	return route, err
}

func (r *Resolver) resolve(name string) (*Route, error) {
	from, to, ok := SplitName(name, r.sep)
	if !ok {
		return nil, fmt.Errorf("segment %q: %w", name, ErrNoEndpoint)
	}
	a, ok := r.anchors[from]
	if !ok {
		return nil, fmt.Errorf("segment %q: endpoint %q: %w", name, from, ErrNoEndpoint)
	}
	b, ok := r.anchors[to]
	if !ok {
		return nil, fmt.Errorf("segment %q: endpoint %q: %w", name, to, ErrNoEndpoint)
	}
	if r.graph == nil {
		return nil, fmt.Errorf("segment %q: empty network: %w", name, ErrNoPath)
	}
	na, ok := r.graph.NearestNode(a)
	if !ok {
		return nil, fmt.Errorf("segment %q: %q is off the network: %w", name, from, ErrNoPath)
	}
	nb, ok := r.graph.NearestNode(b)
	if !ok {
		return nil, fmt.Errorf("segment %q: %q is off the network: %w", name, to, ErrNoPath)
	}
	path, length, err := r.graph.ShortestPath(na, nb)
	if err != nil {
		return nil, fmt.Errorf("segment %q: %w", name, err)
	}
	return &Route{
		Name:      name,
		From:      from,
		To:        to,
		Nodes:     path,
		Vertices:  r.graph.Vertices(path),
		Length:    length,
		Intervals: r.graph.ProjectPath(path),
	}, nil
}
