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

package route

import (
	"math"

	"github.com/akhenakh/sitegeo/grid"
	"github.com/akhenakh/sitegeo/interval"
	"github.com/akhenakh/sitegeo/r2"
)

// NodeID identifies a graph node.
type NodeID int32

// PartRef addresses one line part.
type PartRef struct {
	FeatureID string
	Part      int
}

// Options controls graph construction and node lookup.
type Options struct {
	// Precision is the number of decimals vertex coordinates are rounded
	// to when deciding whether two vertices are the same node.
	Precision int
	// CellSize is the edge length of the node grid.
	CellSize float64
	// MaxRings bounds the ring search of NearestNode.
	MaxRings int
	// MaxSnapDistance is the farthest a node may be from the query point.
	MaxSnapDistance float64
}

// DefaultOptions returns the default graph options.
func DefaultOptions() Options {
	return Options{
		Precision:       3,
		CellSize:        25,
		MaxRings:        8,
		MaxSnapDistance: 60,
	}
}

type nodeKey struct {
	x, y int64
}

type edge struct {
	to     NodeID
	weight float64
}

type edgeKey struct {
	a, b NodeID
}

func makeEdgeKey(a, b NodeID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeSpan records which line part produced an edge and where on it.
type edgeSpan struct {
	ref    PartRef
	lo, hi float64
}

// Graph is an undirected weighted graph over the vertices of a line
// network. Vertices closer than the rounding precision collapse into one
// node, which is how separate lines join.
type Graph struct {
	opts  Options
	scale float64

	nodes []r2.Point
	adj   [][]edge
	keys  map[nodeKey]NodeID
	spans map[edgeKey]edgeSpan
	cells *grid.Index[NodeID]
}

// BuildGraph constructs the graph of the given parts. Parts with fewer than
// two vertices are ignored.
func BuildGraph(parts []r2.Part, opts Options) *Graph {
	if opts.Precision < 0 {
		opts.Precision = 0
	}
	if opts.MaxRings <= 0 {
		opts.MaxRings = DefaultOptions().MaxRings
	}
	g := &Graph{
		opts:  opts,
		scale: math.Pow(10, float64(opts.Precision)),
		keys:  make(map[nodeKey]NodeID),
		spans: make(map[edgeKey]edgeSpan),
		cells: grid.NewIndex[NodeID](opts.CellSize),
	}
	for _, p := range parts {
		vs := p.Line.Vertices
		if len(vs) < 2 || len(p.Line.Cum) != len(vs) {
			continue
		}
		ref := PartRef{p.FeatureID, p.PartIndex}
		prev := g.addNode(vs[0])
		for i := 1; i < len(vs); i++ {
			cur := g.addNode(vs[i])
			if cur != prev {
				g.addEdge(prev, cur, vs[i-1].Distance(vs[i]), edgeSpan{ref, p.Line.Cum[i-1], p.Line.Cum[i]})
			}
			prev = cur
		}
	}
	return g
}

func (g *Graph) addNode(p r2.Point) NodeID {
	k := nodeKey{int64(math.Round(p.X * g.scale)), int64(math.Round(p.Y * g.scale))}
	if id, ok := g.keys[k]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.keys[k] = id
	g.nodes = append(g.nodes, p)
	g.adj = append(g.adj, nil)
	g.cells.Insert(id, p.X, p.Y)
	return id
}

func (g *Graph) addEdge(a, b NodeID, w float64, span edgeSpan) {
	g.adj[a] = append(g.adj[a], edge{b, w})
	g.adj[b] = append(g.adj[b], edge{a, w})
	k := makeEdgeKey(a, b)
	// The first part to lay an edge owns it.
	if _, ok := g.spans[k]; !ok {
		g.spans[k] = span
	}
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of distinct undirected edges.
func (g *Graph) NumEdges() int { return len(g.spans) }

// Node returns the position of a node.
func (g *Graph) Node(id NodeID) r2.Point { return g.nodes[id] }

// Degree returns the number of edges incident to a node.
func (g *Graph) Degree(id NodeID) int { return len(g.adj[id]) }

// NearestNode searches rings of grid cells outward from p and returns the
// closest node within MaxSnapDistance. The search visits at most MaxRings
// rings beyond the cell of p.
func (g *Graph) NearestNode(p r2.Point) (NodeID, bool) {
	if !p.IsValid() || len(g.nodes) == 0 {
		return 0, false
	}
	center := g.cells.CellOf(p.X, p.Y)
	size := g.cells.CellSize()
	best, bestD := NodeID(-1), math.Inf(1)
	for r := 0; r <= g.opts.MaxRings; r++ {
		// Nodes of ring r are at least (r-1) cells away.
		if best >= 0 && float64(r-1)*size > bestD {
			break
		}
		ids := g.cells.Ring(center, r)
		if len(ids) == 0 {
			continue
		}
		pts := make([]r2.Point, len(ids))
		for i, id := range ids {
			pts[i] = g.nodes[id]
		}
		i, d := r2.Nearest(p, pts)
		if d < bestD {
			best, bestD = ids[i], d
		}
	}
	if best < 0 || bestD > g.opts.MaxSnapDistance {
		return 0, false
	}
	return best, true
}

// ShortestPath runs Dijkstra's algorithm from one node to another and
// returns the node sequence and its total weight. Selection of the next
// node is a linear scan, which is fine for site-sized networks.
func (g *Graph) ShortestPath(from, to NodeID) ([]NodeID, float64, error) {
	n := len(g.nodes)
	if int(from) < 0 || int(from) >= n || int(to) < 0 || int(to) >= n {
		return nil, 0, ErrNoPath
	}
	dist := make([]float64, n)
	prev := make([]NodeID, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[from] = 0

	for {
		u := NodeID(-1)
		for i := 0; i < n; i++ {
			if !done[i] && !math.IsInf(dist[i], 1) && (u < 0 || dist[i] < dist[u]) {
				u = NodeID(i)
			}
		}
		if u < 0 {
			return nil, 0, ErrNoPath
		}
		if u == to {
			break
		}
		done[u] = true
		for _, e := range g.adj[u] {
			if alt := dist[u] + e.weight; alt < dist[e.to] {
				dist[e.to] = alt
				prev[e.to] = u
			}
		}
	}

	var path []NodeID
	for v := to; v >= 0; v = prev[v] {
		path = append(path, v)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[to], nil
}

// Vertices returns the positions of the nodes of a path.
func (g *Graph) Vertices(path []NodeID) []r2.Point {
	out := make([]r2.Point, len(path))
	for i, id := range path {
		out[i] = g.nodes[id]
	}
	return out
}

// ProjectPath maps every edge of the path back to the distance range of the
// line part that produced it, merged per part.
func (g *Graph) ProjectPath(path []NodeID) map[PartRef][]interval.Interval {
	out := make(map[PartRef][]interval.Interval)
	for i := 1; i < len(path); i++ {
		span, ok := g.spans[makeEdgeKey(path[i-1], path[i])]
		if !ok {
			continue
		}
		out[span.ref] = append(out[span.ref], interval.Interval{Start: span.lo, End: span.hi})
	}
	for ref, list := range out {
		out[ref] = interval.Merge(list)
	}
	return out
}
