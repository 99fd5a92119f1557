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

// Package engine owns the progress-tracking state of one site: the label,
// region and line tables, the label to region assignment, the selected and
// committed ranges along lines, the selected regions, the keyed counters and
// their undo/redo histories.
//
// An Engine is single-owner: it is not safe for concurrent use. Long
// matching passes are split into chunks with MatchStep so the owner can stay
// responsive between them.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akhenakh/sitegeo/config"
	"github.com/akhenakh/sitegeo/grid"
	"github.com/akhenakh/sitegeo/history"
	"github.com/akhenakh/sitegeo/internal/logger"
	"github.com/akhenakh/sitegeo/interval"
	"github.com/akhenakh/sitegeo/match"
	"github.com/akhenakh/sitegeo/r2"
	"github.com/akhenakh/sitegeo/route"
)

// History domain names.
const (
	DomainLines    = "lines"
	DomainRegions  = "regions"
	DomainCounters = "counters"
)

// Options configures an Engine beyond its Config.
type Options struct {
	// Logger receives load and matching summaries. nil uses the process
	// logger.
	Logger *slog.Logger
	// Geographic marks inputs as lon/lat degrees (X=lng, Y=lat). They are
	// projected around Origin into local meters, and geometry handed back is
	// unprojected again.
	Geographic bool
	Origin     r2.Point
}

// RegionInput is one polygon or polyline feature that can carry a label.
type RegionInput struct {
	ID    int
	Kind  string
	Class match.Class
	Ring  []r2.Point
	// Open marks Ring as an open polyline rather than a closed ring.
	Open bool
}

// LineInput is one line feature of the network.
type LineInput struct {
	FeatureID string
	Geometry  r2.Geometry
}

// Engine is the single owner of a site's tables and progress state.
type Engine struct {
	cfg  *config.Config
	log  *slog.Logger
	proj *r2.Equirectangular

	labels  []match.Label
	regions []match.Region
	known   map[int]bool

	parts     []r2.Part
	partIndex map[route.PartRef]int
	lineCells *grid.Index[int]

	matcher  *match.Matcher
	resolver *route.Resolver

	tracker  *interval.Tracker
	done     history.Set[int]
	counters map[string]int

	lines   *history.Snapshots[interval.State]
	marked  *history.Snapshots[history.Set[int]]
	actions *history.ActionLog
	history *history.Manager
}

// New returns an empty engine. A nil cfg uses config.Default; a nil opts
// uses the zero Options.
func New(cfg *config.Config, opts *Options) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts == nil {
		opts = &Options{}
	}
	e := &Engine{
		cfg:      cfg,
		log:      opts.Logger,
		tracker:  interval.NewTracker(cfg.Interval.Epsilon),
		done:     make(history.Set[int]),
		counters: make(map[string]int),
	}
	if e.log == nil {
		e.log = logger.L()
	}
	if opts.Geographic {
		p := r2.NewEquirectangular(opts.Origin)
		e.proj = &p
	}

	e.lines = history.NewSnapshots(history.SnapshotFuncs[interval.State]{
		Current: e.tracker.SelectedState,
		Apply:   e.tracker.RestoreSelected,
		Clone:   interval.State.Clone,
		Encode:  encodeState,
	}, cfg.History.MaxLength)
	e.marked = history.NewSnapshots(history.SnapshotFuncs[history.Set[int]]{
		Current: func() history.Set[int] { return e.done },
		Apply:   func(s history.Set[int]) { e.done = s },
		Clone:   history.CloneSet[int],
		Encode:  history.EncodeIntSet,
	}, cfg.History.MaxLength)
	e.actions = history.NewActionLog(e.applyCounter, cfg.History.MaxLength)

	e.history = history.NewManager()
	e.history.Register(DomainLines, e.lines)
	e.history.Register(DomainRegions, e.marked)
	e.history.Register(DomainCounters, e.actions)

	e.Load(nil, nil, nil)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Load replaces every table. Progress state and histories are cleared and
// a new matching pass is prepared; run it with MatchStep or MatchAll.
func (e *Engine) Load(labels []match.Label, regions []RegionInput, lines []LineInput) {
	e.labels = make([]match.Label, 0, len(labels))
	for _, l := range labels {
		l.Pos = e.project(l.Pos)
		e.labels = append(e.labels, l)
	}
	e.labels = match.DedupeLabels(e.labels)

	e.regions = make([]match.Region, 0, len(regions))
	e.known = make(map[int]bool, len(regions))
	for _, in := range regions {
		newRegion := match.NewRegion
		if in.Open {
			newRegion = match.NewLineRegion
		}
		e.regions = append(e.regions, newRegion(in.ID, in.Kind, in.Class, e.projectAll(in.Ring)))
		e.known[in.ID] = true
	}

	e.parts = e.parts[:0]
	e.partIndex = make(map[route.PartRef]int)
	e.lineCells = grid.NewIndex[int](e.cfg.Route.CellSize)
	for _, in := range lines {
		if in.Geometry == nil {
			continue
		}
		src := in.Geometry.Parts()
		projected := make(r2.Multi, len(src))
		for i, vs := range src {
			projected[i] = e.projectAll(vs)
		}
		for _, p := range r2.Normalize(in.FeatureID, projected) {
			ref := route.PartRef{FeatureID: p.FeatureID, Part: p.PartIndex}
			if _, dup := e.partIndex[ref]; dup {
				continue
			}
			idx := len(e.parts)
			e.parts = append(e.parts, p)
			e.partIndex[ref] = idx
			for i := 1; i < len(p.Line.Vertices); i++ {
				e.lineCells.InsertSegment(idx, p.Line.Vertices[i-1], p.Line.Vertices[i])
			}
		}
	}

	anchors := make(map[string]r2.Point, len(e.labels))
	for _, l := range e.labels {
		if _, ok := anchors[l.ID]; !ok {
			anchors[l.ID] = l.Pos
		}
	}
	graph := route.BuildGraph(e.parts, e.cfg.RouteOptions())
	e.resolver = route.NewResolver(graph, anchors, e.cfg.Route.Separator)
	e.matcher = match.NewMatcher(e.labels, e.regions, e.cfg.MatchOptions())

	e.tracker.ClearSelected()
	e.tracker.RestoreCommitted(nil)
	e.done = make(history.Set[int])
	e.counters = make(map[string]int)
	e.history.Reset()

	if len(labels)+len(regions)+len(lines) > 0 {
		e.log.Info("site loaded",
			"labels", len(e.labels),
			"regions", len(e.regions),
			"parts", len(e.parts),
			"nodes", graph.NumNodes(),
			"edges", graph.NumEdges())
	}
}

// MatchStep runs one chunk of the matching pass. It reports whether more
// chunks remain.
func (e *Engine) MatchStep() bool {
	more := e.matcher.Step()
	if !more {
		e.logMatch()
	}
	return more
}

// MatchAll runs the rest of the matching pass, checking ctx between chunks.
func (e *Engine) MatchAll(ctx context.Context) (match.Result, error) {
	res, err := e.matcher.Run(ctx)
	if err != nil {
		return res, fmt.Errorf("matching interrupted: %w", err)
	}
	e.logMatch()
	return res, nil
}

func (e *Engine) logMatch() {
	done, total := e.matcher.Progress()
	e.log.Info("labels matched", "regions", total, "processed", done, "assigned", e.matcher.Result().Len())
}

// MatchProgress returns how many regions the matching pass has processed.
func (e *Engine) MatchProgress() (done, total int) { return e.matcher.Progress() }

// Assignment returns the label to region assignment so far. It is usable
// while the pass is still running.
func (e *Engine) Assignment() match.Result { return e.matcher.Result() }

// Labels returns the deduplicated label table in the engine frame.
func (e *Engine) Labels() []match.Label { return append([]match.Label(nil), e.labels...) }

// Regions returns the region table in the engine frame.
func (e *Engine) Regions() []match.Region { return append([]match.Region(nil), e.regions...) }

// Parts returns the normalized line parts in the engine frame.
func (e *Engine) Parts() []r2.Part { return append([]r2.Part(nil), e.parts...) }

// Route resolves a named segment such as "SS01-SS02". Failures wrap
// route.ErrNoEndpoint or route.ErrNoPath.
func (e *Engine) Route(name string) (*route.Route, error) {
	r, err := e.resolver.Resolve(name)
	if err != nil {
		e.log.Debug("segment has no route", "segment", name, "err", err)
		return nil, err
	}
	return r, nil
}

// SetContext switches the editing context, such as the module being
// worked on. Every history is cleared when it actually changes.
func (e *Engine) SetContext(name string) bool {
	return e.history.SwitchContext(name)
}

// Context returns the current editing context.
func (e *Engine) Context() string { return e.history.Context() }

// SetMode makes one history domain the target of Undo and Redo.
func (e *Engine) SetMode(domain string) error { return e.history.SetActive(domain) }

// Mode returns the active history domain.
func (e *Engine) Mode() string { return e.history.Active() }

// Undo undoes the last change of the active domain.
func (e *Engine) Undo() bool { return e.history.Undo() }

// Redo redoes the last undone change of the active domain.
func (e *Engine) Redo() bool { return e.history.Redo() }

// CanUndo reports whether Undo would do something.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would do something.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

func (e *Engine) project(p r2.Point) r2.Point {
	if e.proj == nil {
		return p
	}
	return e.proj.Project(p)
}

func (e *Engine) projectAll(pts []r2.Point) []r2.Point {
	if e.proj == nil {
		return append([]r2.Point(nil), pts...)
	}
	return e.proj.ProjectAll(pts)
}

func (e *Engine) unprojectAll(pts []r2.Point) []r2.Point {
	if e.proj == nil {
		return pts
	}
	out := make([]r2.Point, len(pts))
	for i, p := range pts {
		out[i] = e.proj.Unproject(p)
	}
	return out
}

func (e *Engine) projectRect(box r2.Rect) r2.Rect {
	if e.proj == nil || box.IsEmpty() {
		return box
	}
	return r2.RectFromCorners(e.proj.Project(box.Lo), e.proj.Project(box.Hi))
}
