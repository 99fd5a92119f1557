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

// Package history keeps independent undo/redo histories, one per editable
// domain. Set-shaped domains use Snapshots, keyed counters use ActionLog.
// A Manager routes undo and redo to the single active domain and clears
// every history when the editing context changes.
package history

import (
	"errors"
	"fmt"
)

// DefaultMaxLength bounds a history when no length is given.
const DefaultMaxLength = 100

// ErrUnknownDomain is returned when activating a domain that was never
// registered.
var ErrUnknownDomain = errors.New("unknown history domain")

// Domain is an undo/redo history.
type Domain interface {
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool
	Reset()
}

var (
	_ Domain = (*Snapshots[int])(nil)
	_ Domain = (*ActionLog)(nil)
)

// Manager owns the histories of all domains of one editing session.
type Manager struct {
	domains map[string]Domain
	order   []string
	active  string
	context string
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{domains: make(map[string]Domain)}
}

// Register adds or replaces a domain. The first registered domain becomes
// active.
func (m *Manager) Register(name string, d Domain) {
	if _, ok := m.domains[name]; !ok {
		m.order = append(m.order, name)
	}
	m.domains[name] = d
	if m.active == "" {
		m.active = name
	}
}

// Domain returns a registered domain.
func (m *Manager) Domain(name string) (Domain, bool) {
	d, ok := m.domains[name]
	return d, ok
}

// Names returns the registered domain names in registration order.
func (m *Manager) Names() []string { return append([]string(nil), m.order...) }

// SetActive makes the named domain the target of Undo and Redo.
func (m *Manager) SetActive(name string) error {
	if _, ok := m.domains[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	m.active = name
	return nil
}

// Active returns the name of the active domain.
func (m *Manager) Active() string { return m.active }

// Context returns the current editing context.
func (m *Manager) Context() string { return m.context }

// SwitchContext changes the editing context. Every history is cleared when
// the context actually changes; it reports whether it did.
func (m *Manager) SwitchContext(ctx string) bool {
	if ctx == m.context {
		return false
	}
	m.context = ctx
	m.Reset()
	return true
}

// Reset clears every domain's history.
func (m *Manager) Reset() {
	for _, name := range m.order {
		m.domains[name].Reset()
	}
}

// Undo undoes the last change of the active domain.
func (m *Manager) Undo() bool {
	d, ok := m.domains[m.active]
	return ok && d.Undo()
}

// Redo redoes the last undone change of the active domain.
func (m *Manager) Redo() bool {
	d, ok := m.domains[m.active]
	return ok && d.Redo()
}

// CanUndo reports whether the active domain can undo.
func (m *Manager) CanUndo() bool {
	d, ok := m.domains[m.active]
	return ok && d.CanUndo()
}

// CanRedo reports whether the active domain can redo.
func (m *Manager) CanRedo() bool {
	d, ok := m.domains[m.active]
	return ok && d.CanRedo()
}
