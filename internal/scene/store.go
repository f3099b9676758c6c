/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the authoritative, insertion-ordered element collection
// and derives hierarchy, cascades and layer order from it on demand.
//
// A Scene is not safe for concurrent use; callers serialize access on their
// event loop.
package scene

import (
	"log/slog"
	"sort"

	"modcanvas/internal/element"
	applog "modcanvas/internal/log"
)

// Op names the kind of mutation reported to observers.
type Op string

const (
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpSelect  Op = "select"
	OpReorder Op = "reorder"
	OpNest    Op = "nest"
	OpUnnest  Op = "unnest"
)

// Change describes one applied mutation.
type Change struct {
	Op Op
	// ID is the element the operation was addressed to.
	ID string
	// Related is the target of a reorder or the parent of a nest/unnest.
	Related string
	// Element is the record after an add or update.
	Element *element.Element
	// Affected lists further ids touched as a side effect: cascaded
	// descendants on update, the removed closure on delete.
	Affected []string
}

// Observer receives changes after they have been applied.
type Observer func(Change)

type observerEntry struct {
	id int
	fn Observer
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the logger; nil keeps the default component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(s *Scene) { s.Observe(o) }
}

// Scene is the element store.
type Scene struct {
	elems    []element.Element
	index    map[string]int
	selected string

	log       *slog.Logger
	observers []observerEntry
	nextObs   int
}

func New(opts ...Option) *Scene {
	s := &Scene{index: make(map[string]int), log: applog.WithComponent("scene")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Observe registers o and returns a function that unregisters it.
func (s *Scene) Observe(o Observer) (remove func()) {
	if o == nil {
		return func() {}
	}
	s.nextObs++
	id := s.nextObs
	s.observers = append(s.observers, observerEntry{id: id, fn: o})
	return func() {
		for i, e := range s.observers {
			if e.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Scene) emit(c Change) {
	for _, o := range s.observers {
		o.fn(c)
	}
}

// Add appends a fully formed element. Only the structural floors are
// enforced. It returns false for an empty or duplicate id.
func (s *Scene) Add(e element.Element) bool {
	if e.ID == "" {
		s.log.Debug("add ignored", "reason", "empty id")
		return false
	}
	if _, ok := s.index[e.ID]; ok {
		s.log.Debug("add ignored", "id", e.ID, "reason", "duplicate id")
		return false
	}
	e = e.Clone().Normalize()
	s.index[e.ID] = len(s.elems)
	s.elems = append(s.elems, e)
	s.log.Debug("element added", "id", e.ID, "kind", string(e.Kind), "z", e.ZIndex)
	snap := e.Clone()
	s.emit(Change{Op: OpAdd, ID: e.ID, Element: &snap})
	return true
}

// Load adds every element in order and reports how many were accepted.
func (s *Scene) Load(elems []element.Element) int {
	n := 0
	for _, e := range elems {
		if s.Add(e) {
			n++
		}
	}
	return n
}

// Len returns the number of elements.
func (s *Scene) Len() int { return len(s.elems) }

// Has reports whether id names an element.
func (s *Scene) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns a copy of the element with the given id.
func (s *Scene) Get(id string) (element.Element, bool) {
	i, ok := s.index[id]
	if !ok {
		return element.Element{}, false
	}
	return s.elems[i].Clone(), true
}

// Elements returns copies of all elements in insertion order.
func (s *Scene) Elements() []element.Element {
	out := make([]element.Element, len(s.elems))
	for i, e := range s.elems {
		out[i] = e.Clone()
	}
	return out
}

// Visible returns the flat render list: visible elements in ascending
// zIndex, ties in insertion order. Nesting plays no part.
func (s *Scene) Visible() []element.Element {
	out := make([]element.Element, 0, len(s.elems))
	for _, e := range s.elems {
		if e.Visible() {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Update replaces the full record of an existing element. Geometry is clamped
// to the floors. When the position changed and the element owns children, the
// delta cascades to every descendant. The subtree moves rigidly: on an axis
// where a descendant would cross 0, the delta is cut for the whole subtree,
// parent included. Unknown ids are ignored.
func (s *Scene) Update(e element.Element) {
	i, ok := s.index[e.ID]
	if !ok {
		s.log.Debug("update ignored", "id", e.ID, "reason", "unknown id")
		return
	}
	old := s.elems[i]
	e = e.Clone().Normalize()

	var moved []string
	if delta := e.Position.Sub(old.Position); !delta.IsZero() && e.HasChildren() {
		s.elems[i] = e
		desc := s.DescendantsOf(e.ID)
		if clamped := s.subtreeDelta(old.Position, desc, delta); clamped != delta {
			s.log.Debug("move limited by subtree", "id", e.ID, "dx", delta.X, "dy", delta.Y, "cdx", clamped.X, "cdy", clamped.Y)
			delta = clamped
			e.Position = old.Position.Add(delta)
		}
		if !delta.IsZero() {
			s.cascadeMove(desc, delta)
			moved = desc
		}
	}
	s.elems[i] = e
	s.log.Debug("element updated", "id", e.ID, "x", e.Position.X, "y", e.Position.Y,
		"w", e.Size.Width, "h", e.Size.Height, "cascaded", len(moved))
	snap := e.Clone()
	s.emit(Change{Op: OpUpdate, ID: e.ID, Element: &snap, Affected: moved})
}

// Delete removes id together with its descendant closure in one batch and
// returns the removed ids. The selection is cleared when it pointed into the
// removed set.
func (s *Scene) Delete(id string) []string {
	if !s.Has(id) {
		s.log.Debug("delete ignored", "id", id, "reason", "unknown id")
		return nil
	}
	removed := append([]string{id}, s.DescendantsOf(id)...)
	drop := make(map[string]struct{}, len(removed))
	for _, r := range removed {
		drop[r] = struct{}{}
	}
	kept := s.elems[:0]
	for _, e := range s.elems {
		if _, gone := drop[e.ID]; !gone {
			kept = append(kept, e)
		}
	}
	clear(s.elems[len(kept):])
	s.elems = kept
	s.reindex()
	if _, gone := drop[s.selected]; gone && s.selected != "" {
		s.selected = ""
	}
	s.log.Debug("elements deleted", "id", id, "count", len(removed))
	s.emit(Change{Op: OpDelete, ID: id, Affected: removed})
	return removed
}

func (s *Scene) reindex() {
	clear(s.index)
	for i, e := range s.elems {
		s.index[e.ID] = i
	}
}

// Select marks id as the single selected element. An unknown id clears the
// selection.
func (s *Scene) Select(id string) {
	if !s.Has(id) {
		id = ""
	}
	if s.selected == id {
		return
	}
	s.selected = id
	s.emit(Change{Op: OpSelect, ID: id})
}

func (s *Scene) ClearSelection() { s.Select("") }

// Selected returns the selected id, if any.
func (s *Scene) Selected() (string, bool) { return s.selected, s.selected != "" }

// set writes e back without normalizing or notifying. Callers own the index.
func (s *Scene) set(i int, e element.Element) { s.elems[i] = e }
