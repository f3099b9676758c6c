/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"log/slog"
	"slices"

	"modcanvas/internal/element"
	"modcanvas/internal/scene"
)

// DropKind is what a layer drag did on release.
type DropKind uint8

const (
	DropNone DropKind = iota
	DropReorder
	DropNest
)

func (k DropKind) String() string {
	switch k {
	case DropReorder:
		return "reorder"
	case DropNest:
		return "nest"
	}
	return "none"
}

// Drop is the outcome of a finished layer drag.
type Drop struct {
	Kind   DropKind
	Target string
}

// LayerDragSession drags a row in the layer list. Each move re-resolves the
// drop candidate through the dispatcher; release with Shift over a container
// nests, a release over another top-level row reorders, anything else drops
// nothing.
type LayerDragSession struct {
	scene     *scene.Scene
	id        string
	dispatch  Dispatcher
	candidate string
	moved     bool
	drop      Drop
	onNest    func(child, parent string)
	state     State
	sub       *Subscription
	log       *slog.Logger
}

// StartLayerDrag begins dragging the layer row of id. d resolves candidates
// on every pointer-move.
func StartLayerDrag(surf *Surface, sc *scene.Scene, id string, d Dispatcher, opts ...Option) (*LayerDragSession, error) {
	if !sc.Has(id) {
		return nil, ErrUnknownElement
	}
	if d.Marker == "" {
		d.Marker = MarkerLayerRow
	}
	o := buildOptions(opts)
	s := &LayerDragSession{scene: sc, id: id, dispatch: d, onNest: o.onNest,
		log: o.log.With("session", "layer-drag", "id", id)}
	sub, err := surf.Subscribe(Handlers{Move: s.move, Up: s.up})
	if err != nil {
		return nil, err
	}
	s.sub = sub
	s.state = Active
	s.log.Debug("session started")
	return s, nil
}

func (s *LayerDragSession) State() State { return s.state }

// Candidate returns the drop target resolved on the latest move.
func (s *LayerDragSession) Candidate() (string, bool) { return s.candidate, s.candidate != "" }

// Result returns the outcome once the session has been released.
func (s *LayerDragSession) Result() Drop { return s.drop }

func (s *LayerDragSession) move(ev PointerEvent) {
	if s.state != Active {
		return
	}
	s.moved = true
	s.candidate, _ = s.dispatch.Resolve(ev.Pt())
}

func (s *LayerDragSession) up(ev PointerEvent) {
	if s.state != Active {
		return
	}
	s.state = Committing
	s.sub.Cancel()
	defer func() { s.state = Idle }()

	target := s.candidate
	if !s.moved || target == "" || target == s.id {
		s.log.Debug("drop skipped", "moved", s.moved, "candidate", target)
		return
	}
	t, ok := s.scene.Get(target)
	if ev.Mods.Has(ModShift) && ok && t.Kind == element.KindContainer {
		s.scene.Nest(s.id, target)
		if p, _ := s.scene.Get(target); p.ContainsChild(s.id) {
			s.drop = Drop{Kind: DropNest, Target: target}
			if s.onNest != nil {
				s.onNest(s.id, target)
			}
		}
	} else if topLevel(s.scene, s.id, target) {
		s.scene.Reorder(s.id, target)
		s.drop = Drop{Kind: DropReorder, Target: target}
	} else {
		s.log.Debug("drop skipped", "candidate", target, "reason", "not top-level")
		return
	}
	s.log.Debug("drop committed", "kind", s.drop.Kind.String(), "target", target)
}

// topLevel reports whether every id is in the top-level set, the only set
// Reorder acts on.
func topLevel(sc *scene.Scene, ids ...string) bool {
	top := sc.TopLevel()
	for _, id := range ids {
		if !slices.ContainsFunc(top, func(e element.Element) bool { return e.ID == id }) {
			return false
		}
	}
	return true
}

func (s *LayerDragSession) Cancel() {
	s.sub.Cancel()
	s.state = Idle
}
