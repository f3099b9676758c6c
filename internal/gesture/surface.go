/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture implements the pointer-driven sessions that mutate a scene:
// move, four-corner resize and layer drag. A session subscribes to the global
// input Surface at pointer-down and detaches on release.
package gesture

import (
	"errors"
	"log/slog"

	applog "modcanvas/internal/log"
	"modcanvas/internal/vector"
)

var (
	// ErrBusy is returned when a session starts while another one is active.
	ErrBusy = errors.New("gesture: surface already has an active session")
	// ErrUnknownElement is returned when a session targets a missing element.
	ErrUnknownElement = errors.New("gesture: unknown element")
)

// Modifiers is a bitmask of keyboard modifiers held during a pointer event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every bit of f is set.
func (m Modifiers) Has(f Modifiers) bool { return m&f == f }

// PointerEvent is a pointer position in surface coordinates with the
// modifiers held at that moment.
type PointerEvent struct {
	X, Y float64
	Mods Modifiers
}

func (e PointerEvent) Pt() vector.Pt { return vector.Pt{X: e.X, Y: e.Y} }

// At is a convenience constructor for an unmodified event.
func At(x, y float64) PointerEvent { return PointerEvent{X: x, Y: y} }

// Handlers are the callbacks a session registers for the lifetime of a gesture.
type Handlers struct {
	Move func(PointerEvent)
	Up   func(PointerEvent)
}

// Surface is the global input source. It routes pointer-move and pointer-up
// to at most one subscribed session.
type Surface struct {
	active *Subscription
	nextID uint32
	log    *slog.Logger
}

func NewSurface() *Surface {
	return &Surface{log: applog.WithComponent("gesture")}
}

// SetLogger replaces the surface logger; nil is ignored.
func (s *Surface) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// Subscription is the handle a session holds while attached.
type Subscription struct {
	surface *Surface
	id      uint32
	h       Handlers
}

// Subscribe attaches h. It fails with ErrBusy while another subscription is live.
func (s *Surface) Subscribe(h Handlers) (*Subscription, error) {
	if s.active != nil {
		return nil, ErrBusy
	}
	s.nextID++
	sub := &Subscription{surface: s, id: s.nextID, h: h}
	s.active = sub
	return sub, nil
}

// Cancel detaches the subscription. Calling it twice is harmless.
func (sub *Subscription) Cancel() {
	if sub == nil || sub.surface == nil {
		return
	}
	if sub.surface.active == sub {
		sub.surface.active = nil
	}
	sub.surface = nil
}

// Busy reports whether a session is attached.
func (s *Surface) Busy() bool { return s.active != nil }

// Move delivers a pointer-move to the attached session, if any.
func (s *Surface) Move(ev PointerEvent) {
	if s.active != nil && s.active.h.Move != nil {
		s.active.h.Move(ev)
	}
}

// Up delivers a pointer-up. The subscription is always detached afterwards,
// even when the handler did not cancel it.
func (s *Surface) Up(ev PointerEvent) {
	sub := s.active
	if sub == nil {
		return
	}
	if sub.h.Up != nil {
		sub.h.Up(ev)
	}
	sub.Cancel()
}
