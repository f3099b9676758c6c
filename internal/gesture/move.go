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

	"modcanvas/internal/element"
	"modcanvas/internal/scene"
)

// MoveSession drags one element. Updates start once the pointer leaves the
// dead-zone; from then on every tick commits, including ones back inside it.
type MoveSession struct {
	scene     *scene.Scene
	id        string
	start     PointerEvent
	origin    element.Point
	threshold float64
	latched   bool
	state     State
	sub       *Subscription
	log       *slog.Logger
}

// StartMove begins a move of id at pointer-down ev.
func StartMove(surf *Surface, sc *scene.Scene, id string, ev PointerEvent, opts ...Option) (*MoveSession, error) {
	e, ok := sc.Get(id)
	if !ok {
		return nil, ErrUnknownElement
	}
	o := buildOptions(opts)
	m := &MoveSession{scene: sc, id: id, start: ev, origin: e.Position, threshold: o.threshold,
		log: o.log.With("session", "move", "id", id)}
	sub, err := surf.Subscribe(Handlers{Move: m.move, Up: m.up})
	if err != nil {
		return nil, err
	}
	m.sub = sub
	m.state = Active
	m.log.Debug("session started", "x", ev.X, "y", ev.Y)
	return m, nil
}

func (m *MoveSession) State() State { return m.state }

// Latched reports whether the dead-zone has been exceeded.
func (m *MoveSession) Latched() bool { return m.latched }

func (m *MoveSession) move(ev PointerEvent) {
	if m.state != Active {
		return
	}
	dx, dy := ev.X-m.start.X, ev.Y-m.start.Y
	if !m.latched {
		if !PastDeadZone(dx, dy, m.threshold) {
			return
		}
		m.latched = true
	}
	e, ok := m.scene.Get(m.id)
	if !ok {
		return
	}
	e.Position = MoveTo(m.origin, dx, dy)
	m.scene.Update(e)
}

func (m *MoveSession) up(PointerEvent) {
	if m.state != Active {
		return
	}
	m.state = Committing
	m.sub.Cancel()
	m.state = Idle
	m.log.Debug("session ended", "moved", m.latched)
}

func (m *MoveSession) Cancel() {
	m.sub.Cancel()
	m.state = Idle
}
