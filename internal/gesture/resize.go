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

// ResizeSession drags one corner handle of an element. Every tick commits.
type ResizeSession struct {
	scene  *scene.Scene
	id     string
	handle Handle
	start  PointerEvent
	pos    element.Point
	size   element.Size
	state  State
	sub    *Subscription
	log    *slog.Logger
}

// StartResize begins resizing id from handle h at pointer-down ev.
func StartResize(surf *Surface, sc *scene.Scene, id string, h Handle, ev PointerEvent, opts ...Option) (*ResizeSession, error) {
	e, ok := sc.Get(id)
	if !ok {
		return nil, ErrUnknownElement
	}
	if _, ok := ParseHandle(string(h)); !ok {
		h = HandleSE
	}
	o := buildOptions(opts)
	r := &ResizeSession{scene: sc, id: id, handle: h, start: ev, pos: e.Position, size: e.Size,
		log: o.log.With("session", "resize", "id", id, "handle", string(h))}
	sub, err := surf.Subscribe(Handlers{Move: r.move, Up: r.up})
	if err != nil {
		return nil, err
	}
	r.sub = sub
	r.state = Active
	r.log.Debug("session started", "w", e.Size.Width, "h", e.Size.Height)
	return r, nil
}

func (r *ResizeSession) State() State { return r.state }

func (r *ResizeSession) move(ev PointerEvent) {
	if r.state != Active {
		return
	}
	e, ok := r.scene.Get(r.id)
	if !ok {
		return
	}
	e.Position, e.Size = Resize(r.pos, r.size, r.handle, ev.X-r.start.X, ev.Y-r.start.Y)
	r.scene.Update(e)
}

func (r *ResizeSession) up(PointerEvent) {
	if r.state != Active {
		return
	}
	r.state = Committing
	r.sub.Cancel()
	r.state = Idle
	r.log.Debug("session ended")
}

func (r *ResizeSession) Cancel() {
	r.sub.Cancel()
	r.state = Idle
}
