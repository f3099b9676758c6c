/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"errors"
	"testing"

	"modcanvas/internal/element"
	applog "modcanvas/internal/log"
	"modcanvas/internal/scene"
)

func testScene(t *testing.T, elems ...element.Element) *scene.Scene {
	t.Helper()
	s := scene.New(scene.WithLogger(applog.Discard()))
	s.Load(elems)
	return s
}

func box(id string, kind element.Kind, x, y float64, z int, children ...string) element.Element {
	return element.Element{ID: id, Kind: kind, Position: element.Point{X: x, Y: y},
		Size: element.Size{Width: 100, Height: 50}, ZIndex: z,
		Properties: element.Properties{Children: children}}
}

func quiet() Option { return WithLogger(applog.Discard()) }

func position(t *testing.T, s *scene.Scene, id string) element.Point {
	t.Helper()
	e, ok := s.Get(id)
	if !ok {
		t.Fatalf("missing %s", id)
	}
	return e.Position
}

func TestMoveDeadZoneLatches(t *testing.T) {
	sc := testScene(t, box("a", element.KindButton, 100, 100, 1))
	surf := NewSurface()
	var updates int
	sc.Observe(func(c scene.Change) {
		if c.Op == scene.OpUpdate {
			updates++
		}
	})
	m, err := StartMove(surf, sc, "a", At(10, 10), quiet())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	surf.Move(At(12, 13))
	if updates != 0 || position(t, sc, "a") != (element.Point{X: 100, Y: 100}) {
		t.Fatalf("moved inside dead-zone")
	}
	surf.Move(At(14, 10))
	if !m.Latched() || position(t, sc, "a") != (element.Point{X: 104, Y: 100}) {
		t.Fatalf("exceeding tick not applied: %+v", position(t, sc, "a"))
	}
	surf.Move(At(11, 11))
	if position(t, sc, "a") != (element.Point{X: 101, Y: 101}) {
		t.Fatalf("latched tick back inside dead-zone not applied")
	}
	surf.Up(At(11, 11))
	if m.State() != Idle || surf.Busy() {
		t.Fatalf("release did not tear down")
	}
	if updates != 2 {
		t.Fatalf("updates = %d", updates)
	}
}

func TestMoveClampsAndCascades(t *testing.T) {
	sc := testScene(t,
		box("p", element.KindContainer, 20, 20, 1, "c"),
		box("c", element.KindButton, 40, 40, 2),
	)
	surf := NewSurface()
	if _, err := StartMove(surf, sc, "p", At(0, 0), quiet()); err != nil {
		t.Fatalf("start: %v", err)
	}
	surf.Move(At(-50, 10))
	surf.Up(At(-50, 10))
	if got := position(t, sc, "p"); got != (element.Point{X: 0, Y: 30}) {
		t.Fatalf("parent at %+v", got)
	}
	if got := position(t, sc, "c"); got != (element.Point{X: 20, Y: 50}) {
		t.Fatalf("child at %+v", got)
	}
}

func TestMoveOutAndBackKeepsChildOffset(t *testing.T) {
	sc := testScene(t,
		box("p", element.KindContainer, 100, 100, 1, "c"),
		box("c", element.KindButton, 5, 100, 2),
	)
	surf := NewSurface()
	if _, err := StartMove(surf, sc, "p", At(0, 0), quiet()); err != nil {
		t.Fatalf("start: %v", err)
	}
	surf.Move(At(-10, 0))
	if got := position(t, sc, "c"); got != (element.Point{X: 0, Y: 100}) {
		t.Fatalf("child at edge: %+v", got)
	}
	if got := position(t, sc, "p"); got != (element.Point{X: 95, Y: 100}) {
		t.Fatalf("parent at edge: %+v", got)
	}
	surf.Move(At(0, 0))
	surf.Up(At(0, 0))
	if got := position(t, sc, "p"); got != (element.Point{X: 100, Y: 100}) {
		t.Fatalf("parent at %+v", got)
	}
	if got := position(t, sc, "c"); got != (element.Point{X: 5, Y: 100}) {
		t.Fatalf("child at %+v", got)
	}
}

func TestResizeSessionCommitsEachTick(t *testing.T) {
	sc := testScene(t, box("a", element.KindButton, 100, 100, 1))
	surf := NewSurface()
	if _, err := StartResize(surf, sc, "a", HandleNW, At(100, 100), quiet()); err != nil {
		t.Fatalf("start: %v", err)
	}
	surf.Move(At(90, 95))
	e, _ := sc.Get("a")
	if e.Position != (element.Point{X: 90, Y: 95}) || e.Size != (element.Size{Width: 110, Height: 55}) {
		t.Fatalf("first tick: %+v %+v", e.Position, e.Size)
	}
	surf.Move(At(300, 300))
	e, _ = sc.Get("a")
	if e.Position != (element.Point{X: 150, Y: 120}) || e.Size != (element.Size{Width: 50, Height: 30}) {
		t.Fatalf("floored tick: %+v %+v", e.Position, e.Size)
	}
	surf.Up(At(300, 300))
}

func TestSurfaceSingleSession(t *testing.T) {
	sc := testScene(t, box("a", element.KindButton, 0, 0, 1), box("b", element.KindButton, 0, 0, 2))
	surf := NewSurface()
	m, err := StartMove(surf, sc, "a", At(0, 0), quiet())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := StartResize(surf, sc, "b", HandleSE, At(0, 0), quiet()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	m.Cancel()
	if surf.Busy() || m.State() != Idle {
		t.Fatalf("cancel did not detach")
	}
	surf.Move(At(50, 50))
	if position(t, sc, "a") != (element.Point{}) {
		t.Fatalf("cancelled session still received moves")
	}
	if _, err := StartMove(surf, sc, "ghost", At(0, 0), quiet()); !errors.Is(err, ErrUnknownElement) {
		t.Fatalf("expected ErrUnknownElement, got %v", err)
	}
	if surf.Busy() {
		t.Fatalf("failed start left a subscription")
	}
}

func TestSubscriptionCancelIdempotent(t *testing.T) {
	surf := NewSurface()
	sub, err := surf.Subscribe(Handlers{})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub.Cancel()
	sub.Cancel()
	other, err := surf.Subscribe(Handlers{})
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	sub.Cancel()
	if !surf.Busy() {
		t.Fatalf("stale cancel detached a newer subscription")
	}
	other.Cancel()
	surf.Up(At(0, 0))
}

func TestModifiers(t *testing.T) {
	m := ModShift | ModAlt
	if !m.Has(ModShift) || m.Has(ModCtrl) || !m.Has(ModShift|ModAlt) {
		t.Fatalf("modifier bits wrong: %b", m)
	}
}
