/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"testing"

	"modcanvas/internal/element"
)

func family(t *testing.T) *Scene {
	return newScene(t,
		el("P", element.KindContainer, 100, 100, 1, "C1", "C2"),
		el("C1", element.KindButton, 110, 110, 2),
		el("C2", element.KindContainer, 120, 150, 3, "C3"),
		el("C3", element.KindButton, 130, 160, 4),
		el("X", element.KindButton, 10, 10, 5),
	)
}

func pos(t *testing.T, s *Scene, id string) element.Point {
	t.Helper()
	e, ok := s.Get(id)
	if !ok {
		t.Fatalf("missing %s", id)
	}
	return e.Position
}

func TestCascadeMovesAllDescendants(t *testing.T) {
	s := family(t)
	before := map[string]element.Point{}
	for _, id := range []string{"P", "C1", "C2", "C3", "X"} {
		before[id] = pos(t, s, id)
	}
	p, _ := s.Get("P")
	p.Position = element.Point{X: 130, Y: 80}
	s.Update(p)
	d := element.Point{X: 30, Y: -20}
	for _, id := range []string{"P", "C1", "C2", "C3"} {
		if got, want := pos(t, s, id), before[id].Add(d); got != want {
			t.Fatalf("%s at %+v want %+v", id, got, want)
		}
	}
	if pos(t, s, "X") != before["X"] {
		t.Fatalf("unrelated element moved")
	}
}

func TestMovingLeafAffectsNothingElse(t *testing.T) {
	s := family(t)
	c3, _ := s.Get("C3")
	c3.Position = element.Point{X: 300, Y: 300}
	s.Update(c3)
	if pos(t, s, "C2") != (element.Point{X: 120, Y: 150}) || pos(t, s, "P") != (element.Point{X: 100, Y: 100}) {
		t.Fatalf("leaf move leaked")
	}
}

func TestCascadeReportsAffected(t *testing.T) {
	s := family(t)
	var last Change
	s.Observe(func(c Change) { last = c })
	p, _ := s.Get("P")
	p.Position.X += 5
	s.Update(p)
	if last.Op != OpUpdate || len(last.Affected) != 3 {
		t.Fatalf("change = %+v", last)
	}
	p.Size.Width = 400
	s.Update(p)
	if len(last.Affected) != 0 {
		t.Fatalf("resize without move must not cascade: %+v", last)
	}
}

func TestCascadeDiamondMovesOnce(t *testing.T) {
	s := newScene(t,
		el("P", element.KindContainer, 100, 100, 1, "A", "B"),
		el("A", element.KindContainer, 100, 100, 1, "D"),
		el("B", element.KindContainer, 100, 100, 1, "D"),
		el("D", element.KindButton, 100, 100, 1),
	)
	p, _ := s.Get("P")
	p.Position = element.Point{X: 110, Y: 100}
	s.Update(p)
	if got := pos(t, s, "D"); got.X != 110 {
		t.Fatalf("diamond descendant moved %v times the delta", (got.X-100)/10)
	}
}

func TestCascadeClampsAtOrigin(t *testing.T) {
	s := newScene(t,
		el("P", element.KindContainer, 50, 50, 1, "C"),
		el("C", element.KindButton, 5, 60, 1),
	)
	p, _ := s.Get("P")
	p.Position = element.Point{X: 30, Y: 50}
	s.Update(p)
	if got := pos(t, s, "C"); got != (element.Point{X: 0, Y: 60}) {
		t.Fatalf("child at %+v", got)
	}
	if got := pos(t, s, "P"); got != (element.Point{X: 45, Y: 50}) {
		t.Fatalf("parent at %+v, want the delta cut to the child's room", got)
	}
}

func TestCascadeKeepsSubtreeRigidAcrossEdge(t *testing.T) {
	s := newScene(t,
		el("P", element.KindContainer, 100, 100, 1, "C"),
		el("C", element.KindButton, 5, 100, 1),
	)
	for _, x := range []float64{90, 60, 100} {
		p, _ := s.Get("P")
		p.Position = element.Point{X: x, Y: 100}
		s.Update(p)
		if off := pos(t, s, "P").X - pos(t, s, "C").X; off != 95 {
			t.Fatalf("after x=%v offset = %v", x, off)
		}
	}
	if got := pos(t, s, "C"); got != (element.Point{X: 5, Y: 100}) {
		t.Fatalf("child at %+v", got)
	}
}

func TestCascadeTerminatesOnCycle(t *testing.T) {
	s := newScene(t,
		el("A", element.KindContainer, 100, 100, 1, "B"),
		el("B", element.KindContainer, 200, 200, 1, "A"),
	)
	a, _ := s.Get("A")
	a.Position = element.Point{X: 110, Y: 100}
	s.Update(a)
	if pos(t, s, "A").X != 110 || pos(t, s, "B").X != 210 {
		t.Fatalf("cycle cascade wrong: A=%v B=%v", pos(t, s, "A"), pos(t, s, "B"))
	}
}

func TestDeleteClosure(t *testing.T) {
	s := family(t)
	s.Select("C3")
	removed := s.Delete("P")
	if len(removed) != 4 {
		t.Fatalf("removed = %v", removed)
	}
	for _, id := range []string{"P", "C1", "C2", "C3"} {
		if s.Has(id) {
			t.Fatalf("%s survived delete", id)
		}
	}
	if !s.Has("X") || s.Len() != 1 {
		t.Fatalf("wrong survivors: len=%d", s.Len())
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("selection into removed set not cleared")
	}
}

func TestDeleteKeepsUnrelatedSelection(t *testing.T) {
	s := family(t)
	s.Select("X")
	s.Delete("C2")
	if id, ok := s.Selected(); !ok || id != "X" {
		t.Fatalf("selection lost: %q", id)
	}
	if s.Has("C3") || !s.Has("C1") {
		t.Fatalf("subtree delete wrong")
	}
	if s.Delete("ghost") != nil {
		t.Fatalf("unknown delete should return nil")
	}
}
