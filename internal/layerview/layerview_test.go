/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layerview

import (
	"slices"
	"strings"
	"testing"

	"modcanvas/internal/element"
	"modcanvas/internal/gesture"
	applog "modcanvas/internal/log"
	"modcanvas/internal/scene"
	"modcanvas/internal/vector"
)

func item(id string, kind element.Kind, z int, text string, children ...string) element.Element {
	return element.Element{ID: id, Kind: kind, ZIndex: z,
		Size:       element.Size{Width: 100, Height: 40},
		Properties: element.Properties{Text: text, Children: children}}
}

func sample(t *testing.T) *scene.Scene {
	t.Helper()
	sc := scene.New(scene.WithLogger(applog.Discard()))
	sc.Load([]element.Element{
		item("form", element.KindContainer, 2, "", "name", "group"),
		item("name", element.KindInput, 1, "Your full name please, thanks"),
		item("group", element.KindContainer, 3, "", "ok"),
		item("ok", element.KindButton, 1, "OK"),
		item("title", element.KindText, 5, "Welcome"),
	})
	return sc
}

func rowIDs(rows []Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestRowsCollapsedAndExpanded(t *testing.T) {
	sc := sample(t)
	p := New(DefaultLayout())
	rows := p.Rows(sc)
	if got := rowIDs(rows); !slices.Equal(got, []string{"title", "form"}) {
		t.Fatalf("collapsed rows = %v", got)
	}
	if rows[1].ChildCount != 2 || rows[1].Expanded {
		t.Fatalf("form row = %+v", rows[1])
	}
	p.Expand("form")
	p.Toggle("group")
	rows = p.Rows(sc)
	if got := rowIDs(rows); !slices.Equal(got, []string{"title", "form", "group", "ok", "name"}) {
		t.Fatalf("expanded rows = %v", got)
	}
	depths := []int{0, 0, 1, 2, 1}
	for i, r := range rows {
		if r.Depth != depths[i] {
			t.Fatalf("row %s depth %d want %d", r.ID, r.Depth, depths[i])
		}
	}
	if p.Toggle("group") || p.IsExpanded("group") {
		t.Fatalf("toggle should collapse")
	}
}

func TestRowsTerminateOnCycle(t *testing.T) {
	sc := scene.New(scene.WithLogger(applog.Discard()))
	sc.Load([]element.Element{
		item("root", element.KindContainer, 1, "", "a"),
		item("a", element.KindContainer, 1, "", "b"),
		item("b", element.KindContainer, 1, "", "a"),
	})
	p := New(DefaultLayout())
	for _, id := range []string{"root", "a", "b"} {
		p.Expand(id)
	}
	if got := rowIDs(p.Rows(sc)); !slices.Equal(got, []string{"root", "a", "b"}) {
		t.Fatalf("rows = %v", got)
	}
}

func TestLabels(t *testing.T) {
	long := item("x", element.KindText, 1, "Your full name please, thanks")
	if got := Label(long); got != "Your full name pleas..." {
		t.Fatalf("label = %q", got)
	}
	if got := Label(item("x", element.KindCard, 1, "")); got != "Card" {
		t.Fatalf("label = %q", got)
	}
	uni := item("x", element.KindText, 1, strings.Repeat("ä", 21))
	if got := Label(uni); got != strings.Repeat("ä", 20)+"..." {
		t.Fatalf("label should cut runes: %q", got)
	}
	if Icon(element.KindImage) != "■" || Icon(element.KindText) != "T" {
		t.Fatalf("icons")
	}
}

func TestRowFlags(t *testing.T) {
	sc := sample(t)
	title, _ := sc.Get("title")
	sc.Update(element.ToggleVisible(title))
	sc.Select("title")
	rows := New(DefaultLayout()).Rows(sc)
	if !rows[0].Hidden || !rows[0].Selected || rows[1].Selected {
		t.Fatalf("flags = %+v", rows[:2])
	}
}

func TestTreeResolvesRows(t *testing.T) {
	sc := sample(t)
	p := New(DefaultLayout())
	p.Expand("form")
	rows := p.Rows(sc)
	d := gesture.Dispatcher{Tree: p.Build(rows), Marker: gesture.MarkerLayerRow}
	for _, r := range rows {
		c, ok := p.RowCenter(rows, r.ID)
		if !ok {
			t.Fatalf("no center for %s", r.ID)
		}
		if id, ok := d.Resolve(c); !ok || id != r.ID {
			t.Fatalf("center of %s resolved to %q", r.ID, id)
		}
	}
	if _, ok := p.RowCenter(rows, "ghost"); ok {
		t.Fatalf("unknown row has a center")
	}
	below := float64(len(rows)+1) * p.Layout().RowHeight
	if _, ok := d.Resolve(vector.Pt{X: 10, Y: below}); ok {
		t.Fatalf("below the last row should miss")
	}
}

func TestShiftDropNestsAndExpands(t *testing.T) {
	sc := sample(t)
	p := New(DefaultLayout())
	surf := gesture.NewSurface()
	rows := p.Rows(sc)
	s, err := gesture.StartLayerDrag(surf, sc, "title", gesture.Dispatcher{Tree: p.Live(sc)},
		gesture.WithLogger(applog.Discard()), p.ExpandOnNest())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	c, _ := p.RowCenter(rows, "form")
	surf.Move(gesture.PointerEvent{X: c.X, Y: c.Y})
	surf.Up(gesture.PointerEvent{X: c.X, Y: c.Y, Mods: gesture.ModShift})
	if s.Result().Kind != gesture.DropNest || !p.IsExpanded("form") {
		t.Fatalf("result=%+v expanded=%v", s.Result(), p.IsExpanded("form"))
	}
	if got := rowIDs(p.Rows(sc)); !slices.Equal(got, []string{"form", "title", "group", "name"}) {
		t.Fatalf("rows after nest = %v", got)
	}
}
