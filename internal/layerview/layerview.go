/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layerview flattens the scene hierarchy into the rows of a layer
// panel and builds the panel's render tree for hit-testing during layer drags.
package layerview

import (
	"strings"
	"unicode/utf8"

	"modcanvas/internal/element"
	"modcanvas/internal/gesture"
	"modcanvas/internal/scene"
	"modcanvas/internal/vector"
)

// LabelMax is the number of runes of element text shown in a row label.
const LabelMax = 20

// Row is one visible line of the layer panel.
type Row struct {
	ID         string
	Kind       element.Kind
	Depth      int
	Label      string
	Icon       string
	ChildCount int
	Expanded   bool
	Hidden     bool
	Selected   bool
}

// Layout holds the panel metrics in panel units.
type Layout struct {
	RowHeight float64
	Indent    float64
	Width     float64
	Inset     float64
}

func DefaultLayout() Layout { return Layout{RowHeight: 36, Indent: 16, Width: 256, Inset: 12} }

// Panel keeps the expand/collapse state across rebuilds.
type Panel struct {
	layout   Layout
	expanded map[string]bool
}

func New(l Layout) *Panel {
	d := DefaultLayout()
	if l.RowHeight <= 0 {
		l.RowHeight = d.RowHeight
	}
	if l.Indent < 0 {
		l.Indent = d.Indent
	}
	if l.Width <= 0 {
		l.Width = d.Width
	}
	if l.Inset < 0 {
		l.Inset = d.Inset
	}
	return &Panel{layout: l, expanded: make(map[string]bool)}
}

func (p *Panel) Layout() Layout { return p.layout }

func (p *Panel) IsExpanded(id string) bool { return p.expanded[id] }
func (p *Panel) Expand(id string)          { p.expanded[id] = true }
func (p *Panel) Collapse(id string)        { delete(p.expanded, id) }

// Toggle flips the expanded state of id and returns the new state.
func (p *Panel) Toggle(id string) bool {
	if p.expanded[id] {
		delete(p.expanded, id)
		return false
	}
	p.expanded[id] = true
	return true
}

// ExpandOnNest returns a layer-drag option that expands the parent after a
// successful nest drop so the new child is visible.
func (p *Panel) ExpandOnNest() gesture.Option {
	return gesture.OnNest(func(_, parent string) { p.Expand(parent) })
}

// Rows flattens the hierarchy: top-level elements highest zIndex first, and
// below every expanded element its resolved children, one level deeper. Each
// element is listed at most once even on cyclic input.
func (p *Panel) Rows(sc *scene.Scene) []Row {
	sel, _ := sc.Selected()
	seen := make(map[string]bool)
	var out []Row
	var add func(e element.Element, depth int)
	add = func(e element.Element, depth int) {
		if seen[e.ID] {
			return
		}
		seen[e.ID] = true
		children := sc.ChildrenOf(e.ID)
		r := Row{
			ID: e.ID, Kind: e.Kind, Depth: depth,
			Label: Label(e), Icon: Icon(e.Kind),
			ChildCount: len(children),
			Expanded:   len(children) > 0 && p.expanded[e.ID],
			Hidden:     !e.Visible(),
			Selected:   e.ID == sel,
		}
		out = append(out, r)
		if r.Expanded {
			for _, c := range children {
				add(c, depth+1)
			}
		}
	}
	for _, e := range sc.TopLevel() {
		add(e, 0)
	}
	return out
}

// Label is the element text cut to LabelMax runes plus "...", or the
// capitalized kind when there is no text.
func Label(e element.Element) string {
	t := e.Properties.Text
	if t == "" {
		return e.Kind.Title()
	}
	if utf8.RuneCountInString(t) <= LabelMax {
		return t
	}
	var b strings.Builder
	n := 0
	for _, r := range t {
		if n == LabelMax {
			break
		}
		b.WriteRune(r)
		n++
	}
	b.WriteString("...")
	return b.String()
}

// Icon is a one-glyph marker per kind.
func Icon(k element.Kind) string {
	switch k {
	case element.KindButton:
		return "🔘"
	case element.KindText:
		return "T"
	case element.KindContainer:
		return "□"
	case element.KindCard:
		return "▭"
	case element.KindInput:
		return "⎯"
	}
	return "■"
}

// Build lays rows out top to bottom and returns the render tree. Every row is
// a group tagged with the layer-row marker holding a full-width background,
// a drag handle and a label box indented by depth.
func (p *Panel) Build(rows []Row) *vector.Group {
	l := p.layout
	root := vector.NewGroup()
	for i, r := range rows {
		y := float64(i) * l.RowHeight
		fill := vector.Solid(vector.Color{R: 0x1f, G: 0x29, B: 0x37, A: 0xff})
		if r.Selected {
			fill = vector.Solid(vector.ParseHexOr(element.DefaultBackground, vector.White))
		}
		bg := vector.NewRect(vector.R(0, y, l.Width, l.RowHeight), fill, vector.Stroke{})
		x := l.Inset + float64(r.Depth)*l.Indent
		handle := vector.NewRect(vector.R(x, y+l.RowHeight/4, 12, l.RowHeight/2), vector.Fill{}, vector.Stroke{})
		label := vector.NewRect(vector.R(x+20, y+4, max(0, l.Width-x-20-l.Inset), l.RowHeight-8), vector.Fill{}, vector.Stroke{})
		row := vector.NewGroup(bg, handle, label)
		row.SetTag(vector.Tag{Marker: gesture.MarkerLayerRow, ElementID: r.ID})
		root.Add(row)
	}
	return root
}

// Tree is Build(Rows(sc)).
func (p *Panel) Tree(sc *scene.Scene) *vector.Group { return p.Build(p.Rows(sc)) }

// RowCenter returns the panel-space center of id's row, for driving a drag
// onto that row.
func (p *Panel) RowCenter(rows []Row, id string) (vector.Pt, bool) {
	for i, r := range rows {
		if r.ID == id {
			return vector.Pt{X: p.layout.Width / 2, Y: (float64(i) + 0.5) * p.layout.RowHeight}, true
		}
	}
	return vector.Pt{}, false
}

// Live returns a render tree that is rebuilt from the scene on every query,
// so a drag always hit-tests the current rows.
func (p *Panel) Live(sc *scene.Scene) gesture.RenderTree { return liveTree{p: p, sc: sc} }

type liveTree struct {
	p  *Panel
	sc *scene.Scene
}

func (t liveTree) HitAll(pt vector.Pt) []vector.Node { return t.p.Tree(t.sc).HitAll(pt) }
