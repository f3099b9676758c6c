/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Node is a render-tree item with a transform, paint, bounds and
// hit-testing. Nodes may carry a Tag so hit results can be mapped back to
// scene elements.
type Node interface {
	Bounds() Rect
	Transform() Affine2D
	SetTransform(Affine2D)
	Fill() Fill
	Stroke() Stroke
	SetFill(Fill)
	SetStroke(Stroke)
	Tag() Tag
	SetTag(Tag)
	Hit(p Pt) bool
}

// Tag marks a node with a role and the element id it stands for.
type Tag struct {
	Marker    string
	ElementID string
}

func (t Tag) IsZero() bool { return t == Tag{} }

type baseNode struct {
	xf     Affine2D
	fill   Fill
	stroke Stroke
	tag    Tag
}

func (b *baseNode) Transform() Affine2D     { return b.xf }
func (b *baseNode) SetTransform(m Affine2D) { b.xf = m }
func (b *baseNode) Fill() Fill              { return b.fill }
func (b *baseNode) Stroke() Stroke          { return b.stroke }
func (b *baseNode) SetFill(f Fill)          { b.fill = f }
func (b *baseNode) SetStroke(s Stroke)      { b.stroke = s }
func (b *baseNode) Tag() Tag                { return b.tag }
func (b *baseNode) SetTag(t Tag)            { b.tag = t }

// RectNode draws an axis-aligned rectangle before transform.
type RectNode struct {
	baseNode
	rect Rect
}

func NewRect(r Rect, f Fill, s Stroke) *RectNode {
	return &RectNode{baseNode: baseNode{xf: Identity, fill: f, stroke: s}, rect: r}
}

// Local returns the untransformed rectangle.
func (n *RectNode) Local() Rect { return n.rect }

func (n *RectNode) Bounds() Rect { return n.xf.ApplyRect(n.rect) }

func (n *RectNode) Hit(p Pt) bool {
	return n.rect.Contains(n.xf.Invert().Apply(p))
}

// RoundedRectNode uses uniform corner radii.
type RoundedRectNode struct {
	baseNode
	rect Rect
	r    float64
}

func NewRoundedRect(r Rect, radius float64, f Fill, s Stroke) *RoundedRectNode {
	radius = max(0, min(radius, r.W/2, r.H/2))
	return &RoundedRectNode{baseNode: baseNode{xf: Identity, fill: f, stroke: s}, rect: r, r: radius}
}

func (n *RoundedRectNode) Local() Rect     { return n.rect }
func (n *RoundedRectNode) Radius() float64 { return n.r }
func (n *RoundedRectNode) Bounds() Rect    { return n.xf.ApplyRect(n.rect) }

func (n *RoundedRectNode) Hit(p Pt) bool {
	return n.contains(n.xf.Invert().Apply(p))
}

// contains tests a local-space point against the rounded outline.
func (n *RoundedRectNode) contains(q Pt) bool {
	if !n.rect.Contains(q) {
		return false
	}
	if n.r == 0 {
		return true
	}
	// inside the cross formed by the two inset bands
	if (q.X >= n.rect.X+n.r && q.X <= n.rect.X+n.rect.W-n.r) ||
		(q.Y >= n.rect.Y+n.r && q.Y <= n.rect.Y+n.rect.H-n.r) {
		return true
	}
	cx := []float64{n.rect.X + n.r, n.rect.X + n.rect.W - n.r}
	cy := []float64{n.rect.Y + n.r, n.rect.Y + n.rect.H - n.r}
	r2 := n.r * n.r
	for _, x := range cx {
		for _, y := range cy {
			dx := q.X - x
			dy := q.Y - y
			if dx*dx+dy*dy <= r2 {
				return true
			}
		}
	}
	return false
}

// Group is a container for child nodes with its own transform. Children are
// stored in paint order: the last child is topmost.
type Group struct {
	baseNode
	Children []Node
}

func NewGroup(children ...Node) *Group {
	g := &Group{baseNode: baseNode{xf: Identity}}
	g.Children = append(g.Children, children...)
	return g
}

// Add appends children on top of the existing ones.
func (g *Group) Add(children ...Node) { g.Children = append(g.Children, children...) }

func (g *Group) Bounds() Rect {
	var b Rect
	for i, c := range g.Children {
		cb := g.xf.ApplyRect(c.Bounds())
		if i == 0 {
			b = cb
		} else {
			b = b.Union(cb)
		}
	}
	return b
}

func (g *Group) Hit(p Pt) bool {
	q := g.xf.Invert().Apply(p)
	for i := len(g.Children) - 1; i >= 0; i-- { // top-most first
		if g.Children[i].Hit(q) {
			return true
		}
	}
	return false
}

// HitAll returns every node under p, topmost first. Within a branch the
// innermost hit comes before its enclosing groups, so callers can look for
// the nearest tagged ancestor by scanning forward.
func (g *Group) HitAll(p Pt) []Node {
	var out []Node
	g.hitAll(p, &out)
	return out
}

func (g *Group) hitAll(p Pt, out *[]Node) bool {
	q := g.xf.Invert().Apply(p)
	hit := false
	for i := len(g.Children) - 1; i >= 0; i-- {
		c := g.Children[i]
		if sub, ok := c.(*Group); ok {
			if sub.hitAll(q, out) {
				hit = true
			}
			continue
		}
		if c.Hit(q) {
			*out = append(*out, c)
			hit = true
		}
	}
	if hit {
		*out = append(*out, g)
	}
	return hit
}

// Walk visits every leaf node in paint order with its accumulated transform.
func (g *Group) Walk(fn func(n Node, xf Affine2D)) {
	g.walk(Identity, fn)
}

func (g *Group) walk(parent Affine2D, fn func(Node, Affine2D)) {
	xf := parent.Mul(g.xf)
	for _, c := range g.Children {
		if sub, ok := c.(*Group); ok {
			sub.walk(xf, fn)
			continue
		}
		fn(c, xf.Mul(c.Transform()))
	}
}

// Find returns the first node in HitAll order whose tag carries marker and a
// non-empty element id.
func Find(nodes []Node, marker string) (Node, bool) {
	for _, n := range nodes {
		if t := n.Tag(); t.Marker == marker && t.ElementID != "" {
			return n, true
		}
	}
	return nil, false
}
