/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview rasterizes the flat render list of a scene to an image.
// Hierarchy plays no part: elements paint in ascending zIndex.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"modcanvas/internal/element"
	"modcanvas/internal/vector"
)

// Options controls rendering. Zero values pick the defaults.
type Options struct {
	// Zoom in percent; 100 renders one pixel per canvas unit.
	Zoom int
	// Margin in canvas units added right and below the content.
	Margin     int
	Background vector.Color
	// ContainerStroke outlines container elements.
	ContainerStroke vector.Color
	// Selected gets a highlight outline when non-empty.
	Selected       string
	SelectedStroke vector.Color
	// NoLabels skips drawing element text.
	NoLabels bool
}

func (o Options) withDefaults() Options {
	if o.Zoom <= 0 {
		o.Zoom = 100
	}
	if o.Margin <= 0 {
		o.Margin = 20
	}
	if o.Background == (vector.Color{}) {
		o.Background = vector.Color{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	}
	if o.ContainerStroke == (vector.Color{}) {
		o.ContainerStroke = vector.Color{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
	}
	if o.SelectedStroke == (vector.Color{}) {
		o.SelectedStroke = vector.ParseHexOr(element.DefaultBackground, vector.White)
	}
	return o
}

// Render paints the visible elements. Hidden elements are skipped and the
// rest paint in ascending zIndex, ties in slice order. The canvas extends
// from the origin to the furthest element edge plus the margin.
func Render(elems []element.Element, opt Options) *image.RGBA {
	opt = opt.withDefaults()
	vis := make([]element.Element, 0, len(elems))
	for _, e := range elems {
		if e.Visible() {
			vis = append(vis, e)
		}
	}
	sort.SliceStable(vis, func(i, j int) bool { return vis[i].ZIndex < vis[j].ZIndex })

	w, h := 1, 1
	for _, e := range vis {
		w = max(w, int(math.Ceil(e.Position.X+e.Size.Width)))
		h = max(h, int(math.Ceil(e.Position.Y+e.Size.Height)))
	}
	w += opt.Margin
	h += opt.Margin

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opt.Background.RGBA()}, image.Point{}, draw.Src)

	for _, e := range vis {
		paintElement(img, e, opt)
	}
	if opt.Zoom == 100 {
		return img
	}
	s := float64(opt.Zoom) / 100
	dst := image.NewRGBA(image.Rect(0, 0, max(1, int(math.Round(float64(w)*s))), max(1, int(math.Round(float64(h)*s)))))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

func paintElement(img *image.RGBA, e element.Element, opt Options) {
	r := vector.R(e.Position.X, e.Position.Y, e.Size.Width, e.Size.Height)
	n := vector.NewRoundedRect(r, e.Properties.Radius(),
		vector.Solid(vector.ParseHexOr(e.Properties.Background(), vector.Black)), vector.Stroke{})
	if e.Kind == element.KindContainer {
		n.SetStroke(vector.Outline(opt.ContainerStroke, 1))
	}
	if e.ID != "" && e.ID == opt.Selected {
		n.SetStroke(vector.Outline(opt.SelectedStroke, 2))
	}
	fillNode(img, n)
	if st := n.Stroke(); st.Enabled {
		x0, y0 := int(math.Floor(r.X)), int(math.Floor(r.Y))
		x1, y1 := int(math.Ceil(r.X+r.W))-1, int(math.Ceil(r.Y+r.H))-1
		for i := 0; i < max(1, int(st.Width)); i++ {
			strokeRect(img, x0+i, y0+i, x1-i, y1-i, st.Color.RGBA())
		}
	}
	if !opt.NoLabels && e.Properties.Text != "" {
		drawLabel(img, r, e.Properties.Text, vector.ParseHexOr(e.Properties.Foreground(), vector.White))
	}
}

// fillNode samples pixel centers inside the node bounds against its outline.
func fillNode(img *image.RGBA, n vector.Node) {
	f := n.Fill()
	if !f.Enabled {
		return
	}
	c := f.Color.RGBA()
	b := n.Bounds()
	clip := img.Bounds()
	x0, y0 := max(clip.Min.X, int(math.Floor(b.X))), max(clip.Min.Y, int(math.Floor(b.Y)))
	x1, y1 := min(clip.Max.X, int(math.Ceil(b.X+b.W))), min(clip.Max.Y, int(math.Ceil(b.Y+b.H)))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if n.Hit(vector.Pt{X: float64(x) + 0.5, Y: float64(y) + 0.5}) {
				blend(img, x, y, c)
			}
		}
	}
}

func blend(img *image.RGBA, x, y int, c color.RGBA) {
	if c.A == 255 {
		img.SetRGBA(x, y, c)
		return
	}
	dst := img.RGBAAt(x, y)
	a := uint32(c.A)
	mix := func(s, d uint8) uint8 { return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255) }
	img.SetRGBA(x, y, color.RGBA{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: 255})
}

// drawLabel centers one line of text in r, clipped to r.
func drawLabel(img *image.RGBA, r vector.Rect, text string, col vector.Color) {
	face := basicfont.Face7x13
	clip := image.Rect(int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H)).Intersect(img.Bounds())
	if clip.Empty() {
		return
	}
	sub, ok := img.SubImage(clip).(*image.RGBA)
	if !ok {
		return
	}
	d := &font.Drawer{Dst: sub, Src: image.NewUniform(col.RGBA()), Face: face}
	adv := d.MeasureString(text).Round()
	m := face.Metrics()
	x := int(r.X + (r.W-float64(adv))/2)
	y := int(r.Y+(r.H-float64(m.Height.Round()))/2) + m.Ascent.Round()
	d.Dot = fixed.P(max(x, clip.Min.X), y)
	d.DrawString(text)
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 || y1 < y0 {
		return
	}
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}
