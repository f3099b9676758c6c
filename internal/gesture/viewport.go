/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"modcanvas/internal/element"
	"modcanvas/internal/vector"
)

// ZoomLimits bounds the viewport zoom in percent.
type ZoomLimits struct {
	Min, Max, Step, Default int
}

// DefaultZoom is 25..200% in steps of 10, starting at 100.
var DefaultZoom = ZoomLimits{Min: 25, Max: 200, Step: 10, Default: 100}

func (z ZoomLimits) sane() ZoomLimits {
	if z.Min <= 0 || z.Max < z.Min {
		z.Min, z.Max = DefaultZoom.Min, DefaultZoom.Max
	}
	if z.Step <= 0 {
		z.Step = DefaultZoom.Step
	}
	if z.Default < z.Min || z.Default > z.Max {
		z.Default = min(max(DefaultZoom.Default, z.Min), z.Max)
	}
	return z
}

// Viewport maps canvas coordinates to the screen at a zoom percentage.
type Viewport struct {
	limits ZoomLimits
	zoom   int
	origin vector.Pt
}

func NewViewport(l ZoomLimits) *Viewport {
	l = l.sane()
	return &Viewport{limits: l, zoom: l.Default}
}

// Zoom returns the current percentage.
func (v *Viewport) Zoom() int { return v.zoom }

func (v *Viewport) ZoomIn() int  { return v.SetZoom(v.zoom + v.limits.Step) }
func (v *Viewport) ZoomOut() int { return v.SetZoom(v.zoom - v.limits.Step) }
func (v *Viewport) Reset() int   { return v.SetZoom(v.limits.Default) }

// SetZoom clamps pct into the limits and returns the applied value.
func (v *Viewport) SetZoom(pct int) int {
	v.zoom = min(max(pct, v.limits.Min), v.limits.Max)
	return v.zoom
}

// SetOrigin sets the screen position of the canvas origin.
func (v *Viewport) SetOrigin(p vector.Pt) { v.origin = p }

// Transform maps canvas to screen coordinates.
func (v *Viewport) Transform() vector.Affine2D {
	s := float64(v.zoom) / 100
	return vector.Translate(v.origin.X, v.origin.Y).Mul(vector.Scale(s, s))
}

func (v *Viewport) CanvasToScreen(p element.Point) vector.Pt {
	return v.Transform().Apply(vector.Pt{X: p.X, Y: p.Y})
}

func (v *Viewport) ScreenToCanvas(p vector.Pt) element.Point {
	q := v.Transform().Invert().Apply(p)
	return element.Point{X: q.X, Y: q.Y}
}

// ToCanvas converts a screen-space pointer event to canvas space, keeping
// the modifiers.
func (v *Viewport) ToCanvas(ev PointerEvent) PointerEvent {
	c := v.ScreenToCanvas(ev.Pt())
	return PointerEvent{X: c.X, Y: c.Y, Mods: ev.Mods}
}
