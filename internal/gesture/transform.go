/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"math"
	"strings"

	"modcanvas/internal/element"
)

// Handle is a resize corner.
type Handle string

const (
	HandleNE Handle = "ne"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
	HandleNW Handle = "nw"
)

// Handles lists the corners clockwise from the top right.
func Handles() []Handle { return []Handle{HandleNE, HandleSE, HandleSW, HandleNW} }

// ParseHandle accepts a corner name in any case.
func ParseHandle(s string) (Handle, bool) {
	h := Handle(strings.ToLower(strings.TrimSpace(s)))
	switch h {
	case HandleNE, HandleSE, HandleSW, HandleNW:
		return h, true
	}
	return "", false
}

func (h Handle) west() bool  { return strings.HasSuffix(string(h), "w") }
func (h Handle) north() bool { return strings.HasPrefix(string(h), "n") }

// PastDeadZone reports whether a pointer delta leaves the dead-zone. The test
// is strict: a delta of exactly threshold stays inside.
func PastDeadZone(dx, dy, threshold float64) bool {
	return math.Max(math.Abs(dx), math.Abs(dy)) > threshold
}

// MoveTo returns origin translated by (dx, dy) and clamped at 0 per axis.
func MoveTo(origin element.Point, dx, dy float64) element.Point {
	return element.ClampPosition(origin.Add(element.Point{X: dx, Y: dy}))
}

// Resize computes the geometry for dragging handle h by (dx, dy) from the
// start geometry. East and south edges grow freely down to the floors. West
// and north keep the opposite edge anchored; once the floor engages the size
// pins to the floor and the moving edge stops at anchor - floor. The
// resulting position is clamped at 0.
func Resize(pos element.Point, size element.Size, h Handle, dx, dy float64) (element.Point, element.Size) {
	x, w := resizeAxis(pos.X, size.Width, dx, h.west(), element.MinWidth)
	y, ht := resizeAxis(pos.Y, size.Height, dy, h.north(), element.MinHeight)
	return element.ClampPosition(element.Point{X: x, Y: y}), element.Size{Width: w, Height: ht}
}

func resizeAxis(start, length, d float64, leading bool, floor float64) (float64, float64) {
	if !leading {
		return start, math.Max(floor, length+d)
	}
	if candidate := length - d; candidate >= floor {
		return start + d, candidate
	}
	return start + length - floor, floor
}
