/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package element defines the canvas Element, the only entity of the scene graph,
// together with the clamping rules every mutator has to honor.
package element

import (
	"math"
	"strings"
)

// Hard size floors. Every mutator clamps to these.
const (
	MinWidth  = 50.0
	MinHeight = 30.0
)

// Kind is the closed set of element variants.
type Kind string

const (
	KindButton    Kind = "button"
	KindContainer Kind = "container"
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindInput     Kind = "input"
	KindCard      Kind = "card"
)

var kinds = []Kind{KindButton, KindContainer, KindText, KindImage, KindInput, KindCard}

// Kinds lists every valid kind in declaration order.
func Kinds() []Kind { return append([]Kind(nil), kinds...) }

func (k Kind) Valid() bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}

// Title returns the kind with an upper-case first letter ("Container").
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Point is a position in global canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is a positioned, sized, stylable node. Position and size are global
// and never relative to a parent; nesting lives only in Properties.Children.
type Element struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"type"`
	Position   Point      `json:"position"`
	Size       Size       `json:"size"`
	Properties Properties `json:"properties"`
	Stage      Stage      `json:"stage"`
	ZIndex     int        `json:"zIndex"`
}

// Visible reports whether the element takes part in the flat render list.
func (e Element) Visible() bool { return !e.Properties.Hidden }

// Children returns the raw child id list. Ids may be dangling.
func (e Element) Children() []string { return e.Properties.Children }

// HasChildren reports whether the children list is non-empty.
func (e Element) HasChildren() bool { return len(e.Properties.Children) > 0 }

// ContainsChild reports whether id is listed as a direct child.
func (e Element) ContainsChild(id string) bool {
	for _, c := range e.Properties.Children {
		if c == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can edit it without aliasing the store.
func (e Element) Clone() Element {
	e.Properties = e.Properties.Clone()
	return e
}

// Normalize clamps geometry to the model invariants: position >= 0 and size at
// or above the floors. Non-finite values fall back to 0 and the floors.
func (e Element) Normalize() Element {
	e.Position = ClampPosition(e.Position)
	e.Size = ClampSize(e.Size)
	return e
}

// ClampPosition floors both axes at 0.
func ClampPosition(p Point) Point {
	return Point{X: clampMin(p.X, 0), Y: clampMin(p.Y, 0)}
}

// ClampSize applies the width and height floors.
func ClampSize(s Size) Size {
	return Size{Width: clampMin(s.Width, MinWidth), Height: clampMin(s.Height, MinHeight)}
}

func clampMin(v, floor float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < floor {
		return floor
	}
	return v
}
