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

// Markers tag render nodes so hits map back to elements.
const (
	MarkerLayerRow      = "layer-row"
	MarkerCanvasElement = "canvas-element"
)

// RenderTree is anything that can list the nodes under a point, topmost first.
// *vector.Group satisfies it.
type RenderTree interface {
	HitAll(p vector.Pt) []vector.Node
}

// Dispatcher resolves the element under the pointer through a render tree.
type Dispatcher struct {
	Tree   RenderTree
	Marker string
}

// Resolve returns the id of the topmost node under p carrying the marker and
// an element id.
func (d Dispatcher) Resolve(p vector.Pt) (string, bool) {
	if d.Tree == nil {
		return "", false
	}
	n, ok := vector.Find(d.Tree.HitAll(p), d.Marker)
	if !ok {
		return "", false
	}
	return n.Tag().ElementID, true
}

// CanvasTree builds the hit-test tree for the canvas: one rounded rect per
// element in the given paint order, under the viewport transform xf. Pass
// Scene.Visible() to get the flat render list.
func CanvasTree(elems []element.Element, xf vector.Affine2D) *vector.Group {
	root := vector.NewGroup()
	root.SetTransform(xf)
	for _, e := range elems {
		r := vector.R(e.Position.X, e.Position.Y, e.Size.Width, e.Size.Height)
		n := vector.NewRoundedRect(r, e.Properties.Radius(),
			vector.Solid(vector.ParseHexOr(e.Properties.Background(), vector.Black)), vector.Stroke{})
		n.SetTag(vector.Tag{Marker: MarkerCanvasElement, ElementID: e.ID})
		root.Add(n)
	}
	return root
}
