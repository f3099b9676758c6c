/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "modcanvas/internal/element"

// subtreeDelta limits delta per axis so that neither the element at from nor
// any of desc goes below 0. The subtree stays rigid: every member receives the
// same delta.
func (s *Scene) subtreeDelta(from element.Point, desc []string, delta element.Point) element.Point {
	lo := from
	for _, d := range desc {
		p := s.elems[s.index[d]].Position
		lo.X = min(lo.X, p.X)
		lo.Y = min(lo.Y, p.Y)
	}
	return element.Point{X: max(delta.X, -max(lo.X, 0)), Y: max(delta.Y, -max(lo.Y, 0))}
}

// cascadeMove adds delta to every id in desc.
func (s *Scene) cascadeMove(desc []string, delta element.Point) {
	for _, d := range desc {
		i := s.index[d]
		e := s.elems[i]
		e.Position = element.ClampPosition(e.Position.Add(delta))
		s.set(i, e)
	}
}
