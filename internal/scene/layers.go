/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "slices"

// Reorder moves dragged to target's slot among the top-level elements and
// rewrites their zIndex densely as len..1, highest first. It is a no-op when
// either id is not top-level.
func (s *Scene) Reorder(dragged, target string) {
	top := s.TopLevel()
	from, to := -1, -1
	for i, e := range top {
		if e.ID == dragged {
			from = i
		}
		if e.ID == target {
			to = i
		}
	}
	if from < 0 || to < 0 {
		s.log.Debug("reorder ignored", "dragged", dragged, "target", target, "reason", "not top-level")
		return
	}
	moved := top[from]
	top = slices.Delete(top, from, from+1)
	top = slices.Insert(top, to, moved)
	for i, e := range top {
		j := s.index[e.ID]
		cur := s.elems[j]
		cur.ZIndex = len(top) - i
		s.set(j, cur)
	}
	s.log.Debug("layers reordered", "dragged", dragged, "target", target, "index", to)
	s.emit(Change{Op: OpReorder, ID: dragged, Related: target})
}

// Nest appends child to parent's children list. It does nothing when either
// element is missing, when child == parent, when child is already listed, or
// when parent is a descendant of child. zIndex is not touched.
func (s *Scene) Nest(child, parent string) {
	pi, ok := s.index[parent]
	switch {
	case !ok || !s.Has(child):
		s.log.Debug("nest ignored", "child", child, "parent", parent, "reason", "unknown id")
		return
	case child == parent:
		s.log.Debug("nest ignored", "child", child, "reason", "self")
		return
	case s.elems[pi].ContainsChild(child):
		return
	case s.IsDescendant(child, parent):
		s.log.Debug("nest ignored", "child", child, "parent", parent, "reason", "cycle")
		return
	}
	p := s.elems[pi].Clone()
	p.Properties.Children = append(p.Properties.Children, child)
	s.set(pi, p)
	s.log.Debug("element nested", "child", child, "parent", parent)
	s.emit(Change{Op: OpNest, ID: child, Related: parent})
}

// Unnest removes child from parent's children list. Unknown parents are
// ignored.
func (s *Scene) Unnest(child, parent string) {
	pi, ok := s.index[parent]
	if !ok {
		s.log.Debug("unnest ignored", "parent", parent, "reason", "unknown id")
		return
	}
	p := s.elems[pi].Clone()
	before := len(p.Properties.Children)
	p.Properties.Children = slices.DeleteFunc(p.Properties.Children, func(c string) bool { return c == child })
	if len(p.Properties.Children) == before {
		return
	}
	s.set(pi, p)
	s.log.Debug("element unnested", "child", child, "parent", parent)
	s.emit(Change{Op: OpUnnest, ID: child, Related: parent})
}
