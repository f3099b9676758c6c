/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"sort"

	"modcanvas/internal/element"
)

// TopLevel returns the elements no other element lists as a child, highest
// zIndex first.
func (s *Scene) TopLevel() []element.Element {
	referenced := make(map[string]struct{})
	for _, e := range s.elems {
		for _, c := range e.Properties.Children {
			if c != e.ID {
				referenced[c] = struct{}{}
			}
		}
	}
	out := make([]element.Element, 0, len(s.elems))
	for _, e := range s.elems {
		if _, ok := referenced[e.ID]; !ok {
			out = append(out, e.Clone())
		}
	}
	sortByZDesc(out)
	return out
}

// ChildrenOf returns the resolved direct children of id, highest zIndex
// first. Dangling, duplicate and self references are dropped.
func (s *Scene) ChildrenOf(id string) []element.Element {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []element.Element
	for _, c := range s.elems[i].Properties.Children {
		if c == id {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if j, ok := s.index[c]; ok {
			out = append(out, s.elems[j].Clone())
		}
	}
	sortByZDesc(out)
	return out
}

// DescendantsOf returns the ids reachable from id through children lists,
// depth first in list order. Each id appears once, id itself never does,
// and cyclic input terminates.
func (s *Scene) DescendantsOf(id string) []string {
	if !s.Has(id) {
		return nil
	}
	visited := map[string]struct{}{id: {}}
	var out []string
	var walk func(string)
	walk = func(pid string) {
		for _, c := range s.elems[s.index[pid]].Properties.Children {
			if _, seen := visited[c]; seen {
				continue
			}
			if !s.Has(c) {
				continue
			}
			visited[c] = struct{}{}
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// IsDescendant reports whether candidate is reachable from ancestor.
func (s *Scene) IsDescendant(ancestor, candidate string) bool {
	for _, d := range s.DescendantsOf(ancestor) {
		if d == candidate {
			return true
		}
	}
	return false
}

// ParentsOf returns the ids of every element that lists id as a child, in
// insertion order.
func (s *Scene) ParentsOf(id string) []string {
	var out []string
	for _, e := range s.elems {
		if e.ID != id && e.ContainsChild(id) {
			out = append(out, e.ID)
		}
	}
	return out
}

func sortByZDesc(es []element.Element) {
	sort.SliceStable(es, func(i, j int) bool { return es[i].ZIndex > es[j].ZIndex })
}
