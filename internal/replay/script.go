/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package replay runs YAML gesture scripts against a scene through the same
// sessions an interactive view would use.
package replay

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Op is a script step kind.
type Op string

const (
	OpCreate        Op = "create"
	OpSelect        Op = "select"
	OpMove          Op = "move"
	OpResize        Op = "resize"
	OpLayerDrag     Op = "layer-drag"
	OpReorder       Op = "reorder"
	OpNest          Op = "nest"
	OpUnnest        Op = "unnest"
	OpDelete        Op = "delete"
	OpToggleVisible Op = "toggle-visible"
	OpEdit          Op = "edit"
	OpZoom          Op = "zoom"
	OpExpand        Op = "expand"
	OpCollapse      Op = "collapse"
)

var knownOps = map[Op]bool{
	OpCreate: true, OpSelect: true, OpMove: true, OpResize: true, OpLayerDrag: true,
	OpReorder: true, OpNest: true, OpUnnest: true, OpDelete: true, OpToggleVisible: true,
	OpEdit: true, OpZoom: true, OpExpand: true, OpCollapse: true,
}

// Point is an [x, y] pair.
type Point [2]float64

// Step is one scripted action. Which fields matter depends on Op.
type Step struct {
	Op     Op      `yaml:"op"`
	ID     string  `yaml:"id,omitempty"`
	Target string  `yaml:"target,omitempty"`
	Handle string  `yaml:"handle,omitempty"`
	Path   []Point `yaml:"path,omitempty"`
	Shift  bool    `yaml:"shift,omitempty"`
	Cancel bool    `yaml:"cancel,omitempty"`
	Prompt string  `yaml:"prompt,omitempty"`
	Stage  string  `yaml:"stage,omitempty"`
	At     *Point  `yaml:"at,omitempty"`
	Field  string  `yaml:"field,omitempty"`
	Value  string  `yaml:"value,omitempty"`
}

// Script is a named list of steps, optionally seeded from a scene file.
type Script struct {
	Name  string `yaml:"name"`
	Scene string `yaml:"scene,omitempty"`
	Seed  uint64 `yaml:"seed,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Parse decodes and checks a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate reports the first malformed step.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	if !knownOps[st.Op] {
		return fmt.Errorf("unknown op %q", st.Op)
	}
	need := func(cond bool, what string) error {
		if !cond {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
	switch st.Op {
	case OpCreate:
		return need(strings.TrimSpace(st.Prompt) != "", "prompt")
	case OpMove:
		return need(len(st.Path) >= 1, "path")
	case OpResize:
		if err := need(st.ID != "", "id"); err != nil {
			return err
		}
		return need(len(st.Path) >= 1, "path")
	case OpLayerDrag:
		if err := need(st.ID != "", "id"); err != nil {
			return err
		}
		return need(st.Target != "" || len(st.Path) >= 1, "target or path")
	case OpReorder, OpNest, OpUnnest:
		if err := need(st.ID != "", "id"); err != nil {
			return err
		}
		return need(st.Target != "", "target")
	case OpEdit:
		if err := need(st.ID != "", "id"); err != nil {
			return err
		}
		return need(st.Field != "", "field")
	case OpZoom:
		return need(st.Value != "", "value")
	case OpSelect:
		return nil
	}
	return need(st.ID != "", "id")
}
