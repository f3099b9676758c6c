/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"log/slog"

	applog "modcanvas/internal/log"
)

// DefaultDragThreshold is the move dead-zone in canvas units.
const DefaultDragThreshold = 3.0

// State is the lifecycle of a session.
type State uint8

const (
	Idle State = iota
	Active
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Committing:
		return "committing"
	}
	return "unknown"
}

// Session is the common surface of move, resize and layer-drag sessions.
type Session interface {
	State() State
	// Cancel detaches without committing anything still pending.
	Cancel()
}

// Option configures a session.
type Option func(*options)

type options struct {
	threshold float64
	log       *slog.Logger
	onNest    func(child, parent string)
}

func buildOptions(opts []Option) options {
	o := options{threshold: DefaultDragThreshold}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = applog.WithComponent("gesture")
	}
	return o
}

// WithThreshold overrides the move dead-zone. Negative values are treated as 0.
func WithThreshold(d float64) Option {
	return func(o *options) { o.threshold = max(0, d) }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// OnNest is called after a layer drop nested child into parent.
func OnNest(fn func(child, parent string)) Option {
	return func(o *options) { o.onNest = fn }
}
