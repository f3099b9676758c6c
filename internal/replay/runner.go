/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package replay

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"

	"modcanvas/internal/element"
	"modcanvas/internal/gesture"
	"modcanvas/internal/intake"
	"modcanvas/internal/layerview"
	applog "modcanvas/internal/log"
	"modcanvas/internal/scene"
)

// Runner owns the interactive state a script drives: the input surface, the
// viewport and the layer panel.
type Runner struct {
	Scene     *scene.Scene
	Surface   *gesture.Surface
	Viewport  *gesture.Viewport
	Panel     *layerview.Panel
	Threshold float64
	Rand      *rand.Rand
	log       *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

func WithViewport(v *gesture.Viewport) Option { return func(r *Runner) { r.Viewport = v } }
func WithPanel(p *layerview.Panel) Option     { return func(r *Runner) { r.Panel = p } }
func WithThreshold(d float64) Option          { return func(r *Runner) { r.Threshold = d } }
func WithRand(rnd *rand.Rand) Option          { return func(r *Runner) { r.Rand = rnd } }
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRunner(sc *scene.Scene, opts ...Option) *Runner {
	r := &Runner{
		Scene:     sc,
		Surface:   gesture.NewSurface(),
		Threshold: gesture.DefaultDragThreshold,
		log:       applog.WithComponent("replay"),
	}
	for _, o := range opts {
		o(r)
	}
	if r.Viewport == nil {
		r.Viewport = gesture.NewViewport(gesture.DefaultZoom)
	}
	if r.Panel == nil {
		r.Panel = layerview.New(layerview.DefaultLayout())
	}
	r.Surface.SetLogger(r.log)
	return r
}

// Report summarizes a run.
type Report struct {
	Steps   int
	Created []string
	Drops   []gesture.Drop
}

// Run applies every step in order and stops at the first failing one.
func (r *Runner) Run(ctx context.Context, s *Script) (Report, error) {
	var rep Report
	if r.Rand == nil && s.Seed != 0 {
		r.Rand = rand.New(rand.NewPCG(s.Seed, s.Seed))
	}
	l := applog.WithOperation(r.log, "run").With(slog.String("script", s.Name))
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := r.step(st, &rep); err != nil {
			l.Warn("step failed", slog.Int("step", i+1), slog.String("op", string(st.Op)), slog.Any("err", err))
			return rep, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		rep.Steps++
	}
	l.Debug("script finished", slog.Int("steps", rep.Steps), slog.Int("elements", r.Scene.Len()))
	return rep, nil
}

func (r *Runner) sessionOpts() []gesture.Option {
	return []gesture.Option{gesture.WithThreshold(r.Threshold), gesture.WithLogger(r.log)}
}

func (r *Runner) step(st Step, rep *Report) error {
	sc := r.Scene
	switch st.Op {
	case OpCreate:
		e := intake.FromPrompt(st.Prompt, element.Stage(st.Stage), sc.Len(), r.Rand)
		if st.ID != "" {
			e.ID = st.ID
		}
		if st.At != nil {
			e.Position = element.Point{X: st.At[0], Y: st.At[1]}
		}
		if !sc.Add(e) {
			return fmt.Errorf("element %q already exists", e.ID)
		}
		rep.Created = append(rep.Created, e.ID)
	case OpSelect:
		sc.Select(st.ID)
	case OpMove:
		return r.move(st)
	case OpResize:
		h, ok := gesture.ParseHandle(st.Handle)
		if !ok {
			return fmt.Errorf("unknown handle %q", st.Handle)
		}
		path := r.canvasPath(st)
		s, err := gesture.StartResize(r.Surface, sc, st.ID, h, path[0], r.sessionOpts()...)
		if err != nil {
			return err
		}
		r.drive(s, path, st.Cancel)
	case OpLayerDrag:
		drop, err := r.layerDrag(st)
		if err != nil {
			return err
		}
		rep.Drops = append(rep.Drops, drop)
	case OpReorder:
		sc.Reorder(st.ID, st.Target)
	case OpNest:
		sc.Nest(st.ID, st.Target)
	case OpUnnest:
		sc.Unnest(st.ID, st.Target)
	case OpDelete:
		sc.Delete(st.ID)
	case OpToggleVisible:
		if e, ok := sc.Get(st.ID); ok {
			sc.Update(element.ToggleVisible(e))
		}
	case OpEdit:
		if e, ok := sc.Get(st.ID); ok {
			sc.Update(element.ApplyEdit(e, element.Edit{Field: element.Field(st.Field), Value: st.Value}))
		}
	case OpZoom:
		return r.zoom(st.Value)
	case OpExpand:
		r.Panel.Expand(st.ID)
	case OpCollapse:
		r.Panel.Collapse(st.ID)
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

// canvasPath maps screen-space path points through the viewport.
func (r *Runner) canvasPath(st Step) []gesture.PointerEvent {
	out := make([]gesture.PointerEvent, len(st.Path))
	for i, p := range st.Path {
		ev := gesture.PointerEvent{X: p[0], Y: p[1]}
		if st.Shift {
			ev.Mods |= gesture.ModShift
		}
		out[i] = r.Viewport.ToCanvas(ev)
	}
	return out
}

// drive feeds path[1:] as moves and releases at the last point, or cancels.
func (r *Runner) drive(s gesture.Session, path []gesture.PointerEvent, cancel bool) {
	for _, ev := range path[1:] {
		r.Surface.Move(ev)
	}
	if cancel {
		s.Cancel()
		return
	}
	r.Surface.Up(path[len(path)-1])
}

func (r *Runner) move(st Step) error {
	path := r.canvasPath(st)
	id := st.ID
	if id == "" {
		// pointer-down picks the topmost visible element under the first point
		d := gesture.Dispatcher{
			Tree:   gesture.CanvasTree(r.Scene.Visible(), r.Viewport.Transform()),
			Marker: gesture.MarkerCanvasElement,
		}
		hit, ok := d.Resolve(r.Viewport.CanvasToScreen(element.Point{X: path[0].X, Y: path[0].Y}))
		if !ok {
			return fmt.Errorf("no element under (%g, %g)", st.Path[0][0], st.Path[0][1])
		}
		id = hit
		r.Scene.Select(id)
	}
	s, err := gesture.StartMove(r.Surface, r.Scene, id, path[0], r.sessionOpts()...)
	if err != nil {
		return err
	}
	r.drive(s, path, st.Cancel)
	return nil
}

func (r *Runner) layerDrag(st Step) (gesture.Drop, error) {
	var mods gesture.Modifiers
	if st.Shift {
		mods = gesture.ModShift
	}
	var path []gesture.PointerEvent
	if len(st.Path) > 0 {
		for _, p := range st.Path {
			path = append(path, gesture.PointerEvent{X: p[0], Y: p[1], Mods: mods})
		}
	} else {
		rows := r.Panel.Rows(r.Scene)
		from, ok := r.Panel.RowCenter(rows, st.ID)
		if !ok {
			return gesture.Drop{}, fmt.Errorf("no layer row for %q", st.ID)
		}
		to, ok := r.Panel.RowCenter(rows, st.Target)
		if !ok {
			return gesture.Drop{}, fmt.Errorf("no layer row for %q", st.Target)
		}
		path = []gesture.PointerEvent{
			{X: from.X, Y: from.Y, Mods: mods},
			{X: to.X, Y: to.Y, Mods: mods},
		}
	}
	opts := append(r.sessionOpts(), r.Panel.ExpandOnNest())
	d := gesture.Dispatcher{Tree: r.Panel.Live(r.Scene), Marker: gesture.MarkerLayerRow}
	s, err := gesture.StartLayerDrag(r.Surface, r.Scene, st.ID, d, opts...)
	if err != nil {
		return gesture.Drop{}, err
	}
	r.drive(s, path, st.Cancel)
	return s.Result(), nil
}

func (r *Runner) zoom(v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "in":
		r.Viewport.ZoomIn()
	case "out":
		r.Viewport.ZoomOut()
	case "reset":
		r.Viewport.Reset()
	default:
		pct, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		if err != nil {
			return fmt.Errorf("invalid zoom %q", v)
		}
		r.Viewport.SetZoom(pct)
	}
	return nil
}
