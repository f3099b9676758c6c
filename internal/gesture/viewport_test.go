/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"testing"

	"modcanvas/internal/element"
	"modcanvas/internal/vector"
)

func TestViewportZoomSteps(t *testing.T) {
	v := NewViewport(DefaultZoom)
	if v.Zoom() != 100 {
		t.Fatalf("default zoom %d", v.Zoom())
	}
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	if v.Zoom() != 200 {
		t.Fatalf("zoom in should stop at max, got %d", v.Zoom())
	}
	for i := 0; i < 20; i++ {
		v.ZoomOut()
	}
	if v.Zoom() != 25 {
		t.Fatalf("zoom out should stop at min, got %d", v.Zoom())
	}
	if v.Reset() != 100 {
		t.Fatalf("reset")
	}
}

func TestViewportSanitizesLimits(t *testing.T) {
	v := NewViewport(ZoomLimits{Min: 300, Max: 100, Step: 0, Default: 5})
	if v.Zoom() != 100 || v.ZoomIn() != 110 {
		t.Fatalf("bad limits not repaired: zoom=%d", v.Zoom())
	}
}

func TestViewportCoordinates(t *testing.T) {
	v := NewViewport(DefaultZoom)
	v.SetZoom(200)
	v.SetOrigin(vector.Pt{X: 10, Y: 20})
	s := v.CanvasToScreen(element.Point{X: 5, Y: 5})
	if s.X != 20 || s.Y != 30 {
		t.Fatalf("canvas->screen: %+v", s)
	}
	c := v.ScreenToCanvas(s)
	if c != (element.Point{X: 5, Y: 5}) {
		t.Fatalf("screen->canvas: %+v", c)
	}
	ev := v.ToCanvas(PointerEvent{X: 20, Y: 30, Mods: ModShift})
	if ev.X != 5 || ev.Y != 5 || !ev.Mods.Has(ModShift) {
		t.Fatalf("event conversion: %+v", ev)
	}
}

func TestCanvasTreeTopmostWins(t *testing.T) {
	hidden := box("h", element.KindButton, 0, 0, 9)
	hidden.Properties.Hidden = true
	sc := testScene(t,
		box("low", element.KindButton, 0, 0, 1),
		box("high", element.KindButton, 50, 0, 2),
		hidden,
	)
	v := NewViewport(DefaultZoom)
	v.SetZoom(50)
	d := Dispatcher{Tree: CanvasTree(sc.Visible(), v.Transform()), Marker: MarkerCanvasElement}
	if id, ok := d.Resolve(vector.Pt{X: 35, Y: 10}); !ok || id != "high" {
		t.Fatalf("overlap should resolve to the top element, got %q", id)
	}
	if id, ok := d.Resolve(vector.Pt{X: 10, Y: 10}); !ok || id != "low" {
		t.Fatalf("got %q", id)
	}
	if _, ok := d.Resolve(vector.Pt{X: 90, Y: 10}); ok {
		t.Fatalf("outside the scaled canvas should miss")
	}
}
