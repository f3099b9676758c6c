/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package preview

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"modcanvas/internal/element"
)

func rect(id string, x, y, w, h float64, z int, bg string) element.Element {
	return element.Element{ID: id, Kind: element.KindButton, ZIndex: z,
		Position:   element.Point{X: x, Y: y},
		Size:       element.Size{Width: w, Height: h},
		Properties: element.Properties{BackgroundColor: bg}}
}

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

func TestRenderPaintsAscendingZ(t *testing.T) {
	top := rect("top", 40, 40, 100, 60, 2, "#0000ff")
	bottom := rect("bottom", 0, 0, 100, 60, 1, "#ff0000")
	img := Render([]element.Element{top, bottom}, Options{NoLabels: true})
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Fatalf("bounds = %v", b)
	}
	if got := img.RGBAAt(50, 50); got != blue {
		t.Fatalf("overlap should show the higher zIndex, got %v", got)
	}
	if got := img.RGBAAt(20, 20); got != red {
		t.Fatalf("lower element missing, got %v", got)
	}
}

func TestRenderSkipsHiddenAndRoundsCorners(t *testing.T) {
	hidden := rect("h", 0, 0, 100, 60, 5, "#0000ff")
	hidden.Properties.Hidden = true
	base := rect("b", 0, 0, 100, 60, 1, "#ff0000")
	base.Properties.BorderRadius = 20
	img := Render([]element.Element{base, hidden}, Options{NoLabels: true})
	if got := img.RGBAAt(50, 30); got != red {
		t.Fatalf("hidden element painted: %v", got)
	}
	if got := img.RGBAAt(0, 0); got == red {
		t.Fatalf("rounded corner filled")
	}
}

func TestRenderZoomScales(t *testing.T) {
	img := Render([]element.Element{rect("a", 0, 0, 180, 80, 1, "#ff0000")}, Options{Zoom: 50, NoLabels: true})
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("zoomed bounds = %v", b)
	}
	if got := img.RGBAAt(45, 20); got != red {
		t.Fatalf("zoomed fill = %v", got)
	}
}

func TestRenderContainerOutlineAndLabel(t *testing.T) {
	c := rect("c", 10, 10, 120, 60, 1, "#000000")
	c.Kind = element.KindContainer
	c.Properties.Text = "Hi"
	c.Properties.TextColor = "#ffffff"
	opt := Options{}
	img := Render([]element.Element{c}, opt)
	if got := img.RGBAAt(10, 40); got != opt.withDefaults().ContainerStroke.RGBA() {
		t.Fatalf("container outline missing: %v", got)
	}
	white := 0
	for y := 10; y < 70; y++ {
		for x := 10; x < 130; x++ {
			if img.RGBAAt(x, y) == (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
				white++
			}
		}
	}
	if white == 0 {
		t.Fatalf("label not drawn")
	}
}

func TestRenderEmpty(t *testing.T) {
	img := Render(nil, Options{})
	if b := img.Bounds(); b.Dx() != 21 || b.Dy() != 21 {
		t.Fatalf("empty bounds = %v", b)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "scene.png")
	img := Render([]element.Element{rect("a", 0, 0, 60, 40, 1, "#ff0000")}, Options{NoLabels: true})
	if err := WritePNG(path, img); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	back, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Bounds() != img.Bounds() {
		t.Fatalf("bounds changed: %v vs %v", back.Bounds(), img.Bounds())
	}
}
