/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modcanvas/internal/config"
	"modcanvas/internal/element"
	"modcanvas/internal/intake"
	"modcanvas/internal/journal"
	"modcanvas/internal/scene"
)

const formScene = `{"elements":[
 {"id":"form","type":"container","position":{"x":0,"y":0},"size":{"width":300,"height":200},"properties":{"children":["name"]},"zIndex":2},
 {"id":"name","type":"input","position":{"x":10,"y":10},"size":{"width":120,"height":40},"properties":{"text":"Name"},"zIndex":1}
]}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(&out)
	c.loadConfig = func() (config.AppConfig, error) { return config.Defaults(), nil }
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func readElements(t *testing.T, path string) map[string]element.Element {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	elems, err := intake.DecodeScene(data)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	m := make(map[string]element.Element, len(elems))
	for _, e := range elems {
		m[e.ID] = e
	}
	return m
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil || !strings.HasPrefix(out, "modcanvas ") {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", formScene)
	bad := writeFile(t, dir, "bad.json", `[{"id":"x","type":"slider","position":{"x":0,"y":0},"size":{"width":1,"height":1}}]`)

	out, err := execute(t, "validate", good)
	if err != nil || !strings.Contains(out, "2 element(s)") {
		t.Fatalf("good: out=%q err=%v", out, err)
	}
	out, err = execute(t, "validate", good, bad)
	if !errors.Is(err, errInvalidScenes) {
		t.Fatalf("bad: err=%v", err)
	}
	if !strings.Contains(out, "elements.0.type") {
		t.Fatalf("field error not reported: %q", out)
	}
}

func TestLayersExpandAll(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scene.json", formScene)
	out, err := execute(t, "layers", "--all", path)
	if err != nil {
		t.Fatalf("layers: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.Contains(lines[0], "form") || !strings.Contains(lines[0], "(1)") {
		t.Fatalf("parent row = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "    ") || !strings.Contains(lines[1], "Name") {
		t.Fatalf("child row = %q", lines[1])
	}

	out, _ = execute(t, "layers", path)
	if strings.Contains(out, "Name") {
		t.Fatalf("collapsed tree shows child: %q", out)
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scene.json", formScene)
	out := filepath.Join(dir, "out.json")
	if _, err := execute(t, "create", path, "create a card for pricing", "--seed", "7", "-o", out); err != nil {
		t.Fatalf("create: %v", err)
	}
	elems := readElements(t, out)
	if len(elems) != 3 {
		t.Fatalf("elements = %d", len(elems))
	}
	var card element.Element
	for _, e := range elems {
		if e.Kind == element.KindCard {
			card = e
		}
	}
	if card.ZIndex != 3 || card.Size != (element.Size{Width: 250, Height: 150}) {
		t.Fatalf("card = %+v", card)
	}
}

func TestCreateIgnoresChatPrompt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scene.json", formScene)
	out, err := execute(t, "create", path, "make it bluer")
	if err != nil || !strings.Contains(out, "scene unchanged") {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if got := readElements(t, path); len(got) != 2 {
		t.Fatalf("elements = %d", len(got))
	}
}

func TestCreateRejectsUnknownStage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scene.json", formScene)
	if _, err := execute(t, "create", path, "button", "--stage", "ship"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scene.json", formScene)
	png := filepath.Join(dir, "shots", "p.png")
	out, err := execute(t, "preview", path, "-o", png, "--zoom", "50")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "160x110 at 50%") {
		t.Fatalf("out = %q", out)
	}
	if _, err := os.Stat(png); err != nil {
		t.Fatalf("png missing: %v", err)
	}
}

func TestReplayWritesSceneJournalAndPreview(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scene.json", formScene)
	script := writeFile(t, dir, "tidy.yaml", `
name: tidy
scene: scene.json
steps:
  - op: move
    id: form
    path: [[5, 5], [15, 20], [25, 35]]
  - op: zoom
    value: "50"
`)
	outPath := filepath.Join(dir, "out.json")
	db := filepath.Join(dir, "journal.db")
	png := filepath.Join(dir, "final.png")
	out, err := execute(t, "replay", script, "-o", outPath, "--journal", db, "--preview", png)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out, "tidy: 2 step(s), 2 element(s)") {
		t.Fatalf("out = %q", out)
	}
	elems := readElements(t, outPath)
	if p := elems["form"].Position; p != (element.Point{X: 20, Y: 30}) {
		t.Fatalf("form at %+v", p)
	}
	if p := elems["name"].Position; p != (element.Point{X: 30, Y: 40}) {
		t.Fatalf("name at %+v", p)
	}
	if _, err := os.Stat(png); err != nil {
		t.Fatalf("preview missing: %v", err)
	}

	j, err := journal.Open(context.Background(), db, journal.Options{})
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer func() { _ = j.Close() }()
	entries, err := j.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Op != scene.OpUpdate || entries[0].ElementID != "form" {
		t.Fatalf("entries = %+v", entries)
	}
	if len(entries[0].Affected) != 1 || entries[0].Affected[0] != "name" {
		t.Fatalf("affected = %v", entries[0].Affected)
	}

	out, err = execute(t, "journal", db)
	if err != nil || !strings.Contains(out, "form") || !strings.Contains(out, "cascaded name") {
		t.Fatalf("journal cmd: out=%q err=%v", out, err)
	}
}

func TestReplayReportsFailingStep(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "bad.yaml", "steps:\n  - op: resize\n    id: ghost\n    handle: se\n    path: [[0, 0]]\n")
	_, err := execute(t, "replay", script)
	if err == nil || !strings.Contains(err.Error(), "step 1 (resize)") {
		t.Fatalf("err = %v", err)
	}
}

func TestSetupFallsBackOnBrokenConfig(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)
	c.loadConfig = func() (config.AppConfig, error) {
		return config.AppConfig{}, &config.FileError{Path: "x.yaml", Err: errors.New("bad yaml")}
	}
	root := c.RootCommand()
	var errOut bytes.Buffer
	root.SetErr(&errOut)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(errOut.String(), "ignoring config") {
		t.Fatalf("stderr = %q", errOut.String())
	}
	if c.cfg.Canvas.DragThreshold != config.Defaults().Canvas.DragThreshold {
		t.Fatalf("cfg = %+v", c.cfg)
	}
}

func TestStages(t *testing.T) {
	out, err := execute(t, "stages")
	if err != nil {
		t.Fatalf("stages: %v", err)
	}
	if n := strings.Count(out, "\n"); n != len(element.Stages()) {
		t.Fatalf("lines = %d", n)
	}
	if !strings.Contains(out, "CALIBRATE") {
		t.Fatalf("out = %q", out)
	}
}
