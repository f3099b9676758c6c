/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package intake

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/uuid"

	"modcanvas/internal/element"
)

const validScene = `{"elements":[
 {"id":"p","type":"container","position":{"x":10,"y":20},"size":{"width":300,"height":200},
  "properties":{"children":["c"],"shadow":"lg"},"stage":"place","zIndex":2},
 {"id":"c","type":"button","position":{"x":-4,"y":30},"size":{"width":10,"height":40},"zIndex":1}
]}`

func TestDecodeSceneObjectForm(t *testing.T) {
	elems, err := DecodeScene([]byte(validScene))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(elems) != 2 || elems[0].ID != "p" || elems[0].Kind != element.KindContainer {
		t.Fatalf("elements = %+v", elems)
	}
	if elems[0].Properties.Extra["shadow"] != "lg" || elems[0].Stage != element.StagePlace {
		t.Fatalf("extra or stage lost: %+v", elems[0])
	}
	if c := elems[1]; c.Position.X != 0 || c.Size.Width != element.MinWidth {
		t.Fatalf("floors not applied: %+v", c)
	}
}

func TestDecodeSceneArrayForm(t *testing.T) {
	elems, err := DecodeScene([]byte(` [{"id":"a","type":"text","position":{"x":1,"y":2},"size":{"width":60,"height":30}}] `))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(elems) != 1 || elems[0].Kind != element.KindText {
		t.Fatalf("elements = %+v", elems)
	}
	empty, err := DecodeScene([]byte(`[]`))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty scene: %v %v", empty, err)
	}
}

func TestDecodeSceneReportsEveryViolation(t *testing.T) {
	bad := `[{"id":"","type":"slider","position":{"x":"1"},"size":{"width":1,"height":1}}]`
	_, err := DecodeScene([]byte(bad))
	var ve *ValidationError
	if !errors.As(err, &ve) || !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Errors) < 4 {
		t.Fatalf("expected id, type, x and y violations, got %v", ve.Errors)
	}
	if !strings.Contains(err.Error(), "type") {
		t.Fatalf("message lacks field: %v", err)
	}
}

func TestDecodeSceneRejectsDuplicatesAndGarbage(t *testing.T) {
	dup := `[{"id":"a","type":"text","position":{"x":1,"y":2},"size":{"width":60,"height":30}},
	         {"id":"a","type":"card","position":{"x":1,"y":2},"size":{"width":60,"height":30}}]`
	_, err := DecodeScene([]byte(dup))
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Errors) != 1 || ve.Errors[0].Field != "elements.1.id" {
		t.Fatalf("duplicate not reported: %v", err)
	}
	for _, in := range []string{"", "not json", `{"elements":{}}`} {
		if _, err := DecodeScene([]byte(in)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%q: expected ErrInvalid, got %v", in, err)
		}
	}
}

func TestEncodeSceneRoundTrip(t *testing.T) {
	elems, err := DecodeScene([]byte(validScene))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := EncodeScene(elems)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeScene(out)
	if err != nil {
		t.Fatalf("re-decode: %v\n%s", err, out)
	}
	if len(back) != 2 || back[0].Properties.Children[0] != "c" || back[0].Properties.Extra["shadow"] != "lg" {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestInferKind(t *testing.T) {
	cases := map[string]element.Kind{
		"Create a BUTTON inside a container": element.KindButton,
		"a container for the form":           element.KindContainer,
		"profile card with text":             element.KindCard,
		"email input":                        element.KindInput,
		"some text":                          element.KindText,
		"anything":                           element.KindButton,
	}
	for in, want := range cases {
		if got := InferKind(in); got != want {
			t.Fatalf("InferKind(%q) = %s want %s", in, got, want)
		}
	}
}

func TestShouldCreate(t *testing.T) {
	if !ShouldCreate("hello", element.StageCreate) || ShouldCreate("hello", element.StagePlace) {
		t.Fatalf("stage rule wrong")
	}
	if !ShouldCreate("Add a Container", element.StageAllow) {
		t.Fatalf("keyword rule wrong")
	}
}

func TestFromPrompt(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	e := FromPrompt("a card for the user", element.StageCreate, 4, rnd)
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Fatalf("id is not a uuid: %q", e.ID)
	}
	if e.Kind != element.KindCard || e.Size != (element.Size{Width: 250, Height: 150}) || e.ZIndex != 5 {
		t.Fatalf("element = %+v", e)
	}
	if e.Position.X < 50 || e.Position.X >= 350 || e.Position.Y < 50 || e.Position.Y >= 250 {
		t.Fatalf("position out of range: %+v", e.Position)
	}
	if e.Properties.Text != "a card for the user" || e.Properties.Background() != "#34d399" {
		t.Fatalf("properties = %+v", e.Properties)
	}
	long := FromPrompt("please make me a fancy container for everything", element.StageCreate, 0, rnd)
	if long.Properties.Text != "Element" || long.Size.Width != 300 {
		t.Fatalf("long prompt element = %+v", long)
	}
	if FromPrompt("button", "", 0, nil).Properties.Text != "Button" {
		t.Fatalf("button text")
	}
}
