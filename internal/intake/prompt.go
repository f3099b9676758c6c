/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package intake

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"modcanvas/internal/element"
)

// keywordKinds is checked in order; the first keyword found in the prompt wins.
var keywordKinds = []element.Kind{
	element.KindButton,
	element.KindContainer,
	element.KindCard,
	element.KindInput,
	element.KindText,
}

// ShouldCreate reports whether a prompt asks for a new element: always in
// the create stage, otherwise when it mentions create, button or container.
func ShouldCreate(prompt string, stage element.Stage) bool {
	if stage == element.StageCreate {
		return true
	}
	p := strings.ToLower(prompt)
	return strings.Contains(p, "create") || strings.Contains(p, "button") || strings.Contains(p, "container")
}

// InferKind picks the element kind named in the prompt, defaulting to button.
func InferKind(prompt string) element.Kind {
	p := strings.ToLower(prompt)
	for _, k := range keywordKinds {
		if strings.Contains(p, string(k)) {
			return k
		}
	}
	return element.KindButton
}

// DefaultSize is the creation size per kind.
func DefaultSize(k element.Kind) element.Size {
	switch k {
	case element.KindContainer:
		return element.Size{Width: 300, Height: 200}
	case element.KindCard:
		return element.Size{Width: 250, Height: 150}
	}
	return element.Size{Width: 120, Height: 40}
}

func defaultText(k element.Kind, prompt string) string {
	switch k {
	case element.KindButton:
		return "Button"
	case element.KindText:
		return "Text"
	}
	if len(prompt) > 30 {
		return "Element"
	}
	return prompt
}

// FromPrompt builds a new element for the prompt. count is the number of
// elements already on the canvas; the new one stacks on top at count+1. rnd
// supplies the placement in [50,350)x[50,250); nil uses the global source.
func FromPrompt(prompt string, stage element.Stage, count int, rnd *rand.Rand) element.Element {
	k := InferKind(prompt)
	float := rand.Float64
	if rnd != nil {
		float = rnd.Float64
	}
	e := element.Element{
		ID:       uuid.NewString(),
		Kind:     k,
		Position: element.Point{X: float()*300 + 50, Y: float()*200 + 50},
		Size:     DefaultSize(k),
		Properties: element.Properties{
			Text:            defaultText(k, prompt),
			BackgroundColor: element.DefaultBackground,
			TextColor:       element.DefaultTextColor,
			BorderRadius:    element.DefaultBorderRadius,
			Padding:         element.DefaultPadding,
			FontSize:        element.DefaultFontSize,
			FontWeight:      element.WeightNormal,
		},
		Stage:  stage,
		ZIndex: count + 1,
	}
	return e.Normalize()
}
