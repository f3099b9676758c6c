/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package element

import (
	"math"
	"strings"
	"unicode"
)

// Field names an editable attribute of an element.
type Field string

const (
	FieldX          Field = "x"
	FieldY          Field = "y"
	FieldWidth      Field = "width"
	FieldHeight     Field = "height"
	FieldText       Field = keyText
	FieldBackground Field = keyBackground
	FieldTextColor  Field = keyTextColor
	FieldRadius     Field = keyRadius
	FieldPadding    Field = keyPadding
	FieldFontSize   Field = keyFontSize
	FieldFontWeight Field = keyFontWeight
	FieldImageURL   Field = keyImageURL
)

// Slider ranges for the numeric presentation fields.
const (
	RadiusMin, RadiusMax     = 0, 50
	PaddingMin, PaddingMax   = 0, 50
	FontSizeMin, FontSizeMax = 10, 48
)

// MaxLeadingInt is the magnitude ParseLeadingInt saturates at.
const MaxLeadingInt = math.MaxInt32

// Edit is one user edit from a properties panel: a field and its raw text.
type Edit struct {
	Field Field  `yaml:"field" json:"field"`
	Value string `yaml:"value" json:"value"`
}

// ApplyEdit returns a copy of e with the edit applied. Unparseable geometry
// falls back to 0 for position and the floor for size; the result is always
// normalized. Unknown fields are stored in Properties.Extra as strings.
func ApplyEdit(e Element, ed Edit) Element {
	e = e.Clone()
	v := strings.TrimSpace(ed.Value)
	switch ed.Field {
	case FieldX:
		n, _ := ParseLeadingInt(v)
		e.Position.X = float64(n)
	case FieldY:
		n, _ := ParseLeadingInt(v)
		e.Position.Y = float64(n)
	case FieldWidth:
		e.Size.Width = sizeOr(v, MinWidth)
	case FieldHeight:
		e.Size.Height = sizeOr(v, MinHeight)
	case FieldText:
		e.Properties.Text = ed.Value
	case FieldBackground:
		e.Properties.BackgroundColor = v
	case FieldTextColor:
		e.Properties.TextColor = v
	case FieldImageURL:
		e.Properties.ImageURL = v
	case FieldRadius:
		e.Properties.BorderRadius = rangeValue(v, RadiusMin, RadiusMax)
	case FieldPadding:
		e.Properties.Padding = rangeValue(v, PaddingMin, PaddingMax)
	case FieldFontSize:
		if n, ok := ParseLeadingInt(v); ok {
			e.Properties.FontSize = clampRange(float64(n), FontSizeMin, FontSizeMax)
		} else {
			e.Properties.FontSize = 0
		}
	case FieldFontWeight:
		w := FontWeight(strings.ToLower(v))
		if !w.Valid() {
			w = WeightNormal
		}
		e.Properties.FontWeight = w
	default:
		if ed.Field == "" {
			return e.Normalize()
		}
		if e.Properties.Extra == nil {
			e.Properties.Extra = make(map[string]any)
		}
		e.Properties.Extra[string(ed.Field)] = ed.Value
	}
	return e.Normalize()
}

// ToggleVisible flips visibility; an element with no explicit flag counts as
// visible and becomes hidden.
func ToggleVisible(e Element) Element {
	e = e.Clone()
	e.Properties.Hidden = !e.Properties.Hidden
	return e
}

// ParseLeadingInt reads an optionally signed run of decimal digits at the
// start of s, ignoring leading whitespace and any trailing text ("42px" is 42).
// ok is false when no digit was found. Longer digit runs saturate at
// ±MaxLeadingInt.
func ParseLeadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		ok = true
		d := int(r - '0')
		if n > (MaxLeadingInt-d)/10 {
			n = MaxLeadingInt
			continue
		}
		n = n*10 + d
	}
	if neg {
		n = -n
	}
	return n, ok
}

// sizeOr parses a size edit. A missing number or 0 yields floor.
func sizeOr(s string, floor float64) float64 {
	n, ok := ParseLeadingInt(s)
	if !ok || n == 0 {
		return floor
	}
	return float64(n)
}

func rangeValue(s string, lo, hi float64) float64 {
	n, ok := ParseLeadingInt(s)
	if !ok {
		return 0
	}
	return clampRange(float64(n), lo, hi)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
