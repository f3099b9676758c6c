/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package element

import (
	"encoding/json"
	"maps"
	"sort"
)

// Presentation defaults used when a property is unset.
const (
	DefaultBackground   = "#34d399"
	DefaultTextColor    = "#ffffff"
	DefaultBorderRadius = 8.0
	DefaultPadding      = 12.0
	DefaultFontSize     = 14.0
)

// FontWeight is one of the supported text weights.
type FontWeight string

const (
	WeightNormal   FontWeight = "normal"
	WeightMedium   FontWeight = "medium"
	WeightSemibold FontWeight = "semibold"
	WeightBold     FontWeight = "bold"
)

func (w FontWeight) Valid() bool {
	switch w {
	case WeightNormal, WeightMedium, WeightSemibold, WeightBold:
		return true
	}
	return false
}

// Properties holds the known presentation fields plus an open Extra map for
// attributes this version does not model. Zero values mean "unset"; the
// accessor methods apply the defaults.
//
// On the wire this is a flat JSON object: known keys map to fields, every
// other key lands in Extra and is written back unchanged.
type Properties struct {
	Text            string
	BackgroundColor string
	TextColor       string
	BorderRadius    float64
	Padding         float64
	FontSize        float64
	FontWeight      FontWeight
	ImageURL        string
	// Hidden is the inverse of the "visible" key; absent means visible.
	Hidden bool
	// Children is the ordered list of child ids and the only source of hierarchy.
	Children []string
	Extra    map[string]any
}

const (
	keyText       = "text"
	keyBackground = "backgroundColor"
	keyTextColor  = "textColor"
	keyRadius     = "borderRadius"
	keyPadding    = "padding"
	keyFontSize   = "fontSize"
	keyFontWeight = "fontWeight"
	keyImageURL   = "imageUrl"
	keyVisible    = "visible"
	keyChildren   = "children"
)

func (p Properties) Background() string {
	if p.BackgroundColor == "" {
		return DefaultBackground
	}
	return p.BackgroundColor
}

func (p Properties) Foreground() string {
	if p.TextColor == "" {
		return DefaultTextColor
	}
	return p.TextColor
}

func (p Properties) Radius() float64 {
	if p.BorderRadius <= 0 {
		return DefaultBorderRadius
	}
	return p.BorderRadius
}

func (p Properties) Pad() float64 {
	if p.Padding <= 0 {
		return DefaultPadding
	}
	return p.Padding
}

func (p Properties) Font() (size float64, weight FontWeight) {
	size, weight = p.FontSize, p.FontWeight
	if size <= 0 {
		size = DefaultFontSize
	}
	if !weight.Valid() {
		weight = WeightNormal
	}
	return size, weight
}

// Clone deep-copies Children and Extra.
func (p Properties) Clone() Properties {
	if p.Children != nil {
		p.Children = append([]string(nil), p.Children...)
	}
	if p.Extra != nil {
		p.Extra = maps.Clone(p.Extra)
	}
	return p
}

// MarshalJSON writes a flat object with Extra keys merged in. Known keys win
// over Extra keys of the same name.
func (p Properties) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+10)
	for k, v := range p.Extra {
		m[k] = v
	}
	setStr := func(k, v string) {
		if v != "" {
			m[k] = v
		} else {
			delete(m, k)
		}
	}
	setNum := func(k string, v float64) {
		if v != 0 {
			m[k] = v
		} else {
			delete(m, k)
		}
	}
	setStr(keyText, p.Text)
	setStr(keyBackground, p.BackgroundColor)
	setStr(keyTextColor, p.TextColor)
	setNum(keyRadius, p.BorderRadius)
	setNum(keyPadding, p.Padding)
	setNum(keyFontSize, p.FontSize)
	setStr(keyFontWeight, string(p.FontWeight))
	setStr(keyImageURL, p.ImageURL)
	if p.Hidden {
		m[keyVisible] = false
	} else {
		delete(m, keyVisible)
	}
	if p.Children != nil {
		m[keyChildren] = p.Children
	} else {
		delete(m, keyChildren)
	}
	return json.Marshal(m)
}

// UnmarshalJSON splits a flat object into known fields and Extra. Known keys
// with the wrong JSON type are dropped rather than rejected.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Properties{}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := raw[k]
		switch k {
		case keyText:
			_ = json.Unmarshal(v, &p.Text)
		case keyBackground:
			_ = json.Unmarshal(v, &p.BackgroundColor)
		case keyTextColor:
			_ = json.Unmarshal(v, &p.TextColor)
		case keyRadius:
			_ = json.Unmarshal(v, &p.BorderRadius)
		case keyPadding:
			_ = json.Unmarshal(v, &p.Padding)
		case keyFontSize:
			_ = json.Unmarshal(v, &p.FontSize)
		case keyFontWeight:
			_ = json.Unmarshal(v, &p.FontWeight)
		case keyImageURL:
			_ = json.Unmarshal(v, &p.ImageURL)
		case keyVisible:
			var vis bool
			if json.Unmarshal(v, &vis) == nil {
				p.Hidden = !vis
			}
		case keyChildren:
			var ids []string
			if json.Unmarshal(v, &ids) == nil {
				p.Children = ids
			}
		default:
			var anyv any
			if err := json.Unmarshal(v, &anyv); err != nil {
				return err
			}
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[k] = anyv
		}
	}
	return nil
}
