/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package intake turns external input into elements: JSON scenes validated
// against a JSON schema, and prompt text from the creation assistant.
package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"modcanvas/internal/element"
)

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid scene")

// FieldError is one schema violation.
type FieldError struct {
	Field       string
	Description string
}

func (f FieldError) String() string { return f.Field + ": " + f.Description }

// ValidationError aggregates all violations found in one document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, f := range e.Errors {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(sceneSchema))
})

type document struct {
	Elements []element.Element `json:"elements"`
}

// DecodeScene parses a JSON array of elements or an {"elements": [...]}
// object. The document is checked against the scene schema and for duplicate
// ids; every violation is reported in one *ValidationError. Accepted elements
// are normalized to the size floors.
func DecodeScene(data []byte) ([]element.Element, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ValidationError{Errors: []FieldError{{Field: "(root)", Description: "empty document"}}}
	}
	if trimmed[0] == '[' {
		wrapped := make([]byte, 0, len(trimmed)+14)
		wrapped = append(wrapped, `{"elements":`...)
		wrapped = append(wrapped, trimmed...)
		wrapped = append(wrapped, '}')
		trimmed = wrapped
	}
	if err := Validate(trimmed); err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	var dup []FieldError
	seen := make(map[string]int, len(doc.Elements))
	for i, e := range doc.Elements {
		if first, ok := seen[e.ID]; ok {
			dup = append(dup, FieldError{
				Field:       fmt.Sprintf("elements.%d.id", i),
				Description: fmt.Sprintf("duplicate id %q (first at elements.%d)", e.ID, first),
			})
			continue
		}
		seen[e.ID] = i
		doc.Elements[i] = e.Normalize()
	}
	if len(dup) > 0 {
		return nil, &ValidationError{Errors: dup}
	}
	if doc.Elements == nil {
		doc.Elements = []element.Element{}
	}
	return doc.Elements, nil
}

// Validate checks a wrapped scene document against the schema.
func Validate(doc []byte) error {
	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("compile scene schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		// not JSON at all
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Description: err.Error()}}}
	}
	if res.Valid() {
		return nil
	}
	ve := &ValidationError{}
	for _, re := range res.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: re.Field(), Description: re.Description()})
	}
	return ve
}

// EncodeScene writes elements in the wrapped form, indented.
func EncodeScene(elems []element.Element) ([]byte, error) {
	if elems == nil {
		elems = []element.Element{}
	}
	return json.MarshalIndent(document{Elements: elems}, "", "  ")
}
