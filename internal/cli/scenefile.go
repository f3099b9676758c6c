/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"modcanvas/internal/intake"
	"modcanvas/internal/scene"
)

// readScene decodes a scene file into a fresh store and attaches it to the
// crash target.
func (c *CLI) readScene(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	elems, err := intake.DecodeScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc := scene.New()
	sc.Load(elems)
	c.crash.Scene = sc
	return sc, nil
}

// writeScene writes the scene in the wrapped form; "-" means stdout.
func writeScene(w io.Writer, path string, sc *scene.Scene) error {
	data, err := intake.EncodeScene(sc.Elements())
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	data = append(data, '\n')
	if path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// reportInvalid prints every field error of a validation failure.
func reportInvalid(w io.Writer, path string, err error) {
	var ve *intake.ValidationError
	if !errors.As(err, &ve) {
		printError(w, "%s: %v", path, err)
		return
	}
	printError(w, "%s: %d problem(s)", path, len(ve.Errors))
	for _, fe := range ve.Errors {
		printDetail(w, "%s", fe.String())
	}
}
