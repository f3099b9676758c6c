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
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"modcanvas/internal/element"
	"modcanvas/internal/intake"
	"modcanvas/internal/layerview"
	"modcanvas/internal/preview"
)

var errInvalidScenes = errors.New("one or more scenes are invalid")

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene.json>...",
		Short: "Check scene files against the scene schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					printError(w, "%s: %v", path, err)
					failed++
					continue
				}
				elems, err := intake.DecodeScene(data)
				if err != nil {
					reportInvalid(w, path, err)
					failed++
					continue
				}
				printSuccess(w, "%s: %d element(s)", path, len(elems))
			}
			if failed > 0 {
				return errInvalidScenes
			}
			return nil
		},
	}
}

func (c *CLI) newLayersCmd() *cobra.Command {
	var (
		expandAll bool
		expand    []string
		selected  string
	)
	cmd := &cobra.Command{
		Use:   "layers <scene.json>",
		Short: "Print the layer tree of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.readScene(args[0])
			if err != nil {
				return err
			}
			sc.Select(selected)
			p := layerview.New(c.panelLayout())
			for _, id := range expand {
				p.Expand(id)
			}
			if expandAll {
				for _, e := range sc.Elements() {
					if e.HasChildren() {
						p.Expand(e.ID)
					}
				}
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), renderRows(p.Rows(sc)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&expandAll, "all", "a", false, "expand every element with children")
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "ids to expand")
	cmd.Flags().StringVar(&selected, "select", "", "id to highlight")
	return cmd
}

func (c *CLI) newPreviewCmd() *cobra.Command {
	var (
		out      string
		zoom     int
		selected string
		noLabels bool
	)
	cmd := &cobra.Command{
		Use:   "preview <scene.json>",
		Short: "Render a PNG preview of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.readScene(args[0])
			if err != nil {
				return err
			}
			if zoom == 0 {
				zoom = c.cfg.Canvas.ZoomDefault
			}
			img := preview.Render(sc.Visible(), preview.Options{Zoom: zoom, Selected: selected, NoLabels: noLabels})
			if err := preview.WritePNG(out, img); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "preview %dx%d at %d%%", img.Bounds().Dx(), img.Bounds().Dy(), zoom)
			printFile(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "preview.png", "output PNG path")
	cmd.Flags().IntVar(&zoom, "zoom", 0, "zoom percent (config default when 0)")
	cmd.Flags().StringVar(&selected, "select", "", "id to outline as selected")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "skip element text")
	return cmd
}

func (c *CLI) newCreateCmd() *cobra.Command {
	var (
		out   string
		stage string
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "create <scene.json> <prompt>",
		Short: "Add an element described by a prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := element.Stage(stage)
			if stage != "" && !st.Valid() {
				return fmt.Errorf("unknown stage %q", stage)
			}
			sc, err := c.readScene(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			prompt := args[1]
			if !intake.ShouldCreate(prompt, st) {
				printWarning(w, "prompt does not ask for a new element; scene unchanged")
				return nil
			}
			var rnd *rand.Rand
			if seed != 0 {
				rnd = rand.New(rand.NewPCG(seed, seed))
			}
			e := intake.FromPrompt(prompt, st, sc.Len(), rnd)
			sc.Add(e)
			sc.Select(e.ID)
			if out == "" {
				out = args[0]
			}
			if err := writeScene(w, out, sc); err != nil {
				return err
			}
			if out != "-" {
				printSuccess(w, "created %s %s at (%.0f, %.0f)", e.Kind, e.ID, e.Position.X, e.Position.Y)
				printFile(w, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (defaults to the input file, - for stdout)")
	cmd.Flags().StringVar(&stage, "stage", "", "workflow stage to tag the element with")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "placement seed for reproducible positions")
	return cmd
}

func (c *CLI) newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the workflow stages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), renderStages(element.Stages()))
		},
	}
}
