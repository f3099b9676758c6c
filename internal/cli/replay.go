/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"modcanvas/internal/gesture"
	"modcanvas/internal/journal"
	"modcanvas/internal/layerview"
	"modcanvas/internal/preview"
	"modcanvas/internal/replay"
	"modcanvas/internal/scene"
)

func (c *CLI) newReplayCmd() *cobra.Command {
	var (
		scenePath   string
		out         string
		journalPath string
		previewPath string
	)
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Apply a gesture script to a scene",
		Long: `Replay runs the steps of a YAML script (moves, resizes, layer drags, edits,
zoom) through the same sessions an interactive canvas uses, then prints the
resulting layer tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			script, err := replay.Load(args[0])
			if err != nil {
				return err
			}
			if scenePath == "" && script.Scene != "" {
				scenePath = script.Scene
				if !filepath.IsAbs(scenePath) {
					scenePath = filepath.Join(filepath.Dir(args[0]), scenePath)
				}
			}
			sc := scene.New()
			if scenePath != "" {
				if sc, err = c.readScene(scenePath); err != nil {
					return err
				}
			}
			c.crash.Scene = sc

			if journalPath == "" {
				journalPath = c.cfg.Journal.Path
			}
			var j *journal.Journal
			if journalPath != "" {
				if j, err = journal.Open(ctx, journalPath, c.journalOptions()); err != nil {
					return err
				}
				defer func() {
					if err := j.Close(); err != nil {
						c.log.Warn("close journal", slog.Any("err", err))
					}
				}()
				remove := sc.Observe(j.Observer())
				defer remove()
			}

			panel := layerview.New(c.panelLayout())
			r := replay.NewRunner(sc,
				replay.WithViewport(gesture.NewViewport(c.zoomLimits())),
				replay.WithPanel(panel),
				replay.WithThreshold(c.cfg.Canvas.DragThreshold),
				replay.WithLogger(c.log),
			)
			rep, err := r.Run(ctx, script)
			if err != nil {
				return err
			}
			if j != nil {
				if err := j.Err(); err != nil {
					return fmt.Errorf("journal: %w", err)
				}
			}

			name := script.Name
			if name == "" {
				name = filepath.Base(args[0])
			}
			printSuccess(w, "%s: %d step(s), %d element(s)", name, rep.Steps, sc.Len())
			if len(rep.Created) > 0 {
				printDetail(w, "created %s", strings.Join(rep.Created, ", "))
			}
			for _, d := range rep.Drops {
				if d.Kind != gesture.DropNone {
					printDetail(w, "%s onto %s", d.Kind, d.Target)
				}
			}
			_, _ = fmt.Fprint(w, renderRows(panel.Rows(sc)))

			if out != "" {
				if err := writeScene(w, out, sc); err != nil {
					return err
				}
				if out != "-" {
					printFile(w, out)
				}
			}
			if previewPath != "" {
				sel, _ := sc.Selected()
				img := preview.Render(sc.Visible(), preview.Options{Zoom: r.Viewport.Zoom(), Selected: sel})
				if err := preview.WritePNG(previewPath, img); err != nil {
					return err
				}
				printFile(w, previewPath)
			}
			if j != nil {
				printFile(w, j.Path())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scenePath, "scene", "", "scene file (overrides the script's scene)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the resulting scene here (- for stdout)")
	cmd.Flags().StringVar(&journalPath, "journal", "", "record changes to this SQLite journal")
	cmd.Flags().StringVar(&previewPath, "preview", "", "write a PNG preview at the final zoom")
	return cmd
}

func (c *CLI) newJournalCmd() *cobra.Command {
	var (
		limit int
		prune int
	)
	cmd := &cobra.Command{
		Use:   "journal <journal.db>",
		Short: "Show recent journal entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			opts := c.journalOptions()
			opts.KeepLast = 0
			j, err := journal.Open(ctx, args[0], opts)
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()
			if prune > 0 {
				n, err := j.Prune(ctx, prune)
				if err != nil {
					return err
				}
				printSuccess(w, "pruned %d row(s)", n)
			}
			entries, err := j.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printWarning(w, "journal is empty")
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%5d %s %-7s %s", e.Seq, e.TS.Local().Format(time.DateTime), e.Op, e.ElementID)
				if e.Related != "" {
					line += " " + iconArrow + " " + e.Related
				}
				_, _ = fmt.Fprintln(w, styleValue.Render(line))
				if len(e.Affected) > 0 {
					printDetail(w, "cascaded %s", strings.Join(e.Affected, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().IntVar(&prune, "prune", 0, "keep only this many rows before listing")
	return cmd
}
