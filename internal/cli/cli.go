/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cli wires the modcanvas packages into a cobra command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"modcanvas/internal/config"
	"modcanvas/internal/crash"
	"modcanvas/internal/gesture"
	"modcanvas/internal/journal"
	"modcanvas/internal/layerview"
	applog "modcanvas/internal/log"
	"modcanvas/internal/version"
)

// CLI holds what every command shares: the output writer, the effective
// configuration and the crash target that commands attach their scene to.
type CLI struct {
	out     io.Writer
	cfg     config.AppConfig
	log     *slog.Logger
	crash   *crash.Target
	verbose bool
	// loadConfig is replaced in tests.
	loadConfig func() (config.AppConfig, error)
}

func New(out io.Writer) *CLI {
	return &CLI{
		out:        out,
		cfg:        config.Defaults(),
		log:        applog.WithComponent("cli"),
		crash:      &crash.Target{},
		loadConfig: config.Load,
	}
}

// CrashTarget is handed to crash.Recover by main. Commands fill in the scene
// once they have loaded one.
func (c *CLI) CrashTarget() *crash.Target { return c.crash }

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "modcanvas",
		Short:             "modcanvas manipulates canvas scene graphs",
		Long:              `modcanvas validates, inspects and edits canvas scenes: element hierarchies with cascading moves, resizes, layer ordering and nesting.`,
		Version:           version.String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate("modcanvas {{.Version}}\n")
	root.SetOut(c.out)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.newVersionCmd())
	root.AddCommand(c.newValidateCmd())
	root.AddCommand(c.newLayersCmd())
	root.AddCommand(c.newPreviewCmd())
	root.AddCommand(c.newCreateCmd())
	root.AddCommand(c.newStagesCmd())
	root.AddCommand(c.newReplayCmd())
	root.AddCommand(c.newJournalCmd())
	return root
}

// setup loads the configuration and initializes logging from it. A broken
// config file is reported and the defaults are used.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	var fe *config.FileError
	switch {
	case errors.As(err, &fe):
		printWarning(cmd.ErrOrStderr(), "ignoring config: %v", err)
		cfg = config.Defaults()
	case err != nil:
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg

	level := cfg.Logging.Level
	if c.verbose {
		level = "debug"
	}
	applog.Init(applog.Options{
		Level:     level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Out:       cmd.ErrOrStderr(),
	})
	c.log = applog.WithComponent("cli")
	c.log.Debug("config loaded", slog.Float64("drag_threshold", cfg.Canvas.DragThreshold), slog.String("journal", cfg.Journal.Path))
	return nil
}

func (c *CLI) zoomLimits() gesture.ZoomLimits {
	cv := c.cfg.Canvas
	return gesture.ZoomLimits{Min: cv.ZoomMin, Max: cv.ZoomMax, Step: cv.ZoomStep, Default: cv.ZoomDefault}
}

func (c *CLI) panelLayout() layerview.Layout {
	l := layerview.DefaultLayout()
	cv := c.cfg.Canvas
	if cv.LayerRowH > 0 {
		l.RowHeight = cv.LayerRowH
	}
	if cv.LayerIndent > 0 {
		l.Indent = cv.LayerIndent
	}
	if cv.LayerWidth > 0 {
		l.Width = cv.LayerWidth
	}
	return l
}

func (c *CLI) journalOptions() journal.Options {
	jc := c.cfg.Journal
	o := journal.Options{KeepLast: jc.KeepLast, Logger: applog.WithComponent("journal")}
	switch {
	case jc.CoalesceMs > 0:
		o.Coalesce = time.Duration(jc.CoalesceMs) * time.Millisecond
	case jc.CoalesceMs < 0:
		o.Coalesce = -1
	}
	return o
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "modcanvas "+version.String())
		},
	}
}
