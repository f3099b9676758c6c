/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied after the file.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Journal       JournalConfig `yaml:"journal"`
	Logging       LoggingConfig `yaml:"logging"`
}

// CanvasConfig tunes gesture and viewport behavior. Size floors are not
// configurable; they are invariants of the element model.
type CanvasConfig struct {
	DragThreshold float64 `yaml:"drag_threshold"`
	ZoomMin       int     `yaml:"zoom_min"`
	ZoomMax       int     `yaml:"zoom_max"`
	ZoomStep      int     `yaml:"zoom_step"`
	ZoomDefault   int     `yaml:"zoom_default"`
	LayerRowH     float64 `yaml:"layer_row_height"`
	LayerIndent   float64 `yaml:"layer_indent"`
	LayerWidth    float64 `yaml:"layer_width"`
}

// JournalConfig controls the optional SQLite change journal.
type JournalConfig struct {
	Path       string `yaml:"path"` // empty disables the journal
	CoalesceMs int    `yaml:"coalesce_ms"`
	KeepLast   int    `yaml:"keep_last"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas: CanvasConfig{
			DragThreshold: 3,
			ZoomMin:       25,
			ZoomMax:       200,
			ZoomStep:      10,
			ZoomDefault:   100,
			LayerRowH:     36,
			LayerIndent:   16,
			LayerWidth:    256,
		},
		Journal: JournalConfig{CoalesceMs: 250, KeepLast: 500},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile    = "MCV_CONFIG"
	EnvDragThreshold = "MCV_DRAG_THRESHOLD"
	EnvZoomDefault   = "MCV_ZOOM_DEFAULT"
	EnvJournalPath   = "MCV_JOURNAL"
	EnvLogLevel      = "MCV_LOG_LEVEL"
	EnvLogFormat     = "MCV_LOG_FORMAT"
	EnvLogSource     = "MCV_LOG_SOURCE"
	EnvLogFile       = "MCV_LOG_FILE"
)

// envKeys maps dotted config keys to the env var that overrides them.
var envKeys = map[string]string{
	"canvas.drag_threshold": EnvDragThreshold,
	"canvas.zoom_default":   EnvZoomDefault,
	"journal.path":          EnvJournalPath,
	"logging.level":         EnvLogLevel,
	"logging.format":        EnvLogFormat,
	"logging.source":        EnvLogSource,
	"logging.file":          EnvLogFile,
}

// ConfigPath returns the per-user config file path. MCV_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ModCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ModCanvas")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "modcanvas")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "modcanvas")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), merges it over the defaults and
// applies environment overrides. A missing file is not an error; a malformed one is.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, &FileError{Path: path, Err: err}
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, &FileError{Path: path, Err: err}
	}
	applyEnvOverrides(&cfg)
	cfg.Canvas = cfg.Canvas.Validate()
	return cfg, nil
}

// Save writes cfg to the user config path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// FileError reports a config file that exists but could not be used.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return "config " + e.Path + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// Validate replaces nonsensical canvas values with defaults.
func (c CanvasConfig) Validate() CanvasConfig {
	d := Defaults().Canvas
	if c.DragThreshold < 0 {
		c.DragThreshold = d.DragThreshold
	}
	if c.ZoomMin <= 0 {
		c.ZoomMin = d.ZoomMin
	}
	if c.ZoomMax < c.ZoomMin {
		c.ZoomMin, c.ZoomMax = d.ZoomMin, d.ZoomMax
	}
	if c.ZoomStep <= 0 {
		c.ZoomStep = d.ZoomStep
	}
	if c.ZoomDefault < c.ZoomMin || c.ZoomDefault > c.ZoomMax {
		c.ZoomDefault = d.ZoomDefault
		if c.ZoomDefault < c.ZoomMin || c.ZoomDefault > c.ZoomMax {
			c.ZoomDefault = c.ZoomMin
		}
	}
	if c.LayerRowH <= 0 {
		c.LayerRowH = d.LayerRowH
	}
	if c.LayerIndent < 0 {
		c.LayerIndent = d.LayerIndent
	}
	if c.LayerWidth <= 0 {
		c.LayerWidth = d.LayerWidth
	}
	return c
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// canvas: zero means "not set in file"
	if src.Canvas.DragThreshold != 0 {
		dst.Canvas.DragThreshold = src.Canvas.DragThreshold
	}
	if src.Canvas.ZoomMin != 0 {
		dst.Canvas.ZoomMin = src.Canvas.ZoomMin
	}
	if src.Canvas.ZoomMax != 0 {
		dst.Canvas.ZoomMax = src.Canvas.ZoomMax
	}
	if src.Canvas.ZoomStep != 0 {
		dst.Canvas.ZoomStep = src.Canvas.ZoomStep
	}
	if src.Canvas.ZoomDefault != 0 {
		dst.Canvas.ZoomDefault = src.Canvas.ZoomDefault
	}
	if src.Canvas.LayerRowH != 0 {
		dst.Canvas.LayerRowH = src.Canvas.LayerRowH
	}
	if src.Canvas.LayerIndent != 0 {
		dst.Canvas.LayerIndent = src.Canvas.LayerIndent
	}
	if src.Canvas.LayerWidth != 0 {
		dst.Canvas.LayerWidth = src.Canvas.LayerWidth
	}
	// journal
	if s := strings.TrimSpace(src.Journal.Path); s != "" {
		dst.Journal.Path = s
	}
	if src.Journal.CoalesceMs != 0 {
		dst.Journal.CoalesceMs = src.Journal.CoalesceMs
	}
	if src.Journal.KeepLast != 0 {
		dst.Journal.KeepLast = src.Journal.KeepLast
	}
	// logging
	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := env(EnvDragThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Canvas.DragThreshold = f
		}
	}
	if v := env(EnvZoomDefault); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Canvas.ZoomDefault = n
		}
	}
	if v := env(EnvJournalPath); v != "" {
		cfg.Journal.Path = v
	}
	if v := env(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := env(EnvLogFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := env(EnvLogSource); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := env(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

// EnvOverrideFor returns the env var name if the dotted key is currently overridden.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || env(name) == "" {
		return "", false
	}
	return name, true
}
