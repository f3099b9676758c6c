/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log provides the slog-based logging used across modcanvas.
// Console output goes through a compact text handler; a rotating JSON file
// sink can be added for long editing sessions.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"modcanvas/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Env var names read by FromEnv.
const (
	EnvLevel  = "MCV_LOG_LEVEL"
	EnvFormat = "MCV_LOG_FORMAT"
	EnvSource = "MCV_LOG_SOURCE"
	EnvFile   = "MCV_LOG_FILE"
)

// Options controls logger initialization.
//   - Level: debug|info|warn|error (default info)
//   - Format: console|json (default console)
//   - File: optional path; enables a rotated JSON file sink
type Options struct {
	Level     string
	Format    string
	AddSource bool
	File      string
	// Out overrides the console writer (stderr when nil).
	Out io.Writer
}

var (
	mu       sync.RWMutex
	current  *slog.Logger
	fileSink *lj.Logger
)

// L returns the process logger, initializing it from the environment on first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init (re)configures the process logger and installs it as slog's default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var console slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
	default:
		console = newTextHandler(out, lvl, opts.AddSource)
	}
	handlers := []slog.Handler{console}

	var sink *lj.Logger
	if path := strings.TrimSpace(opts.File); path != "" {
		sink = &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	logger := slog.New(h).With(
		slog.String("app", "modcanvas"),
		slog.String("ver", version.String()),
	)

	mu.Lock()
	prev := fileSink
	current = logger
	fileSink = sink
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the rotating file sink, if any.
func Close() error {
	mu.Lock()
	sink := fileSink
	fileSink = nil
	mu.Unlock()
	if sink == nil {
		return nil
	}
	return sink.Close()
}

// FromEnv builds Options from MCV_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv(EnvLevel, "info"),
		Format:    getenv(EnvFormat, "console"),
		AddSource: parseBool(os.Getenv(EnvSource)),
		File:      os.Getenv(EnvFile),
	}
}

// WithComponent returns a logger tagged with component=name.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation tags l with op=name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

// Discard returns a logger that drops everything. Handy for tests and embedding.
func Discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// textHandler writes one line per record: "15:04:05.000 INF msg k=v ...".
// Attributes added before a group keep their unqualified keys.
type textHandler struct {
	w      io.Writer
	wmu    *sync.Mutex
	level  slog.Leveler
	source bool
	prefix string
	attrs  []string
}

func newTextHandler(w io.Writer, level slog.Leveler, source bool) *textHandler {
	return &textHandler{w: w, wmu: &sync.Mutex{}, level: level, source: source}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.level != nil {
		floor = h.level.Level()
	}
	return level >= floor
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	if r.Message != "" {
		b.WriteByte(' ')
		b.WriteString(r.Message)
	}
	for _, a := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(formatAttr(h.prefix, a))
		return true
	})
	if h.source {
		fs := runtimeFrame(r)
		if fs != "" {
			b.WriteString(" src=")
			b.WriteString(fs)
		}
	}
	b.WriteByte('\n')
	h.wmu.Lock()
	defer h.wmu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		c.attrs = append(c.attrs, formatAttr(h.prefix, a))
	}
	return c
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.prefix = h.prefix + name + "."
	return c
}

func (h *textHandler) clone() *textHandler {
	c := *h
	c.attrs = append([]string(nil), h.attrs...)
	return &c
}

func runtimeFrame(r slog.Record) string {
	if r.PC == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if f.File == "" {
		return ""
	}
	return f.File + ":" + strconv.Itoa(f.Line)
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERR"
	case l >= slog.LevelWarn:
		return "WRN"
	case l >= slog.LevelInfo:
		return "INF"
	default:
		return "DBG"
	}
}

func formatAttr(prefix string, a slog.Attr) string {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		parts := make([]string, 0, len(v.Group()))
		for _, ga := range v.Group() {
			parts = append(parts, formatAttr(prefix+a.Key+".", ga))
		}
		return strings.Join(parts, " ")
	}
	return prefix + a.Key + "=" + valueString(v)
}

func valueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return v.String()
	}
}
