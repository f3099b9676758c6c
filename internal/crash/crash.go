/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a logged error, a report file and a
// snapshot of the scene being edited.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"modcanvas/internal/element"
	"modcanvas/internal/intake"
	applog "modcanvas/internal/log"
	"modcanvas/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// closeLogs flushes the rotating log file; os.Exit skips deferred closes.
var closeLogs = applog.Close

// Snapshotter supplies the elements to save when a panic interrupts an edit.
type Snapshotter interface {
	Elements() []element.Element
}

// Target says where reports go and what to save. A zero Target writes the
// report to the temp dir and saves nothing.
type Target struct {
	Dir   string
	Scene Snapshotter
}

// Recover captures a panic, logs an error with stacktrace, writes a report
// file and, when a scene is attached, a crash snapshot of it.
//
// Usage: defer func(){ crash.Recover(t) }()
func Recover(t *Target) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(t, r, stack)
		if err != nil {
			l.Error("write crash report failed", slog.Any("err", err))
		}
		if t != nil && t.Scene != nil {
			if path, err := writeSnapshot(t); err != nil {
				l.Error("crash snapshot failed", slog.Any("err", err))
			} else {
				l.Info("crash snapshot written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		if err := closeLogs(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
		exitFn(2)
	}
}

func dirFor(t *Target) string {
	if t != nil && t.Dir != "" {
		_ = os.MkdirAll(t.Dir, 0o755)
		return t.Dir
	}
	return os.TempDir()
}

func stamp() string { return time.Now().Format("20060102-150405") }

func writeReport(t *Target, panicVal any, stack []byte) (string, error) {
	path := filepath.Join(dirFor(t), fmt.Sprintf("crash-%s.log", stamp()))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "modcanvas Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if t != nil && t.Scene != nil {
		_, _ = fmt.Fprintf(&buf, "Elements: %d\n", len(t.Scene.Elements()))
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}

func writeSnapshot(t *Target) (string, error) {
	data, err := intake.EncodeScene(t.Scene.Elements())
	if err != nil {
		return "", err
	}
	path := filepath.Join(dirFor(t), fmt.Sprintf("crash-%s.scene.json", stamp()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
