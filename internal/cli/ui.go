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
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"modcanvas/internal/element"
	"modcanvas/internal/layerview"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	styleSelected  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHidden    = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
	styleIconOK    = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarn  = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess  = "✓"
	iconError    = "✗"
	iconWarning  = "!"
	iconArrow    = "→"
	iconExpanded = "▾"
	iconFolded   = "▸"
)

func printSuccess(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, styleIconOK.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, styleIconWarn.Render(iconWarning)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	_, _ = fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// renderRows draws the layer list as an indented tree, one line per row.
func renderRows(rows []layerview.Row) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Repeat("  ", r.Depth))
		switch {
		case r.ChildCount == 0:
			b.WriteString("  ")
		case r.Expanded:
			b.WriteString(styleDim.Render(iconExpanded) + " ")
		default:
			b.WriteString(styleDim.Render(iconFolded) + " ")
		}
		label := r.Icon + " " + r.Label
		switch {
		case r.Hidden:
			label = styleHidden.Render(label)
		case r.Selected:
			label = styleSelected.Render(label)
		default:
			label = styleValue.Render(label)
		}
		b.WriteString(label)
		b.WriteString(" " + styleDim.Render(r.ID))
		if r.ChildCount > 0 {
			b.WriteString(styleDim.Render(fmt.Sprintf(" (%d)", r.ChildCount)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// renderStages lists the workflow stages with a color swatch each.
func renderStages(stages []element.StageInfo) string {
	var b strings.Builder
	for _, s := range stages {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("●")
		fmt.Fprintf(&b, "%s %d %s %s\n", swatch, s.Number, styleTitle.Render(s.Name), styleDim.Render(s.Description))
	}
	return b.String()
}
