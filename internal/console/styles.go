// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for console output.
//
// Styles are bound to a lipgloss.Renderer per output stream so that
// stdout and stderr each get the colour profile of their own terminal
// (or none, when redirected).

package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of styles used by one output stream.
type Styles struct {
	// Success marks completed work. Green (#42).
	Success lipgloss.Style
	// Error marks failures. Red (#196).
	Error lipgloss.Style
	// Warning marks skipped inputs. Yellow/Orange (#214).
	Warning lipgloss.Style
	// Info marks neutral progress. Blue (#75).
	Info lipgloss.Style
	// Dim de-emphasises paths and details. Dim gray (#242).
	Dim lipgloss.Style
}

// NewStyles builds the style set on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Success: r.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("75")),
		Dim:     r.NewStyle().Foreground(lipgloss.Color("242")),
	}
}

// Status renders a bracketed status tag such as [OK] or [FAIL].
func (s Styles) Status(status string) string {
	switch strings.ToLower(status) {
	case "ok", "success":
		return s.Success.Render("[OK]")
	case "error", "fail", "failed":
		return s.Error.Render("[FAIL]")
	case "warning", "warn", "skip", "skipped":
		return s.Warning.Render("[WARN]")
	default:
		return s.Dim.Render("[" + strings.ToUpper(status) + "]")
	}
}
