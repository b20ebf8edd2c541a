// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultOutputWidth caps captured tool output quoted in error messages.
const DefaultOutputWidth = 400

// TruncateOutput collapses captured subprocess output to a single display
// line no wider than maxWidth columns. Wide (CJK) characters count as two
// columns. Truncated output ends in "...".
func TruncateOutput(out string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = DefaultOutputWidth
	}
	line := strings.Join(strings.Fields(out), " ")
	return runewidth.Truncate(line, maxWidth, "...")
}

// LastLines returns at most n trailing non-empty lines of out.
// Compilers put the useful diagnostic at the end.
func LastLines(out string, n int) string {
	if n <= 0 {
		return ""
	}
	var lines []string
	for _, l := range strings.Split(strings.TrimRight(out, "\r\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimRight(l, "\r"))
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
