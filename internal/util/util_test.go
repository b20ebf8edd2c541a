// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, AtomicWriteFile(path, []byte("hello"), 0600, 0755))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "deep", "config.toml")

	require.NoError(t, AtomicWriteFile(path, []byte("x"), 0600, 0755))
	assert.FileExists(t, path)
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0600, 0755))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0600, 0755))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}

func TestAtomicWriteFile_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "notadir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := AtomicWriteFile(filepath.Join(blocker, "config.toml"), []byte("x"), 0600, 0755)
	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr), "got %v", err)
	assert.Equal(t, "mkdir", writeErr.Step)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// =============================================================================
// OUTPUT TRUNCATION TESTS
// =============================================================================

func TestTruncateOutput(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "short", in: "FATAL ERROR: bad input", width: 80, want: "FATAL ERROR: bad input"},
		{name: "collapses newlines", in: "line one\nline two\n", width: 80, want: "line one line two"},
		{name: "truncates", in: "abcdefghijklmnop", width: 10, want: "abcdefg..."},
		{name: "wide runes", in: "日本語のエラー", width: 7, want: "日本..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateOutput(tt.in, tt.width))
		})
	}
}

func TestTruncateOutput_DefaultWidth(t *testing.T) {
	long := strings.Repeat("x", DefaultOutputWidth*2)
	got := TruncateOutput(long, 0)
	assert.Len(t, got, DefaultOutputWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestLastLines(t *testing.T) {
	out := "Warning: a\n\nWarning: b\nFATAL ERROR: c\n"
	assert.Equal(t, "Warning: b\nFATAL ERROR: c", LastLines(out, 2))
	assert.Equal(t, "Warning: a\nWarning: b\nFATAL ERROR: c", LastLines(out, 10))
	assert.Equal(t, "", LastLines(out, 0))
}
