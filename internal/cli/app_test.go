// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/dtbutil/internal/batch"
	"github.com/jeranaias/dtbutil/internal/console"
	"github.com/jeranaias/dtbutil/internal/dtb"
	"github.com/jeranaias/dtbutil/internal/dtc"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type fakeRunner struct {
	path  string
	calls [][]string
	fail  map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, args []string) (dtc.Result, error) {
	f.calls = append(f.calls, args)
	if f.fail[filepath.Base(args[len(args)-1])] {
		return dtc.Result{ExitCode: 1, Stderr: "FATAL ERROR: bad input"}, nil
	}
	return dtc.Result{}, nil
}

type harness struct {
	app     *App
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	runner  *fakeRunner
	answers []string
	asked   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"DTBUTIL_DTC", "DTBUTIL_ON_ERROR", "DTBUTIL_BACKUP_SUFFIX", "DTBUTIL_VERBOSE"} {
		t.Setenv(k, "")
	}
	t.Setenv("NO_COLOR", "1")
	t.Setenv("DTBUTIL_CONFIG", filepath.Join(t.TempDir(), "config.toml"))

	h := &harness{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}, runner: &fakeRunner{}}
	h.app = &App{
		Stdout: h.out,
		Stderr: h.errOut,
		NewRunner: func(path string, _ *slog.Logger) dtc.Runner {
			h.runner.path = path
			return h.runner
		},
		IsTTY: func() bool { return true },
		Prompt: func(string) (string, error) {
			h.asked++
			if len(h.answers) == 0 {
				return "", io.EOF
			}
			a := h.answers[0]
			h.answers = h.answers[1:]
			return a, nil
		},
	}
	return h
}

func (h *harness) run(argv ...string) int {
	return h.app.Execute(context.Background(), argv)
}

func writeBlob(t *testing.T, dir, name string, declared uint32, total int) string {
	t.Helper()
	b := make([]byte, total)
	copy(b, dtb.Header{Magic: dtb.Magic, TotalSize: declared}.Bytes())
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0644))
	return path
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

// =============================================================================
// VERSION / HELP
// =============================================================================

func TestExecute_Version(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitSuccess, h.run("trim", "missing.dtb", "--version"))
	assert.Equal(t, "dtbutil v"+Version+"\n", h.out.String())
	assert.Empty(t, h.errOut.String())
}

func TestExecute_HelpAndUsage(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitSuccess, h.run("help"))
	assert.Contains(t, h.out.String(), "todts <infile...>")

	h = newHarness(t)
	assert.Equal(t, ExitUsageError, h.run("frobnicate"))
	assert.Contains(t, h.errOut.String(), `unknown command "frobnicate"`)
}

// =============================================================================
// TODTS
// =============================================================================

func TestExecute_ToDTS(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	a := writeBlob(t, dir, "a.dtb", 8, 8)

	code := h.run("todts", a)
	assert.Equal(t, ExitSuccess, code)
	require.Len(t, h.runner.calls, 1)
	assert.Equal(t, "dtc", h.runner.path)
	assert.Equal(t, dtc.DecompileArgs(a, filepath.Join(dir, "a.dts")), h.runner.calls[0])
	assert.Contains(t, h.out.String(), "converted 1 of 1")
}

func TestExecute_ToDTSUsesConfiguredCompiler(t *testing.T) {
	h := newHarness(t)
	t.Setenv("DTBUTIL_DTC", "/opt/bin/dtc")
	a := writeBlob(t, t.TempDir(), "a.dtb", 8, 8)

	assert.Equal(t, ExitSuccess, h.run("todts", a))
	assert.Equal(t, "/opt/bin/dtc", h.runner.path)
}

func TestExecute_MissingInputIsUsageError(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	a := writeBlob(t, dir, "a.dtb", 8, 8)

	code := h.run("todts", a, filepath.Join(dir, "nope.dtb"))
	assert.Equal(t, ExitUsageError, code)
	assert.Empty(t, h.runner.calls)
	assert.Contains(t, h.errOut.String(), "does not exist")
}

func TestExecute_DirectoryInputIsUsageError(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitUsageError, h.run("trim", t.TempDir()))
	assert.Contains(t, h.errOut.String(), "not a regular file")
}

func TestExecute_NoInputs(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitUsageError, h.run("trim"))
}

func TestExecute_AmbiguousOutputIsConfigError(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	a := writeBlob(t, dir, "a.dtb", 8, 8)
	b := writeBlob(t, dir, "b.dtb", 8, 8)
	out := filepath.Join(dir, "out.dts")
	require.NoError(t, os.WriteFile(out, nil, 0644))

	assert.Equal(t, ExitConfigError, h.run("todts", a, b, "-o", out))
	assert.Empty(t, h.runner.calls)
}

func TestExecute_FailurePromptDeclined(t *testing.T) {
	h := newHarness(t)
	h.answers = []string{"n"}
	h.runner.fail = map[string]bool{"a.dtb": true}
	dir := t.TempDir()
	a := writeBlob(t, dir, "a.dtb", 8, 8)
	b := writeBlob(t, dir, "b.dtb", 8, 8)

	assert.Equal(t, ExitAborted, h.run("todts", a, b))
	assert.Equal(t, 1, h.asked)
	assert.Len(t, h.runner.calls, 1)
	assert.Contains(t, h.errOut.String(), "batch aborted at "+a)
}

func TestExecute_FailurePromptAccepted(t *testing.T) {
	h := newHarness(t)
	h.answers = []string{"YES"}
	h.runner.fail = map[string]bool{"a.dtb": true}
	dir := t.TempDir()
	a := writeBlob(t, dir, "a.dtb", 8, 8)
	b := writeBlob(t, dir, "b.dtb", 8, 8)

	assert.Equal(t, ExitSuccess, h.run("todts", a, b))
	assert.Len(t, h.runner.calls, 2)
}

func TestExecute_PolicyFlagSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	h.runner.fail = map[string]bool{"a.dtb": true}
	dir := t.TempDir()
	a := writeBlob(t, dir, "a.dtb", 8, 8)
	b := writeBlob(t, dir, "b.dtb", 8, 8)

	assert.Equal(t, ExitSuccess, h.run("--on-error", "continue", "todts", a, b))
	assert.Zero(t, h.asked)
	assert.Len(t, h.runner.calls, 2)
}

func TestExecute_InvalidPolicyFlag(t *testing.T) {
	h := newHarness(t)
	a := writeBlob(t, t.TempDir(), "a.dtb", 8, 8)
	assert.Equal(t, ExitUsageError, h.run("--on-error", "sometimes", "trim", a))
}

func TestExecute_NonTTYPromptAborts(t *testing.T) {
	h := newHarness(t)
	h.app.IsTTY = func() bool { return false }
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.dtb")
	require.NoError(t, os.WriteFile(bad, []byte("nope nope"), 0644))
	good := writeBlob(t, dir, "good.dtb", 8, 16)

	assert.Equal(t, ExitAborted, h.run("trim", bad, good))
	assert.Zero(t, h.asked)
	assert.Equal(t, int64(16), fileSize(t, good))
	assert.Contains(t, h.errOut.String(), "not a terminal")
}

// =============================================================================
// TRIM
// =============================================================================

func TestExecute_TrimWithBackup(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	a := writeBlob(t, dir, "a.dtb", 8, 32)

	assert.Equal(t, ExitSuccess, h.run("trim", "-b", "-s", "orig", a))
	assert.Equal(t, int64(8), fileSize(t, a))
	assert.Equal(t, int64(32), fileSize(t, a+".orig"))
	assert.Contains(t, h.out.String(), "trimmed 1, unchanged 0, skipped 0, failed 0")
}

func TestExecute_TrimBackupFromConfig(t *testing.T) {
	h := newHarness(t)
	cfgPath := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[trim]\nbackup = true\nsuffix = \"old\"\n"), 0644))
	a := writeBlob(t, t.TempDir(), "a.dtb", 8, 32)

	assert.Equal(t, ExitSuccess, h.run("--config", cfgPath, "trim", a))
	assert.FileExists(t, a+".old")
}

func TestExecute_BackupFlagOverridesConfig(t *testing.T) {
	h := newHarness(t)
	cfgPath := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[trim]\nbackup = true\n"), 0644))
	a := writeBlob(t, t.TempDir(), "a.dtb", 8, 32)

	assert.Equal(t, ExitSuccess, h.run("--config", cfgPath, "trim", "--backup=false", a))
	assert.Equal(t, int64(8), fileSize(t, a))
	assert.NoFileExists(t, a+".bak")
}

func TestExecute_BadSuffixFlag(t *testing.T) {
	h := newHarness(t)
	a := writeBlob(t, t.TempDir(), "a.dtb", 8, 32)
	assert.Equal(t, ExitUsageError, h.run("trim", "-b", "-s", "x/y", a))
	assert.Equal(t, int64(32), fileSize(t, a))
}

func TestExecute_BrokenConfigIsConfigError(t *testing.T) {
	h := newHarness(t)
	cfgPath := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[batch]\non_error = \"never\"\n"), 0644))
	a := writeBlob(t, t.TempDir(), "a.dtb", 8, 32)

	assert.Equal(t, ExitConfigError, h.run("--config", cfgPath, "trim", a))
	assert.Equal(t, int64(32), fileSize(t, a))
}

// =============================================================================
// CONFIG
// =============================================================================

func TestExecute_ConfigInitShowPath(t *testing.T) {
	h := newHarness(t)
	path := os.Getenv("DTBUTIL_CONFIG")

	assert.Equal(t, ExitSuccess, h.run("config", "path"))
	assert.Equal(t, path+"\n", h.out.String())

	h.out.Reset()
	assert.Equal(t, ExitSuccess, h.run("config", "init"))
	assert.FileExists(t, path)

	assert.Equal(t, ExitUsageError, h.run("config", "init"))
	assert.Contains(t, h.errOut.String(), "--force")
	assert.Equal(t, ExitSuccess, h.run("config", "init", "--force"))

	h.out.Reset()
	assert.Equal(t, ExitSuccess, h.run("config", "show"))
	assert.Contains(t, h.out.String(), `on_error = "prompt"`)
}

func TestExecute_ConfigInitRepairsBrokenFile(t *testing.T) {
	h := newHarness(t)
	path := os.Getenv("DTBUTIL_CONFIG")
	require.NoError(t, os.WriteFile(path, []byte("[[[ not toml"), 0644))

	assert.Equal(t, ExitConfigError, h.run("config", "show"))
	assert.Equal(t, ExitSuccess, h.run("config", "init", "--force"))
	assert.Equal(t, ExitSuccess, h.run("config", "show"))
}

// =============================================================================
// PROMPT DECIDER (confirm.go)
// =============================================================================

func TestPromptDecider(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
		want   bool
	}{
		{name: "y", answer: "y", want: true},
		{name: "yes any case", answer: "Yes", want: true},
		{name: "empty", answer: "", want: false},
		{name: "no", answer: "no", want: false},
		{name: "ctrl-c", err: liner.ErrPromptAborted, want: false},
		{name: "eof", err: io.EOF, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asked string
			d := &PromptDecider{Prompt: func(p string) (string, error) {
				asked = p
				return tt.answer, tt.err
			}}
			assert.Equal(t, tt.want, d.ShouldContinue(errors.New("failed")))
			assert.Equal(t, ContinuePrompt, asked)
		})
	}
}

func TestNewDecider_FixedPolicies(t *testing.T) {
	var out, errOut bytes.Buffer
	c := console.New(&out, &errOut, console.WithColor(false))
	never := func(string) (string, error) {
		t.Fatal("prompt must not be shown")
		return "", nil
	}

	assert.True(t, newDecider(batch.PolicyContinue, c, nil, true, never).ShouldContinue(errors.New("x")))
	assert.False(t, newDecider(batch.PolicyAbort, c, nil, true, never).ShouldContinue(errors.New("x")))
	assert.False(t, newDecider(batch.PolicyPrompt, c, nil, false, never).ShouldContinue(errors.New("x")))
}
