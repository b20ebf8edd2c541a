// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dtc runs the external device tree compiler.
//
// The compiler sits behind the Runner interface so batch code can be
// exercised with a fake. ExecRunner is the real implementation; it blocks
// until the process exits and applies no timeout of its own.
package dtc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/jeranaias/dtbutil/internal/util"
)

// DefaultPath is the compiler looked up on PATH when none is configured.
const DefaultPath = "dtc"

// Result is what a finished compiler run reports back.
type Result struct {
	ExitCode int
	Stderr   string
}

// Runner runs the compiler with args.
// A non-nil error means the process could not be run at all.
type Runner interface {
	Run(ctx context.Context, args []string) (Result, error)
}

// DecompileArgs builds the argument list for a DTB -> DTS translation:
// input format dtb, output format dts, symbol/include support (-@),
// ePAPR phandle properties, explicit output then input.
func DecompileArgs(in, out string) []string {
	return []string{
		"-I", "dtb",
		"-O", "dts",
		"-@",
		"-H", "epapr",
		"-o", out,
		in,
	}
}

// ExecRunner runs the compiler binary at Path with os/exec.
type ExecRunner struct {
	Path   string
	Logger *slog.Logger
}

// NewExecRunner returns a runner for the binary at path (DefaultPath if empty).
func NewExecRunner(path string, logger *slog.Logger) *ExecRunner {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExecRunner{Path: path, Logger: logger}
}

// Run starts the compiler and waits for it. Stdout is discarded; stderr is
// captured into the result. A non-zero exit is not an error here; callers
// inspect Result.ExitCode.
func (r *ExecRunner) Run(ctx context.Context, args []string) (Result, error) {
	path := r.Path
	if path == "" {
		path = DefaultPath
	}

	cmd := exec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if r.Logger != nil {
		r.Logger.Debug("running compiler", "cmd", path+" "+strings.Join(args, " "))
	}

	err := cmd.Run()
	res := Result{ExitCode: 0, Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if ctx.Err() != nil {
		return Result{ExitCode: -1, Stderr: res.Stderr}, ctx.Err()
	}
	return Result{ExitCode: -1, Stderr: res.Stderr}, err
}

// ExternalToolError reports a failed compiler invocation for one file pair.
type ExternalToolError struct {
	Input    string
	Output   string
	ExitCode int
	Stderr   string
	Err      error // set when the process could not be run
}

func (e *ExternalToolError) Error() string {
	var detail string
	switch {
	case e.Err != nil:
		detail = e.Err.Error()
	case strings.TrimSpace(e.Stderr) != "":
		detail = util.TruncateOutput(util.LastLines(e.Stderr, 3), util.DefaultOutputWidth)
	default:
		detail = "no error output"
	}
	return fmt.Sprintf("dtc failed converting %s -> %s (exit %d): %s", e.Input, e.Output, e.ExitCode, detail)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}
