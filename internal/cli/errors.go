// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Exit codes and error display for the dtbutil CLI.

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/dtbutil/internal/batch"
	"github.com/jeranaias/dtbutil/internal/config"
	"github.com/jeranaias/dtbutil/internal/console"
	"github.com/jeranaias/dtbutil/internal/convert"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess covers completed batches, including ones where the
	// operator chose to skip failed files.
	ExitSuccess = 0
	// ExitGeneralError is any failure without a more specific code.
	ExitGeneralError = 1
	// ExitUsageError is bad command-line usage or an unusable input file.
	ExitUsageError = 2
	// ExitConfigError is an invalid config file or output configuration.
	ExitConfigError = 3
	// ExitAborted means the operator or the error policy stopped a batch.
	ExitAborted = 9
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports a command line that cannot be acted on.
type UsageError struct {
	Message string
	Hint    string // optional, shown on its own line
	Err     error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// GetExitCode maps an error returned by a command to the process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var abortErr *batch.AbortError
	if errors.As(err, &abortErr) {
		return ExitAborted
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var outErr *convert.ConfigurationError
	var loadErr *config.LoadError
	if errors.As(err, &outErr) || errors.As(err, &loadErr) {
		return ExitConfigError
	}

	return ExitGeneralError
}

// DisplayError reports the error that ended a command on the error stream.
func DisplayError(c *console.Console, err error) {
	if err == nil {
		return
	}

	var abortErr *batch.AbortError
	if errors.As(err, &abortErr) {
		// The failure itself was already reported by the handler.
		c.Warn("%s", abortErr.Error())
		return
	}

	c.Error("%s", err.Error())

	var usageErr *UsageError
	if errors.As(err, &usageErr) && usageErr.Hint != "" {
		fmt.Fprintln(c.Err(), usageErr.Hint)
	}
}
