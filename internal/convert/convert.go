// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package convert turns device tree blobs into device tree sources by
// running the external compiler once per input, in order.
package convert

import (
	"context"
	"log/slog"

	"github.com/jeranaias/dtbutil/internal/batch"
	"github.com/jeranaias/dtbutil/internal/console"
	"github.com/jeranaias/dtbutil/internal/dtc"
)

// Converter is the todts command handler.
type Converter struct {
	Runner  dtc.Runner
	Console *console.Console
	Decider batch.Decider
	Logger  *slog.Logger
}

// Summary counts what a Run did.
type Summary struct {
	Total     int
	Converted int
	Failed    int
}

// Run converts inputs. Output paths are resolved for the whole batch
// first; a *ConfigurationError returns before the compiler runs at all.
// A declined failure returns *batch.AbortError.
func (c *Converter) Run(ctx context.Context, inputs []string, outpath string) (Summary, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	jobs, err := ResolveOutputs(inputs, outpath)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Total: len(jobs)}
	for _, job := range jobs {
		logger.Debug("converting", "input", job.Input, "output", job.Output)

		res, runErr := c.Runner.Run(ctx, dtc.DecompileArgs(job.Input, job.Output))
		if runErr == nil && res.ExitCode == 0 {
			sum.Converted++
			c.Console.Success("%s -> %s", job.Input, job.Output)
			continue
		}

		sum.Failed++
		toolErr := &dtc.ExternalToolError{
			Input:    job.Input,
			Output:   job.Output,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
			Err:      runErr,
		}
		c.Console.Error("%v", toolErr)

		if ctx.Err() != nil {
			return sum, &batch.AbortError{Item: job.Input, Cause: ctx.Err()}
		}
		if err := batch.Check(c.Decider, job.Input, toolErr); err != nil {
			return sum, err
		}
	}

	c.Console.Info("converted %d of %d", sum.Converted, sum.Total)
	return sum, nil
}
