// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - The continue-or-abort prompt shown after a per-file failure.

package cli

import (
	"errors"
	"log/slog"

	"github.com/peterh/liner"

	"github.com/jeranaias/dtbutil/internal/batch"
	"github.com/jeranaias/dtbutil/internal/console"
)

// ContinuePrompt is the question asked after a failed file.
const ContinuePrompt = "Continue with the remaining files? [y/N]: "

// PromptFunc shows prompt and returns the operator's answer.
type PromptFunc func(prompt string) (string, error)

// PromptDecider asks the operator whether to continue after each failure.
// Only "y" or "yes" (any case) continues; an empty answer, Ctrl-C, EOF or
// any read error declines.
type PromptDecider struct {
	Prompt PromptFunc
	Logger *slog.Logger
}

// ShouldContinue implements batch.Decider.
func (d *PromptDecider) ShouldContinue(err error) bool {
	answer, perr := d.Prompt(ContinuePrompt)
	if perr != nil {
		if d.Logger != nil && !errors.Is(perr, liner.ErrPromptAborted) {
			d.Logger.Debug("prompt failed", "error", perr)
		}
		return false
	}
	return IsYes(answer)
}

// linerPrompt reads one line with liner. Ctrl-C returns
// liner.ErrPromptAborted instead of killing the process.
func linerPrompt(prompt string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	return line.Prompt(prompt)
}

// newDecider builds the Decider for a policy. PolicyPrompt needs a
// terminal on stdin; without one it answers like the prompt's default
// (abort) and says so once on the error stream.
func newDecider(policy batch.Policy, c *console.Console, logger *slog.Logger, tty bool, prompt PromptFunc) batch.Decider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if policy != batch.PolicyPrompt {
		return batch.Fixed(policy)
	}
	if !tty {
		logger.Debug("stdin is not a terminal; prompt policy answers abort")
		warned := false
		return batch.DeciderFunc(func(error) bool {
			if !warned {
				c.Warn("not a terminal, cannot ask whether to continue; stopping (use --on-error continue to skip failures)")
				warned = true
			}
			return false
		})
	}
	return &PromptDecider{Prompt: prompt, Logger: logger}
}
