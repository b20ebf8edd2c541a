// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package trim is the trim command handler. It runs dtb.TrimFile over a
// batch of inputs, reports each result and gates failures through a
// batch.Decider.
package trim

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/dtbutil/internal/batch"
	"github.com/jeranaias/dtbutil/internal/console"
	"github.com/jeranaias/dtbutil/internal/dtb"
)

// Trimmer processes trim batches.
type Trimmer struct {
	Console *console.Console
	Decider batch.Decider
	Logger  *slog.Logger
	Options dtb.Options
}

// Summary counts per-outcome results for a Run.
type Summary struct {
	Total     int
	Trimmed   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Run trims paths in order. Skipped files are reported as warnings and
// never consult the Decider. A declined failure stops the batch and
// returns *batch.AbortError; files already handled keep their new state.
func (t *Trimmer) Run(ctx context.Context, paths []string) (Summary, error) {
	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sum := Summary{Total: len(paths)}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return sum, &batch.AbortError{Item: path, Cause: err}
		}

		logger.Debug("trimming", "path", path, "backup", t.Options.Backup, "suffix", t.Options.Suffix)
		res, err := dtb.TrimFile(path, t.Options)
		logger.Debug("trim result", "path", path, "outcome", res.Outcome.String(),
			"declared", res.Declared, "before", res.Before, "after", res.After)

		switch {
		case err != nil && dtb.IsWarning(err):
			sum.Skipped++
			t.Console.Warn("%v", err)
			continue
		case err == nil && res.Outcome == dtb.OutcomeTrimmed:
			sum.Trimmed++
			t.reportTrimmed(res)
			continue
		case err == nil && res.Outcome == dtb.OutcomeUnchanged:
			sum.Unchanged++
			t.reportUnchanged(res)
			continue
		}

		sum.Failed++
		t.Console.Error("%v", err)
		if err := batch.Check(t.Decider, path, err); err != nil {
			return sum, err
		}
	}

	t.Console.Info("trimmed %d, unchanged %d, skipped %d, failed %d",
		sum.Trimmed, sum.Unchanged, sum.Skipped, sum.Failed)
	return sum, nil
}

func (t *Trimmer) reportTrimmed(res dtb.Result) {
	msg := res.Path + ": " + humanize.IBytes(uint64(res.Before)) + " -> " + humanize.IBytes(uint64(res.After)) +
		" (" + humanize.Comma(res.Before-res.After) + " bytes removed)"
	if res.Backup != "" {
		msg += ", backup " + res.Backup
	}
	t.Console.Success("%s", msg)
}

func (t *Trimmer) reportUnchanged(res dtb.Result) {
	msg := res.Path + ": no change needed (" + humanize.IBytes(uint64(res.Before)) + ")"
	if res.BackupRemoved {
		msg += ", backup removed"
	}
	t.Console.Info("%s", msg)
}
