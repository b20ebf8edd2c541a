// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// trim.go - Truncate a padded DTB to the size its header declares.
//
// Per file:
//  1. optional backup to <path>.<suffix> (never overwrites)
//  2. header read and magic check
//  3. declared vs actual size:
//     equal   -> nothing written, a fresh backup is removed
//     larger  -> warning, nothing written
//     smaller -> truncate to the declared size

package dtb

import (
	"errors"
	"fmt"
	"os"
)

// Options controls a single TrimFile call.
type Options struct {
	Backup bool
	Suffix string
}

// Outcome is what happened to one file.
type Outcome int

const (
	// OutcomeFailed means an error stopped processing before any decision.
	OutcomeFailed Outcome = iota
	// OutcomeTrimmed means trailing bytes were cut off.
	OutcomeTrimmed
	// OutcomeUnchanged means the file already had its declared size.
	OutcomeUnchanged
	// OutcomeSkipped means the file was left alone on purpose (warning).
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTrimmed:
		return "trimmed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result describes one TrimFile call.
type Result struct {
	Path    string
	Outcome Outcome

	// Backup is the backup path left on disk, empty if none remains.
	Backup string
	// BackupRemoved is set when a backup was made and then deleted
	// because no change was needed.
	BackupRemoved bool

	Declared uint32
	Before   int64
	After    int64
}

// TrimFile runs the trim state machine on path. Warnings
// (*BackupExistsError, *SizeInconsistencyError) come back with
// OutcomeSkipped; other errors come back with OutcomeFailed.
func TrimFile(path string, opts Options) (Result, error) {
	res := Result{Path: path, Outcome: OutcomeFailed}

	if opts.Backup {
		backup := BackupPath(path, opts.Suffix)
		if err := CreateBackup(path, backup); err != nil {
			var existsErr *BackupExistsError
			if errors.As(err, &existsErr) {
				res.Outcome = OutcomeSkipped
			}
			return res, err
		}
		res.Backup = backup
	}

	hdr, size, err := readHeaderAndSize(path)
	if err != nil {
		// A backup made above stays in place for inspection.
		return res, err
	}
	res.Declared = hdr.TotalSize
	res.Before = size
	res.After = size

	declared := int64(hdr.TotalSize)
	switch {
	case declared == size:
		res.Outcome = OutcomeUnchanged
		if res.Backup != "" {
			if err := os.Remove(res.Backup); err != nil {
				return res, &IOError{Op: "remove backup", Path: res.Backup, Err: err}
			}
			res.Backup = ""
			res.BackupRemoved = true
		}
		return res, nil

	case declared > size:
		res.Outcome = OutcomeSkipped
		return res, &SizeInconsistencyError{Path: path, Declared: hdr.TotalSize, Actual: size}

	default:
		if err := truncate(path, declared); err != nil {
			return res, err
		}
		res.Outcome = OutcomeTrimmed
		res.After = declared
		return res, nil
	}
}

func readHeaderAndSize(path string) (Header, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, 0, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	hdr, err := ReadHeader(f)
	if err != nil {
		var formatErr *FormatError
		if errors.As(err, &formatErr) {
			formatErr.Path = path
			return Header{}, 0, formatErr
		}
		return Header{}, 0, &IOError{Op: "read header", Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		return Header{}, 0, &IOError{Op: "stat", Path: path, Err: err}
	}
	return hdr, info.Size(), nil
}

func truncate(path string, size int64) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return &IOError{Op: "truncate", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: fmt.Errorf("after truncate: %w", err)}
	}
	return nil
}
