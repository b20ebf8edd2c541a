// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dtb

import (
	"errors"
	"fmt"
)

// IOError wraps a filesystem failure during backup, header read or truncate.
type IOError struct {
	Op   string // e.g. "backup", "open", "stat", "truncate"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// SizeInconsistencyError reports a file shorter than its header claims.
// Growing a file is never attempted, so the file is left as it is.
type SizeInconsistencyError struct {
	Path     string
	Declared uint32
	Actual   int64
}

func (e *SizeInconsistencyError) Error() string {
	return fmt.Sprintf("%s is smaller (%d bytes) than its header declares (%d bytes); not modified",
		e.Path, e.Actual, e.Declared)
}

// BackupExistsError reports that the backup target is already present.
// Existing backups are never overwritten and the input is skipped.
type BackupExistsError struct {
	Path       string
	BackupPath string
}

func (e *BackupExistsError) Error() string {
	return fmt.Sprintf("backup %s already exists; skipping %s", e.BackupPath, e.Path)
}

// IsWarning reports whether err describes a skipped file rather than a
// failure. Warnings are reported but never gate the rest of the batch.
func IsWarning(err error) bool {
	var sizeErr *SizeInconsistencyError
	var existsErr *BackupExistsError
	return errors.As(err, &sizeErr) || errors.As(err, &existsErr)
}
