// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dtb

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

// DefaultBackupSuffix is appended to the input path when no suffix is given.
const DefaultBackupSuffix = "bak"

// BackupPath returns "<path>.<suffix>". A leading dot on suffix is ignored.
func BackupPath(path, suffix string) string {
	suffix = strings.TrimPrefix(suffix, ".")
	if suffix == "" {
		suffix = DefaultBackupSuffix
	}
	return path + "." + suffix
}

// CreateBackup copies src to dst byte for byte. dst must not exist; an
// existing dst yields *BackupExistsError and neither file is touched.
// A partially written dst is removed on failure.
func CreateBackup(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &BackupExistsError{Path: src, BackupPath: dst}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "backup", Path: dst, Err: err}
	}

	in, err := os.Open(src)
	if err != nil {
		return &IOError{Op: "backup", Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &IOError{Op: "backup", Path: src, Err: err}
	}

	// O_EXCL closes the window between the Lstat above and the create.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &BackupExistsError{Path: src, BackupPath: dst}
		}
		return &IOError{Op: "backup", Path: dst, Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return &IOError{Op: "backup", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return &IOError{Op: "backup", Path: dst, Err: err}
	}
	return nil
}
