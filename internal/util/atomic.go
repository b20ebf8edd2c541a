// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteError names the step of AtomicWriteFile that failed.
type WriteError struct {
	Path string
	Step string // "mkdir", "temp", "write", "rename"
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s: %v", e.Path, e.Step, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// AtomicWriteFile replaces path with data. Readers see either the old
// file or the complete new one, never a partial config. Missing parent
// directories are created with dirPerm.
func AtomicWriteFile(path string, data []byte, perm, dirPerm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return &WriteError{Path: path, Step: "mkdir", Err: err}
	}

	tmp, err := writeTemp(dir, filepath.Base(path), data, perm)
	if err != nil {
		return &WriteError{Path: path, Step: "write", Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &WriteError{Path: path, Step: "rename", Err: err}
	}
	return nil
}

// writeTemp stores data in a hidden sibling of base and returns its name.
// The temp file shares dir with the target so the rename stays on one
// filesystem. It is removed again on any failure.
func writeTemp(dir, base string, data []byte, perm os.FileMode) (name string, err error) {
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", err
	}
	name = f.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			f.Close()
		}
		os.Remove(name)
	}()

	if _, err = f.Write(data); err != nil {
		return "", err
	}
	if err = f.Sync(); err != nil {
		return "", err
	}
	// Closed before the chmod and rename; Windows refuses both on open files.
	closed = true
	if err = f.Close(); err != nil {
		return "", err
	}
	if err = os.Chmod(name, perm); err != nil {
		return "", err
	}
	return name, nil
}
