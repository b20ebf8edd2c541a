// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by dtbutil packages.
//
// # Key Functions
//
//   - TruncateOutput: width-aware, single-line truncation of tool output
//   - LastLines: trailing lines of captured stderr
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
