// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dtb reads the fixed header of device tree blobs and trims padded
// blob files down to their declared size.
//
// Only the first 8 bytes are interpreted: the big-endian magic 0xd00dfeed
// and the big-endian totalsize field. The structure block, strings block
// and memory reservation map are never parsed or validated.
//
// # Usage
//
//	res, err := dtb.TrimFile("board.dtb", dtb.Options{Backup: true, Suffix: "bak"})
//	switch {
//	case dtb.IsWarning(err):
//	    // file skipped on purpose, keep going
//	case err != nil:
//	    // format or I/O failure
//	default:
//	    fmt.Println(res.Outcome, res.Before, res.After)
//	}
package dtb
