// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for dtbutil.
//
// # Configuration Precedence
//
// Effective settings are built from (highest first):
//   - command-line flags (applied by the cli package)
//   - environment variables (DTBUTIL_*, NO_COLOR)
//   - the TOML file (--config, $DTBUTIL_CONFIG or ~/.dtbutil/config.toml)
//   - built-in defaults
//
// # Usage
//
//	path, _ := config.ResolvePath("")
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	runner := dtc.NewExecRunner(cfg.DTC.Path, logger)
package config
