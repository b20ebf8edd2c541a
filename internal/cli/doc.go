// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for dtbutil.
//
// # Key Types
//
//   - Command: the commands dtbutil knows (todts, trim, config, version, help)
//   - Args: parsed global and command-specific flags
//   - App: one invocation; its hooks let tests replace the compiler and
//     the terminal prompt
//   - Env: console, logger, config and decider handed to a command
//
// # Usage
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	code := cli.NewApp().Execute(ctx, os.Args[1:])
//
// Execute never calls os.Exit; the exit code follows GetExitCode.
package cli
