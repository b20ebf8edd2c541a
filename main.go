// dtbutil - Device tree blob utilities: decompile to DTS, trim padding.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/dtbutil/internal/cli"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

func init() {
	cli.Version = Version
}

func main() {
	os.Exit(run())
}

func run() int {
	// Ctrl-C cancels the running compiler and stops the batch.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewApp().Execute(ctx, os.Args[1:])
}
