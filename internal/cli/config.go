// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for dtbutil.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Print the effective configuration as TOML
//   path                Print the configuration file path
//   init [--force]      Write the default configuration
//
// Examples:
//   dtbutil config
//   dtbutil --config ./ci.toml config show
//   dtbutil config init --force
package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/dtbutil/internal/config"
)

// HandleConfig runs `dtbutil config`.
func HandleConfig(env *Env, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig(env)
	case "path":
		env.Console.Println(env.ConfigPath)
		return nil
	case "init":
		return initConfig(env, args.Force)
	default:
		return &UsageError{
			Message: fmt.Sprintf("unknown config subcommand %q", args.Subcommand),
			Hint:    "Run 'dtbutil help config' for usage.",
		}
	}
}

func showConfig(env *Env) error {
	// show reports what todts and trim would actually use, so a broken
	// file is an error here even though setup tolerated it.
	if _, err := config.Load(env.ConfigPath); err != nil {
		return err
	}
	env.Console.Printf("%s %s\n", env.Console.Dim("#"), env.Console.Dim(env.ConfigPath))
	env.Console.Printf("%s", env.Config.String())
	return nil
}

func initConfig(env *Env, force bool) error {
	if err := config.WriteDefault(env.ConfigPath, force); err != nil {
		if errors.Is(err, config.ErrExists) {
			return &UsageError{Message: err.Error(), Hint: "Use 'dtbutil config init --force' to overwrite it."}
		}
		return fmt.Errorf("config init: %w", err)
	}
	env.Console.Success("wrote default configuration to %s", env.ConfigPath)
	return nil
}
