// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Command dispatch and per-run setup.

package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/jeranaias/dtbutil/internal/batch"
	"github.com/jeranaias/dtbutil/internal/config"
	"github.com/jeranaias/dtbutil/internal/console"
	"github.com/jeranaias/dtbutil/internal/dtc"
)

// App runs one dtbutil invocation. The zero value is not usable; call
// NewApp.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// NewRunner builds the compiler runner for todts.
	NewRunner func(path string, logger *slog.Logger) dtc.Runner
	// IsTTY reports whether the continue prompt can be shown.
	IsTTY func() bool
	// Prompt reads the operator's answer to the continue prompt.
	Prompt PromptFunc
}

// NewApp returns an App on the process's standard streams.
func NewApp() *App {
	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewRunner: func(path string, logger *slog.Logger) dtc.Runner {
			return dtc.NewExecRunner(path, logger)
		},
		IsTTY:  IsTTY,
		Prompt: linerPrompt,
	}
}

// Env is everything a command handler needs, built from the config file,
// the environment and the global flags.
type Env struct {
	Console    *console.Console
	Logger     *slog.Logger
	Config     *config.Config
	ConfigPath string
	Decider    batch.Decider
}

// Execute parses argv, runs the command and returns the exit code.
func (a *App) Execute(ctx context.Context, argv []string) int {
	cmd, args, err := Parse(argv)
	if err != nil {
		con := console.New(a.Stdout, a.Stderr, console.WithColor(!args.NoColor && os.Getenv("NO_COLOR") == ""))
		DisplayError(con, err)
		return GetExitCode(err)
	}

	switch cmd {
	case CmdVersion:
		PrintVersion(a.Stdout)
		return ExitSuccess
	case CmdHelp:
		PrintCommandUsage(a.Stdout, args.HelpTopic)
		return ExitSuccess
	}

	env, err := a.setup(args, cmd != CmdConfig)
	if err != nil {
		con := console.New(a.Stdout, a.Stderr, console.WithColor(!args.NoColor && os.Getenv("NO_COLOR") == ""))
		DisplayError(con, err)
		return GetExitCode(err)
	}

	switch cmd {
	case CmdToDTS:
		err = a.HandleToDTS(ctx, env, args)
	case CmdTrim:
		err = HandleTrim(ctx, env, args)
	case CmdConfig:
		err = HandleConfig(env, args)
	}

	DisplayError(env.Console, err)
	return GetExitCode(err)
}

// setup loads the configuration and layers the global flags over it.
// With strict unset a broken config file is tolerated (defaults are used)
// so that `config path` and `config init --force` still work.
func (a *App) setup(args Args, strict bool) (*Env, error) {
	path, err := config.ResolvePath(args.ConfigPath)
	if err != nil {
		return nil, &config.LoadError{Path: args.ConfigPath, Err: err}
	}

	cfg, loadErr := config.Load(path)
	if loadErr != nil {
		if strict {
			return nil, loadErr
		}
		cfg = config.Default()
	}

	if args.OnError != "" {
		cfg.Batch.OnError = args.OnError
	}
	if args.Suffix != "" {
		cfg.Trim.Suffix = args.Suffix
	}
	if args.Backup != nil {
		cfg.Trim.Backup = *args.Backup
	}
	if args.NoColor {
		cfg.Output.Color = false
	}
	if args.Verbose {
		cfg.Log.Verbose = true
	}
	// Only flags can have made the config invalid at this point.
	if err := cfg.Validate(); err != nil {
		return nil, &UsageError{Message: "invalid flag value", Err: err}
	}

	env := &Env{
		Console:    console.New(a.Stdout, a.Stderr, console.WithColor(cfg.Output.Color)),
		Logger:     newLogger(a.Stderr, cfg.Log.Verbose),
		Config:     cfg,
		ConfigPath: path,
	}
	if loadErr != nil {
		env.Logger.Warn("ignoring unusable config", "error", loadErr)
	}
	env.Logger.Debug("configuration loaded", "path", path, "dtc", cfg.DTC.Path,
		"on_error", cfg.Batch.OnError, "backup", cfg.Trim.Backup, "suffix", cfg.Trim.Suffix)

	env.Decider = newDecider(cfg.Policy(), env.Console, env.Logger, a.IsTTY(), a.Prompt)
	return env, nil
}
