// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing for dtbutil.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Version is set from main, which can be overridden at build time.
var Version = "0.1.0"

// ProgramName is the name shown in usage and version output.
const ProgramName = "dtbutil"

// Command represents the CLI command to execute.
type Command int

const (
	CmdHelp Command = iota
	CmdToDTS
	CmdTrim
	CmdConfig
	CmdVersion
)

func (c Command) String() string {
	switch c {
	case CmdToDTS:
		return "todts"
	case CmdTrim:
		return "trim"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose    bool
	NoColor    bool
	OnError    string // empty means "use config"
	ConfigPath string // empty means "use $DTBUTIL_CONFIG or default"

	// todts / trim
	Inputs  []string
	OutPath string
	Backup  *bool  // nil means "use config"
	Suffix  string // empty means "use config"

	// config
	Subcommand string
	Force      bool

	// HelpTopic is the command whose help was asked for, if any.
	HelpTopic string
}

var (
	todtsFlags = []FlagDef{
		{Name: "outpath", Short: "o"},
	}
	trimFlags = []FlagDef{
		{Name: "backup", Short: "b", Bool: true},
		{Name: "suffix", Short: "s"},
	}
	configFlags = []FlagDef{
		{Name: "force", Bool: true},
	}
)

const usageText = `%[1]s - device tree blob utilities

Usage:
  %[1]s [global flags] <command> [args]

Commands:
  todts <infile...>    Decompile DTB files to DTS with the dtc compiler
    -o, --outpath PATH   Output file (single input) or directory
  trim <infile...>     Truncate DTB files to the size their header declares
    -b, --backup         Copy each file to <file>.<suffix> first
    -s, --suffix STR     Backup suffix (default "bak")
  config [show|path|init]
                       Show the effective config, its path, or write defaults
    --force              Let init overwrite an existing file
  version              Print the version
  help [command]       Show this help

Global flags:
  -v, --version        Print the version and exit (wins over other flags)
  -h, --help           Show help
  --verbose            Debug logging on stderr
  --no-color           Disable coloured output
  --on-error POLICY    prompt, abort or continue after a per-file failure;
                       prompt asks [y/N] and only y or yes continues
  --config PATH        Config file (default ~/.dtbutil/config.toml)

Use -- to end flag parsing, e.g. "%[1]s trim -- -odd-name.dtb".

Environment:
  DTBUTIL_CONFIG, DTBUTIL_DTC, DTBUTIL_ON_ERROR, DTBUTIL_BACKUP_SUFFIX,
  DTBUTIL_VERBOSE, NO_COLOR

Exit codes:
  0 success, 1 error, 2 usage, 3 configuration, 9 aborted
`

var commandUsage = map[string]string{
	"todts": `Usage: dtbutil todts <infile...> [-o|--outpath PATH]

Converts each DTB to DTS by running: dtc -I dtb -O dts -@ -H epapr -o <out> <in>

  no --outpath          write <stem>.dts next to each input
  --outpath DIR         write DIR/<stem>.dts
  --outpath FILE        write FILE (only with a single input)

A path ending in a separator must name an existing directory.
After a failed file, the continue prompt takes y or yes; anything else
stops the batch.
`,
	"trim": `Usage: dtbutil trim <infile...> [-b|--backup] [-s|--suffix STR]

Truncates each DTB to the totalsize in its header. Files already at that
size are not written. Files shorter than declared are reported and left alone.
Existing backups are never overwritten; that input is skipped instead.
After a failed file, the continue prompt takes y or yes; anything else
stops the batch.
`,
	"config": `Usage: dtbutil config [show|path|init [--force]]

  show    print the effective configuration as TOML (default)
  path    print the config file path
  init    write the default configuration
`,
}

// PrintUsage writes the general help text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, ProgramName)
}

// PrintCommandUsage writes help for one command, or the general help if
// the command has none of its own.
func PrintCommandUsage(w io.Writer, command string) {
	if text, ok := commandUsage[command]; ok {
		fmt.Fprint(w, text)
		return
	}
	PrintUsage(w)
}

// PrintVersion writes "<name> v<version>".
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "%s v%s\n", ProgramName, Version)
}

// Parse parses argv (without the program name).
//
// -v/--version anywhere before "--" wins over everything else, including
// invalid usage, unless it is the value of a flag such as --suffix. Global flags may appear before or after the command.
func Parse(argv []string) (Command, Args, error) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			break
		}
		if arg == "-v" || arg == "--version" {
			return CmdVersion, Args{}, nil
		}
		// "trim -s -v" names a suffix, not a version request.
		if takesValue(arg) {
			i++
		}
	}

	remaining, parsedArgs, help, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, parsedArgs, err
	}

	if len(remaining) == 0 {
		if help {
			return CmdHelp, parsedArgs, nil
		}
		return CmdHelp, parsedArgs, &UsageError{Message: "no command given", Hint: "Run 'dtbutil help' for usage."}
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]

	if help {
		parsedArgs.HelpTopic = cmd
		return CmdHelp, parsedArgs, nil
	}

	switch cmd {
	case "todts":
		p, err := ParseArgs(remaining, todtsFlags)
		if err != nil {
			return CmdToDTS, parsedArgs, withHint(err, cmd)
		}
		parsedArgs.Inputs = p.PositionalFrom(0)
		parsedArgs.OutPath = p.Flag("outpath")
		return CmdToDTS, parsedArgs, nil

	case "trim":
		p, err := ParseArgs(remaining, trimFlags)
		if err != nil {
			return CmdTrim, parsedArgs, withHint(err, cmd)
		}
		parsedArgs.Inputs = p.PositionalFrom(0)
		if p.HasFlag("backup") {
			backup := p.BoolFlag("backup")
			parsedArgs.Backup = &backup
		}
		parsedArgs.Suffix = p.Flag("suffix")
		if p.HasFlag("suffix") && parsedArgs.Suffix == "" {
			return CmdTrim, parsedArgs, &UsageError{Message: "--suffix must not be empty"}
		}
		return CmdTrim, parsedArgs, nil

	case "config":
		p, err := ParseArgs(remaining, configFlags)
		if err != nil {
			return CmdConfig, parsedArgs, withHint(err, cmd)
		}
		parsedArgs.Subcommand = p.Positional(0)
		if parsedArgs.Subcommand == "" {
			parsedArgs.Subcommand = "show"
		}
		if p.PositionalCount() > 1 {
			return CmdConfig, parsedArgs, &UsageError{Message: "unexpected argument " + p.Positional(1)}
		}
		parsedArgs.Force = p.BoolFlag("force")
		return CmdConfig, parsedArgs, nil

	case "version":
		return CmdVersion, parsedArgs, nil

	case "help":
		if len(remaining) > 0 {
			parsedArgs.HelpTopic = remaining[0]
		}
		return CmdHelp, parsedArgs, nil

	default:
		hint := "Run 'dtbutil help' for usage."
		if s := SuggestCommand(cmd); s != "" {
			hint = fmt.Sprintf("Did you mean '%s'? %s", s, hint)
		}
		return CmdHelp, parsedArgs, &UsageError{
			Message: fmt.Sprintf("unknown command %q", cmd),
			Hint:    hint,
		}
	}
}

// takesValue reports whether arg is a flag whose value is the next argument.
func takesValue(arg string) bool {
	switch arg {
	case "--on-error", "--config":
		return true
	}
	for _, defs := range [][]FlagDef{todtsFlags, trimFlags, configFlags} {
		for _, d := range defs {
			if d.Bool {
				continue
			}
			if arg == "--"+d.Name || (d.Short != "" && arg == "-"+d.Short) {
				return true
			}
		}
	}
	return false
}

func withHint(err error, cmd string) error {
	var u *UsageError
	if errors.As(err, &u) && u.Hint == "" {
		u.Hint = "Run 'dtbutil help " + cmd + "' for usage."
	}
	return err
}

// parseGlobalFlags pulls global flags out of args wherever they appear
// before "--" and returns what is left in order.
func parseGlobalFlags(args []string) ([]string, Args, bool, error) {
	var remaining []string
	var parsedArgs Args
	help := false

	value := func(i *int, name string) (string, error) {
		if *i+1 >= len(args) {
			return "", &UsageError{Message: "flag " + name + " needs a value"}
		}
		*i++
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		var err error

		switch {
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			return remaining, parsedArgs, help, nil
		case arg == "-h" || arg == "--help":
			help = true
		case arg == "--verbose":
			parsedArgs.Verbose = true
		case arg == "--no-color":
			parsedArgs.NoColor = true
		case arg == "--on-error":
			parsedArgs.OnError, err = value(&i, arg)
		case strings.HasPrefix(arg, "--on-error="):
			parsedArgs.OnError = strings.TrimPrefix(arg, "--on-error=")
		case arg == "--config":
			parsedArgs.ConfigPath, err = value(&i, arg)
		case strings.HasPrefix(arg, "--config="):
			parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			if len(remaining) == 0 && strings.HasPrefix(arg, "-") && arg != "-" {
				err = &UsageError{Message: "unknown flag " + arg, Hint: "Run 'dtbutil help' for usage."}
			}
			remaining = append(remaining, arg)
		}
		if err != nil {
			return nil, parsedArgs, help, err
		}
	}

	return remaining, parsedArgs, help, nil
}
