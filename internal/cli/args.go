// args.go - Argument parsing shared by the dtbutil commands.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// FlagDef declares one flag a command accepts. Bool flags never consume
// the following argument, so `trim --backup a.dtb` keeps a.dtb positional.
type FlagDef struct {
	Name  string // long name without dashes, e.g. "outpath"
	Short string // single letter without dash, e.g. "o"
	Bool  bool
}

// ArgParser holds the result of parsing a command's arguments against
// its FlagDefs.
//
// Supported flag formats:
//
//	--flag value     Long flag with space-separated value
//	--flag=value     Long flag with equals sign
//	-f value         Short flag with space-separated value
//	--flag           Boolean flag (no value)
//	--               Everything after is positional
//
// Example:
//
//	args, err := ParseArgs([]string{"a.dtb", "-o", "out/", "b.dtb"}, todtsFlags)
//	args.Flag("outpath")     // "out/"
//	args.PositionalFrom(0)   // []string{"a.dtb", "b.dtb"}
type ArgParser struct {
	flags      map[string]string // String flags keyed by long name
	boolFlags  map[string]bool   // Boolean flags keyed by long name
	positional []string
}

// ParseArgs parses raw against defs. Unknown flags and value flags with
// no value are reported as *UsageError.
func ParseArgs(raw []string, defs []FlagDef) (*ArgParser, error) {
	parser := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0, len(raw)),
	}

	lookup := func(name string) (FlagDef, bool) {
		for _, d := range defs {
			if name == d.Name || (d.Short != "" && name == d.Short) {
				return d, true
			}
		}
		return FlagDef{}, false
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			parser.positional = append(parser.positional, raw[i+1:]...)
			break
		}
		// A lone "-" is a positional (conventionally stdin).
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			parser.positional = append(parser.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		value, hasValue := "", false
		if idx := strings.Index(name, "="); idx >= 0 {
			name, value, hasValue = name[:idx], name[idx+1:], true
		}

		def, ok := lookup(name)
		if !ok {
			return nil, &UsageError{Message: "unknown flag " + arg}
		}

		if def.Bool {
			if !hasValue {
				parser.boolFlags[def.Name] = true
				continue
			}
			b, err := ParseBoolString(value)
			if err != nil {
				return nil, &UsageError{Message: "flag --" + def.Name + ": " + err.Error()}
			}
			parser.boolFlags[def.Name] = b
			continue
		}

		if !hasValue {
			if i+1 >= len(raw) {
				return nil, &UsageError{Message: "flag " + arg + " needs a value"}
			}
			i++
			value = raw[i]
		}
		parser.flags[def.Name] = value
	}

	return parser, nil
}

// Flag returns the value of a string flag, or "" if it was not given.
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")]
}

// BoolFlag returns the value of a boolean flag.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[strings.TrimLeft(name, "-")]
}

// HasFlag returns true if the flag was given (either as string or bool flag).
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, hasString := p.flags[name]
	_, hasBool := p.boolFlags[name]
	return hasString || hasBool
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns all positional arguments starting from index.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// =============================================================================
// HELPER FUNCTIONS FOR COMMON ARG PATTERNS
// =============================================================================

// ParseBoolString parses a boolean from various string representations.
// Accepts: true/false, yes/no, y/n, 1/0, on/off (case-insensitive)
func ParseBoolString(s string) (bool, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	default:
		return false, &UsageError{Message: "invalid boolean value: " + s}
	}
}

// IsYes reports whether a prompt answer accepts: "y" or "yes", any case.
func IsYes(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	return a == "y" || a == "yes"
}
