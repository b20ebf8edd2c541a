// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/dtbutil/internal/batch"
	"github.com/jeranaias/dtbutil/internal/dtb"
	"github.com/jeranaias/dtbutil/internal/dtc"
	"github.com/jeranaias/dtbutil/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete dtbutil configuration.
type Config struct {
	DTC    DTCConfig    `toml:"dtc"`
	Trim   TrimConfig   `toml:"trim"`
	Batch  BatchConfig  `toml:"batch"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// DTCConfig locates the device tree compiler.
type DTCConfig struct {
	// Path is a binary name looked up on PATH, or an explicit path.
	Path string `toml:"path"`
}

// TrimConfig holds defaults for the trim command.
type TrimConfig struct {
	Backup bool   `toml:"backup"`
	Suffix string `toml:"suffix"`
}

// BatchConfig controls what happens after a per-file failure.
type BatchConfig struct {
	// OnError is one of "prompt", "abort", "continue".
	OnError string `toml:"on_error"`
}

// OutputConfig controls console rendering.
type OutputConfig struct {
	Color bool `toml:"color"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Verbose bool `toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DTC:    DTCConfig{Path: dtc.DefaultPath},
		Trim:   TrimConfig{Backup: false, Suffix: dtb.DefaultBackupSuffix},
		Batch:  BatchConfig{OnError: string(batch.PolicyPrompt)},
		Output: OutputConfig{Color: true},
		Log:    LogConfig{Verbose: false},
	}
}

// Policy returns Batch.OnError parsed. Call after Validate.
func (c *Config) Policy() batch.Policy {
	p, err := batch.ParsePolicy(c.Batch.OnError)
	if err != nil {
		return batch.PolicyPrompt
	}
	return p
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// EnvConfigPath names the variable that overrides the config file location.
const EnvConfigPath = "DTBUTIL_CONFIG"

// ConfigDir returns the dtbutil configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".dtbutil"), nil
}

// ConfigPath returns the default path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolvePath picks the config file: explicit wins, then $DTBUTIL_CONFIG,
// then the default location.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	return ConfigPath()
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadError reports a config file that could not be read, decoded or
// validated.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads path on top of the defaults, applies environment overrides
// and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := LoadTOML(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: err}
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return cfg, nil
}

// LoadTOML decodes path into cfg. Keys absent from the file keep the
// values already in cfg; unknown keys are rejected.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// ErrExists is returned by WriteDefault when the file is already present.
var ErrExists = errors.New("config file already exists")

// Encode renders cfg as TOML with a short header.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# dtbutil configuration file\n")
	buf.WriteString("# Generated by dtbutil config init\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTOML writes cfg to path atomically.
func SaveTOML(cfg *Config, path string) error {
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0644, 0755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// WriteDefault saves Default() to path. Without force an existing file
// is left alone and ErrExists is returned.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	return SaveTOML(Default(), path)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.DTC.Path) == "" {
		errs = append(errs, ValidationError{Field: "dtc.path", Message: "must not be empty"})
	}

	switch {
	case c.Trim.Suffix == "" || c.Trim.Suffix == ".":
		errs = append(errs, ValidationError{Field: "trim.suffix", Message: "must not be empty"})
	case strings.ContainsAny(c.Trim.Suffix, `/\`):
		errs = append(errs, ValidationError{
			Field:   "trim.suffix",
			Message: fmt.Sprintf("'%s' must not contain a path separator", c.Trim.Suffix),
		})
	}

	if _, err := batch.ParsePolicy(c.Batch.OnError); err != nil {
		errs = append(errs, ValidationError{
			Field:   "batch.on_error",
			Message: fmt.Sprintf("invalid policy '%s', must be one of: prompt, abort, continue", c.Batch.OnError),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - DTBUTIL_DTC: overrides dtc.path
//   - DTBUTIL_ON_ERROR: overrides batch.on_error
//   - DTBUTIL_BACKUP_SUFFIX: overrides trim.suffix
//   - DTBUTIL_VERBOSE: "1"/"true" enables log.verbose
//   - NO_COLOR: any non-empty value disables output.color
func (c *Config) ApplyEnvOverrides() {
	if path := os.Getenv("DTBUTIL_DTC"); path != "" {
		c.DTC.Path = path
	}
	if policy := os.Getenv("DTBUTIL_ON_ERROR"); policy != "" {
		c.Batch.OnError = policy
	}
	if suffix := os.Getenv("DTBUTIL_BACKUP_SUFFIX"); suffix != "" {
		c.Trim.Suffix = suffix
	}
	if verbose := os.Getenv("DTBUTIL_VERBOSE"); verbose != "" {
		if v, err := strconv.ParseBool(verbose); err == nil {
			c.Log.Verbose = v
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = false
	}
}

// String renders the configuration as TOML, for `config show` and debug
// logs.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<unencodable config: %v>", err)
	}
	return buf.String()
}
