// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the extension given to generated device tree sources.
const SourceExt = ".dts"

// Job is one input paired with the file the compiler will write.
type Job struct {
	Input  string
	Output string
}

// ConfigurationError reports an input/output combination that cannot be
// satisfied. It is raised before any file is converted.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid output configuration: " + e.Reason
}

// ResolveOutputs pairs every input with its output path.
//
//   - outpath empty: sibling file, same stem, .dts extension
//   - outpath an existing directory: <outpath>/<stem>.dts
//   - outpath a file (existing or not) and one input: outpath itself
//   - outpath a file and several inputs: *ConfigurationError
//   - outpath ending in a separator but not an existing directory:
//     *ConfigurationError
//
// Two inputs resolving to the same output, or an output equal to its
// input, are also configuration errors.
func ResolveOutputs(inputs []string, outpath string) ([]Job, error) {
	if len(inputs) == 0 {
		return nil, &ConfigurationError{Reason: "no input files"}
	}

	var dir string
	if outpath != "" {
		info, err := os.Stat(outpath)
		switch {
		case err == nil && info.IsDir():
			dir = outpath
		case errors.Is(err, fs.ErrNotExist) && hasTrailingSeparator(outpath):
			return nil, &ConfigurationError{Reason: fmt.Sprintf("output directory %s does not exist", outpath)}
		case err == nil || errors.Is(err, fs.ErrNotExist):
			if len(inputs) > 1 {
				return nil, &ConfigurationError{Reason: fmt.Sprintf(
					"%d inputs but output %s is a single file; pass a directory instead", len(inputs), outpath)}
			}
			return checkJobs([]Job{{Input: inputs[0], Output: outpath}})
		default:
			return nil, &ConfigurationError{Reason: fmt.Sprintf("cannot use output %s: %v", outpath, err)}
		}
	}

	jobs := make([]Job, 0, len(inputs))
	for _, in := range inputs {
		target := filepath.Dir(in)
		if dir != "" {
			target = dir
		}
		jobs = append(jobs, Job{Input: in, Output: filepath.Join(target, stem(in)+SourceExt)})
	}
	return checkJobs(jobs)
}

func hasTrailingSeparator(path string) bool {
	return strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func checkJobs(jobs []Job) ([]Job, error) {
	seen := make(map[string]string, len(jobs))
	for _, j := range jobs {
		out := filepath.Clean(j.Output)
		if out == filepath.Clean(j.Input) {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("output %s would overwrite its input", j.Output)}
		}
		if prev, ok := seen[out]; ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf(
				"%s and %s both resolve to output %s", prev, j.Input, j.Output)}
		}
		seen[out] = j.Input
	}
	return jobs, nil
}
