// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package batch holds the continue-or-abort policy shared by every command
// that walks a list of input files.
//
// After each recoverable per-file failure a Decider is asked whether to
// keep going. Interactive runs ask the operator; non-interactive runs use
// a fixed Policy.
package batch

import (
	"fmt"
	"strings"
)

// Decider decides whether a batch continues after err.
type Decider interface {
	ShouldContinue(err error) bool
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(err error) bool

// ShouldContinue calls f(err).
func (f DeciderFunc) ShouldContinue(err error) bool {
	return f(err)
}

// Policy is the configured reaction to a per-file failure.
type Policy string

const (
	// PolicyPrompt asks the operator (default answer: abort).
	PolicyPrompt Policy = "prompt"
	// PolicyAbort stops the batch at the first failure.
	PolicyAbort Policy = "abort"
	// PolicyContinue reports the failure and moves on.
	PolicyContinue Policy = "continue"
)

// Policies lists every valid policy, in help-text order.
var Policies = []Policy{PolicyPrompt, PolicyAbort, PolicyContinue}

// ParsePolicy parses a policy name (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Policies {
		if p == valid {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown error policy %q (want prompt, abort or continue)", s)
}

// Fixed returns a Decider that always answers according to p.
// PolicyPrompt has no terminal to ask here, so it answers like the
// prompt's default: abort.
func Fixed(p Policy) Decider {
	cont := p == PolicyContinue
	return DeciderFunc(func(error) bool { return cont })
}

// AbortError ends a batch early. Item is the input that failed last.
type AbortError struct {
	Item  string
	Cause error
}

func (e *AbortError) Error() string {
	if e.Item == "" {
		return "batch aborted"
	}
	return fmt.Sprintf("batch aborted at %s", e.Item)
}

func (e *AbortError) Unwrap() error {
	return e.Cause
}

// Check consults d about err raised while processing item. It returns nil
// when the batch should carry on and *AbortError otherwise.
func Check(d Decider, item string, err error) error {
	if d != nil && d.ShouldContinue(err) {
		return nil
	}
	return &AbortError{Item: item, Cause: err}
}
