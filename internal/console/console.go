// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console is the output sink handed to every command handler.
//
// It has two channels: Out for progress and successes, Err for warnings
// and errors. Nothing in dtbutil writes to os.Stdout or os.Stderr
// directly; handlers receive a *Console instead.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Console writes styled lines to its two streams.
type Console struct {
	out io.Writer
	err io.Writer

	outStyles Styles
	errStyles Styles
}

// Option configures a Console.
type Option func(*options)

type options struct {
	color bool
}

// WithColor enables or disables colour. Colour is on by default but is
// still dropped for streams that are not terminals and when NO_COLOR is set.
func WithColor(enabled bool) Option {
	return func(o *options) { o.color = enabled }
}

// New returns a Console writing progress to out and problems to err.
func New(out, err io.Writer, opts ...Option) *Console {
	o := options{color: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Console{
		out:       out,
		err:       err,
		outStyles: NewStyles(newRenderer(out, o.color)),
		errStyles: NewStyles(newRenderer(err, o.color)),
	}
}

func newRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// Err is the error stream.
func (c *Console) Err() io.Writer { return c.err }

// Println writes an unstyled line to Out.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes unstyled formatted text to Out.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Success writes an [OK] line to Out.
func (c *Console) Success(format string, a ...any) {
	fmt.Fprintf(c.out, "%s %s\n", c.outStyles.Status("ok"), fmt.Sprintf(format, a...))
}

// Info writes a plain progress line to Out.
func (c *Console) Info(format string, a ...any) {
	fmt.Fprintln(c.out, c.outStyles.Info.Render(fmt.Sprintf(format, a...)))
}

// Warn writes a [WARN] line to Err.
func (c *Console) Warn(format string, a ...any) {
	fmt.Fprintf(c.err, "%s %s\n", c.errStyles.Status("warn"), fmt.Sprintf(format, a...))
}

// Error writes a [FAIL] line to Err.
func (c *Console) Error(format string, a ...any) {
	fmt.Fprintf(c.err, "%s %s\n", c.errStyles.Status("fail"), fmt.Sprintf(format, a...))
}

// Dim renders s de-emphasised for Out.
func (c *Console) Dim(s string) string {
	return c.outStyles.Dim.Render(s)
}
