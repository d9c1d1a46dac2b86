package cmdline

import (
	"io"
	"os"
)

type options struct {
	stdout       io.Writer
	stderr       io.Writer
	color        bool
	displayEmoji bool
}

// Option configures the cmdline output.
type Option func(*options)

// DefaultOpts writes to the process' standard streams with colour and emoji.
func DefaultOpts() Option {
	return func(opts *options) {
		opts.stdout = os.Stdout
		opts.stderr = os.Stderr
		opts.color = true
		opts.displayEmoji = true
	}
}

// WithStdout redirects regular output to w.
func WithStdout(w io.Writer) Option {
	return func(opts *options) { opts.stdout = w }
}

// WithStderr redirects failure output to w.
func WithStderr(w io.Writer) Option {
	return func(opts *options) { opts.stderr = w }
}

// NoColor disables ANSI colour escapes.
func NoColor() Option {
	return func(opts *options) { opts.color = false }
}

// DisplayEmoji toggles the emoji printed after a finished step.
func DisplayEmoji(display bool) Option {
	return func(opts *options) { opts.displayEmoji = display }
}
