// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

// ParserConfig holds the Parser's tunable behavior. There is no
// file-based configuration surface for this library (see DESIGN.md);
// callers construct a ParserConfig directly or via ParserOption, mirroring
// the functional-options shape used by signadot/tony-format's
// stream.StreamOption.
type ParserConfig struct {
	// TabSize is the tab width used for column accounting. Default 4.
	TabSize int
	// MaxRecursion bounds function-call expansion depth. Default
	// MaxRecursion (16). Zero means "use the default"; negative values
	// are clamped to 0 (no function-call expansion permitted).
	MaxRecursion int
}

// DefaultParserConfig returns the Parser's default configuration.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		TabSize:      DefaultTabSize,
		MaxRecursion: MaxRecursion,
	}
}

// ParserOption mutates a ParserConfig in place.
type ParserOption func(*ParserConfig)

// WithTabSize overrides the Byte Source's tab width.
func WithTabSize(n int) ParserOption {
	return func(c *ParserConfig) { c.TabSize = n }
}

// WithMaxRecursion overrides the function-call expansion depth limit.
func WithMaxRecursion(n int) ParserOption {
	return func(c *ParserConfig) { c.MaxRecursion = n }
}

// WriterConfig holds the Writer's tunable behavior, per spec §6.3.
type WriterConfig struct {
	// UseTabs selects tabs over spaces for indentation.
	UseTabs bool
	// TabSize is the indentation width (spaces per level, or the
	// declared-equivalent width when UseTabs is set).
	TabSize int
	// RootBraces forces the root container to be wrapped in '{' '}'
	// even when every member could be written bare.
	RootBraces bool
	// OutputHeader prepends "#thjson\n" before the first event, in
	// expanded mode only.
	OutputHeader bool
	// RootGap inserts a blank line between top-level members.
	RootGap bool
	// DefaultCompact sets the initial compact-layout hint for
	// containers that do not otherwise request one explicitly via
	// SetCompact.
	DefaultCompact bool
}

// DefaultWriterConfig returns the Writer's default configuration:
// expanded layout, space indentation, no header, no root braces.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		UseTabs:        false,
		TabSize:        2,
		RootBraces:     false,
		OutputHeader:   false,
		RootGap:        false,
		DefaultCompact: false,
	}
}

// WriterOption mutates a WriterConfig in place.
type WriterOption func(*WriterConfig)

// WithUseTabs selects tab-based indentation.
func WithUseTabs(use bool) WriterOption {
	return func(c *WriterConfig) { c.UseTabs = use }
}

// WithWriterTabSize overrides the indentation width.
func WithWriterTabSize(n int) WriterOption {
	return func(c *WriterConfig) { c.TabSize = n }
}

// WithRootBraces forces a braced root container.
func WithRootBraces(v bool) WriterOption {
	return func(c *WriterConfig) { c.RootBraces = v }
}

// WithOutputHeader toggles the "#thjson" header line.
func WithOutputHeader(v bool) WriterOption {
	return func(c *WriterConfig) { c.OutputHeader = v }
}

// WithRootGap toggles a blank line between top-level members.
func WithRootGap(v bool) WriterOption {
	return func(c *WriterConfig) { c.RootGap = v }
}

// WithDefaultCompact sets the default per-container compact hint.
func WithDefaultCompact(v bool) WriterOption {
	return func(c *WriterConfig) { c.DefaultCompact = v }
}
