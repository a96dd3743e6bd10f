// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a *ParseError or *WriteError per the taxonomy in
// the format's error-handling design: every error is fatal to the
// current parse or write, and is reported with a kind plus position.
type ErrorKind uint8

const (
	// IoError means the underlying byte source or output sink failed.
	IoError ErrorKind = iota
	// UnexpectedEOF means a closing delimiter was missing (unterminated
	// string, comment, byte literal, or container).
	UnexpectedEOF
	// UnexpectedByte means an illegal byte was found in context (e.g. a
	// newline inside a quoted string, or a non-Base64 byte in a byte
	// literal).
	UnexpectedByte
	// MalformedEscape means an unknown "\x" or a short "\uXXXX" escape.
	MalformedEscape
	// RecursionLimit means function-call expansion exceeded MaxRecursion.
	RecursionLimit
	// StructureError means a mismatched close, e.g. "}" closing a list.
	StructureError
)

func (k ErrorKind) String() string {
	switch k {
	case IoError:
		return "IoError"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case UnexpectedByte:
		return "UnexpectedByte"
	case MalformedEscape:
		return "MalformedEscape"
	case RecursionLimit:
		return "RecursionLimit"
	case StructureError:
		return "StructureError"
	default:
		return "UnknownError"
	}
}

// Sentinel causes, analogous to hujson's errInvalidObjectEnd-style
// package errors: the ParseError.Kind is what callers should switch on,
// but these give errors.Is something stable to match against.
var (
	errUnexpectedEOF   = errors.New("unexpected end of input")
	errMalformedEscape = errors.New("malformed escape sequence")
	errRecursionLimit  = errors.New("function-call recursion limit exceeded")
	errStructureError  = errors.New("mismatched structural delimiter")
	errUnexpectedByte  = errors.New("unexpected byte")
)

// ParseError is returned by Parser.Parse. It always carries the 1-based
// line and column of the offending byte, mirroring hujson's
// "line %d, column %d" annotation.
type ParseError struct {
	Kind   ErrorKind
	Line   int
	Column int
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("thjson: line %d, column %d: %s: %v", e.Line, e.Column, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (p *Parser) errorf(kind ErrorKind, cause error, format string, args ...interface{}) error {
	wrapped := fmt.Errorf(format+": %w", append(args, cause)...)
	return &ParseError{
		Kind:   kind,
		Line:   p.src.Line(),
		Column: p.src.Col(),
		Offset: p.src.Offset(),
		Err:    wrapped,
	}
}

func newIoError(cause error) error {
	return &ParseError{Kind: IoError, Err: fmt.Errorf("reading byte source: %w", cause)}
}

// WriteError is returned by Writer methods when the event sequence
// violates the writer's container-stack contract (e.g. EndObject called
// without a matching BeginObject, or for the wrong container kind) or
// when the underlying sink fails.
type WriteError struct {
	Kind ErrorKind
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("thjson: %s: %v", e.Kind, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func newStructureError(format string, args ...interface{}) *WriteError {
	return &WriteError{Kind: StructureError, Err: fmt.Errorf(format, args...)}
}

func newWriteIoError(cause error) *WriteError {
	return &WriteError{Kind: IoError, Err: cause}
}
