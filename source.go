// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import "io"

// DefaultTabSize is the tab width used for column accounting when a
// ByteSource is not otherwise configured.
const DefaultTabSize = 4

// ByteSource wraps a normalized byte buffer and reports the current
// 1-based line and column of the next byte to be read. Line endings
// ("\r\n" and bare "\r") are normalized to "\n" ahead of time so the
// reader, peeker, and position tracker never need to special-case them.
//
// A ByteSource eagerly buffers its entire input: there is no
// backpressure or suspension. Once constructed, sub-slices handed out by the
// parser remain valid for the ByteSource's lifetime, which is what makes
// zero-copy (borrowed) string values safe.
type ByteSource struct {
	buf     []byte
	pos     int
	line    int
	col     int
	tabSize int
}

// NewByteSource wraps an in-memory buffer. The buffer is copied once
// (after line-ending normalization) so the caller's slice may be reused.
func NewByteSource(b []byte) *ByteSource {
	return &ByteSource{
		buf:     normalizeLineEndings(b),
		pos:     0,
		line:    1,
		col:     1,
		tabSize: DefaultTabSize,
	}
}

// NewByteSourceString wraps a string buffer.
func NewByteSourceString(s string) *ByteSource {
	return NewByteSource([]byte(s))
}

// NewByteSourceReader reads r to completion and wraps the result. Per the
// streaming contract, the parser never suspends mid-document, so the
// reader is drained once, up front; a failure while reading surfaces as
// an IoError.
func NewByteSourceReader(r io.Reader) (*ByteSource, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, newIoError(err)
	}
	return NewByteSource(b), nil
}

// SetTabSize configures the tab width used for column accounting. It
// affects only column bookkeeping, never the bytes delivered by Read or
// Peek. tabSize must be >= 1; values less than 1 are clamped to 1.
func (s *ByteSource) SetTabSize(tabSize int) {
	if tabSize < 1 {
		tabSize = 1
	}
	s.tabSize = tabSize
}

// Line reports the 1-based line of the next byte to be read.
func (s *ByteSource) Line() int { return s.line }

// Col reports the 1-based column of the next byte to be read.
func (s *ByteSource) Col() int { return s.col }

// Offset reports the byte offset (into the normalized buffer) of the
// next byte to be read.
func (s *ByteSource) Offset() int { return s.pos }

// AtEOF reports whether the source is exhausted.
func (s *ByteSource) AtEOF() bool { return s.pos >= len(s.buf) }

// Peek returns the byte n bytes ahead of the next byte to be read,
// without consuming anything. ok is false if that position is past the
// end of input. The grammar only ever requires n in [0, 3] ("'''",
// "<<<", ">>>", "//", "/*"), but Peek does not enforce a ceiling.
func (s *ByteSource) Peek(n int) (b byte, ok bool) {
	i := s.pos + n
	if i < 0 || i >= len(s.buf) {
		return 0, false
	}
	return s.buf[i], true
}

// PeekSlice returns up to n bytes starting at the next byte to be read,
// without consuming them. The returned slice aliases the source buffer
// and may be shorter than n near EOF.
func (s *ByteSource) PeekSlice(n int) []byte {
	end := s.pos + n
	if end > len(s.buf) {
		end = len(s.buf)
	}
	if end <= s.pos {
		return nil
	}
	return s.buf[s.pos:end]
}

// HasPrefix reports whether the unread input starts with prefix.
func (s *ByteSource) HasPrefix(prefix string) bool {
	if len(s.buf)-s.pos < len(prefix) {
		return false
	}
	return string(s.buf[s.pos:s.pos+len(prefix)]) == prefix
}

// Read consumes and returns the next byte. ok is false at end of input.
func (s *ByteSource) Read() (b byte, ok bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	b = s.buf[s.pos]
	s.pos++
	s.advance(b)
	return b, true
}

// Skip consumes n bytes without returning them, updating position
// tracking as Read would. It stops early if it reaches EOF.
func (s *ByteSource) Skip(n int) {
	for i := 0; i < n; i++ {
		if _, ok := s.Read(); !ok {
			return
		}
	}
}

// Slice returns the bytes in [from, to) of the normalized buffer. It is
// used to hand out borrowed (zero-copy) spans once the caller knows the
// extent of a token.
func (s *ByteSource) Slice(from, to int) []byte {
	return s.buf[from:to]
}

func (s *ByteSource) advance(b byte) {
	switch b {
	case '\n':
		s.line++
		s.col = 1
	case '\t':
		off := s.col - 1
		off += s.tabSize - (off % s.tabSize)
		s.col = off + 1
	default:
		s.col++
	}
}

// normalizeLineEndings collapses "\r\n" and bare "\r" to "\n".
func normalizeLineEndings(b []byte) []byte {
	hasCR := false
	for _, c := range b {
		if c == '\r' {
			hasCR = true
			break
		}
	}
	if !hasCR {
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c == '\r' {
			out = append(out, '\n')
			if i+1 < len(b) && b[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, c)
	}
	return out
}
