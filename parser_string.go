// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import (
	"bytes"
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// readQuotedString reads a '"'-delimited string, including escape
// processing. The opening quote must be the next unread byte.
func (p *Parser) readQuotedString() (string, error) {
	p.src.Skip(1) // opening '"'
	start := p.src.Offset()
	for {
		b, ok := p.src.Peek(0)
		if !ok {
			return "", p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated quoted string")
		}
		switch b {
		case '"':
			text := p.src.Slice(start, p.src.Offset())
			p.src.Skip(1)
			return string(text), nil
		case '\n':
			return "", p.errorf(UnexpectedByte, errUnexpectedByte, "newline in quoted string")
		case '\\':
			return p.readQuotedStringSlow(start)
		default:
			p.src.Skip(1)
		}
	}
}

// readQuotedStringSlow is entered the first time an escape is seen in a
// quoted string; it re-walks the prefix into an owned buffer and
// continues processing escapes from there.
func (p *Parser) readQuotedStringSlow(start int) (string, error) {
	buf := append([]byte(nil), p.src.Slice(start, p.src.Offset())...)
	for {
		b, ok := p.src.Peek(0)
		if !ok {
			return "", p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated quoted string")
		}
		switch b {
		case '"':
			p.src.Skip(1)
			return string(buf), nil
		case '\n':
			return "", p.errorf(UnexpectedByte, errUnexpectedByte, "newline in quoted string")
		case '\\':
			p.src.Skip(1)
			r, err := p.readEscape()
			if err != nil {
				return "", err
			}
			buf = utf8.AppendRune(buf, r)
		default:
			buf = append(buf, b)
			p.src.Skip(1)
		}
	}
}

// readEscape consumes the character(s) after a '\\' and returns the
// decoded rune.
func (p *Parser) readEscape() (rune, error) {
	b, ok := p.src.Read()
	if !ok {
		return 0, p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated escape sequence")
	}
	switch b {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '\\':
		return '\\', nil
	case 'u':
		var v rune
		for i := 0; i < 4; i++ {
			c, ok := p.src.Read()
			if !ok {
				return 0, p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated \\u escape")
			}
			d, ok := hexDigitValue(c)
			if !ok {
				return 0, p.errorf(MalformedEscape, errMalformedEscape, "invalid hex digit %q in \\u escape", c)
			}
			v = v*16 + rune(d)
		}
		return v, nil
	default:
		return 0, p.errorf(MalformedEscape, errMalformedEscape, "unknown escape sequence \\%c", b)
	}
}

func hexDigitValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// readTripleQuotedString reads a '''-delimited, column-aligned,
// de-indented multi-line string. The opening "'''" must be the next
// unread bytes.
func (p *Parser) readTripleQuotedString() (string, error) {
	align := p.src.Col()
	p.src.Skip(3)

	var out []byte
	firstLine := true
	for {
		if firstLine {
			for {
				b, ok := p.src.Peek(0)
				if !ok {
					return "", p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated triple-quoted string")
				}
				if b == ' ' || b == '\t' {
					p.src.Skip(1)
					continue
				}
				break
			}
			if b, ok := p.src.Peek(0); ok && b == '\n' {
				p.src.Skip(1)
				firstLine = false
				continue
			}
		} else {
			for {
				b, ok := p.src.Peek(0)
				if !ok {
					return "", p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated triple-quoted string")
				}
				if (b == ' ' || b == '\t') && p.src.Col() < align {
					p.src.Skip(1)
					continue
				}
				break
			}
		}

		for {
			b, ok := p.src.Peek(0)
			if !ok {
				return "", p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated triple-quoted string")
			}
			if b == '\'' && p.src.HasPrefix("'''") {
				p.src.Skip(3)
				if len(out) > 0 && out[len(out)-1] == '\n' {
					out = out[:len(out)-1]
				}
				return string(out), nil
			}
			if b == '\\' {
				p.src.Skip(1)
				r, err := p.readEscape()
				if err != nil {
					return "", err
				}
				out = utf8.AppendRune(out, r)
				continue
			}
			if b == '\n' {
				p.src.Skip(1)
				out = append(out, '\n')
				firstLine = false
				break
			}
			out = append(out, b)
			p.src.Skip(1)
		}
	}
}

func isBase64Char(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '+' || b == '/' || b == '='
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// readQuotedBytes reads a backtick-delimited, single-line Base64 byte
// literal. The opening backtick must be the next unread byte.
func (p *Parser) readQuotedBytes() ([]byte, error) {
	p.src.Skip(1)
	var b64 []byte
	for {
		b, ok := p.src.Peek(0)
		if !ok {
			return nil, p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated byte literal")
		}
		if b == '`' {
			p.src.Skip(1)
			break
		}
		if isSpaceByte(b) {
			p.src.Skip(1)
			continue
		}
		if !isBase64Char(b) {
			return nil, p.errorf(UnexpectedByte, errUnexpectedByte, "invalid Base64 byte %q in byte literal", b)
		}
		b64 = append(b64, b)
		p.src.Skip(1)
	}
	out, err := base64.StdEncoding.DecodeString(string(b64))
	if err != nil {
		return nil, p.errorf(UnexpectedByte, errUnexpectedByte, "invalid Base64 content: %v", err)
	}
	return out, nil
}

// readTripleBytes reads a "<<< ... >>>" multi-line Base64 byte literal.
// Whitespace (including newlines) between Base64 characters is ignored.
func (p *Parser) readTripleBytes() ([]byte, error) {
	p.src.Skip(3)
	var b64 []byte
	for {
		if p.src.HasPrefix(">>>") {
			p.src.Skip(3)
			break
		}
		b, ok := p.src.Peek(0)
		if !ok {
			return nil, p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated triple byte literal")
		}
		if isSpaceByte(b) {
			p.src.Skip(1)
			continue
		}
		if !isBase64Char(b) {
			return nil, p.errorf(UnexpectedByte, errUnexpectedByte, "invalid Base64 byte %q in triple byte literal", b)
		}
		b64 = append(b64, b)
		p.src.Skip(1)
	}
	out, err := base64.StdEncoding.DecodeString(string(b64))
	if err != nil {
		return nil, p.errorf(UnexpectedByte, errUnexpectedByte, "invalid Base64 content: %v", err)
	}
	return out, nil
}

// readLineComment reads a "//" or "#" comment's text, not including its
// prefix or terminating newline. prefixLen is 2 for "//" and 1 for "#".
func (p *Parser) readLineComment(prefixLen int) (string, error) {
	p.src.Skip(prefixLen)
	start := p.src.Offset()
	for {
		b, ok := p.src.Peek(0)
		if !ok || b == '\n' {
			break
		}
		p.src.Skip(1)
	}
	return string(p.src.Slice(start, p.src.Offset())), nil
}

// readBlockComment reads a "/* ... */" comment's text, not including
// its delimiters.
func (p *Parser) readBlockComment() (string, error) {
	p.src.Skip(2)
	start := p.src.Offset()
	for {
		if p.src.HasPrefix("*/") {
			text := p.src.Slice(start, p.src.Offset())
			p.src.Skip(2)
			return string(text), nil
		}
		if _, ok := p.src.Read(); !ok {
			return "", p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated block comment")
		}
	}
}

// readFunctionText reads the text of an '@' function call, up to end of
// line or the start of a comment. The leading '@' must be the next
// unread byte.
func (p *Parser) readFunctionText() (string, error) {
	p.src.Skip(1)
	return p.readDirectiveLikeText()
}

// readDirectiveText reads the text of a '#'/'@' root directive, up to
// end of line or the start of a comment. The leading byte must be the
// next unread byte.
func (p *Parser) readDirectiveText() (string, error) {
	p.src.Skip(1)
	return p.readDirectiveLikeText()
}

func (p *Parser) readDirectiveLikeText() (string, error) {
	start := p.src.Offset()
	for {
		b, ok := p.src.Peek(0)
		if !ok || b == '\n' {
			break
		}
		if b == '/' && (p.src.HasPrefix("//") || p.src.HasPrefix("/*")) {
			break
		}
		p.src.Skip(1)
	}
	return strings.TrimSpace(string(p.src.Slice(start, p.src.Offset()))), nil
}

// isBarewordStop reports whether b terminates a bareword key, class
// tag, or paren-wrapped class name: whitespace, or one of the
// structural delimiters ",[]{}():#\".
func isBarewordStop(b byte) bool {
	switch b {
	case ' ', '\t', '\n', ',', '[', ']', '{', '}', '(', ')', ':', '#', '\\':
		return true
	}
	return false
}

// scanBarewordToken scans up to the first whitespace or disallowed
// character (see isBarewordStop). Used for reading keys and bareword
// class tags, neither of which may contain whitespace.
func (p *Parser) scanBarewordToken() string {
	start := p.src.Offset()
	for {
		b, ok := p.src.Peek(0)
		if !ok || isBarewordStop(b) {
			break
		}
		p.src.Skip(1)
	}
	return string(p.src.Slice(start, p.src.Offset()))
}

// readKeyToken reads an object/map key: a bareword or a quoted string.
func (p *Parser) readKeyToken() (string, error) {
	b, ok := p.src.Peek(0)
	if !ok {
		return "", p.errorf(UnexpectedEOF, errUnexpectedEOF, "expected a key")
	}
	if b == '"' {
		return p.readQuotedString()
	}
	tok := p.scanBarewordToken()
	if tok == "" {
		return "", p.errorf(UnexpectedByte, errUnexpectedByte, "expected a key, found %q", b)
	}
	return tok, nil
}

// readParenClassTag reads a "(Name)" or "(\"Name\")" class tag. The
// opening '(' must be the next unread byte; on return the closing ')'
// has been consumed.
func (p *Parser) readParenClassTag() (string, error) {
	p.src.Skip(1)
	if err := p.skipWsAndComments(); err != nil {
		return "", err
	}
	b, ok := p.src.Peek(0)
	if !ok {
		return "", p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated class tag")
	}
	var name string
	var err error
	if b == '"' {
		name, err = p.readQuotedString()
		if err != nil {
			return "", err
		}
	} else {
		name = p.scanBarewordToken()
		if name == "" {
			return "", p.errorf(UnexpectedByte, errUnexpectedByte, "expected a class name, found %q", b)
		}
	}
	if err := p.skipWsAndComments(); err != nil {
		return "", err
	}
	b, ok = p.src.Peek(0)
	if !ok || b != ')' {
		return "", p.errorf(StructureError, errStructureError, "expected ')' to close class tag %q", name)
	}
	p.src.Skip(1)
	return name, nil
}

// validateClassTag enforces the invariant that a class tag is
// non-empty and contains no unescaped whitespace or structural
// delimiter.
func validateClassTag(s string) error {
	if s == "" {
		return errStructureError
	}
	for i := 0; i < len(s); i++ {
		if isBarewordStop(s[i]) {
			return errStructureError
		}
	}
	return nil
}

// scanQuotelessValue scans a quoteless value in value position: a
// property value, root member value, or array/list element. Whitespace
// alone is kept inside the value; a comma, and the other structural
// terminators ("{}[]:#", "//", "/*", and "\n"), stop the scan
// immediately without being consumed, as do the openers of any other
// literal form ('"', '`', "'''", "<<<") — a quoteless value never
// absorbs a quoted string or byte literal that follows it. Trailing
// whitespace is stripped before classification.
//
// A comma is always a hard terminator here, never swallowed: every
// value position in the grammar (property, root member, array element)
// is itself comma-separated from its neighbor, so a quoteless scan that
// kept going past a comma would merge two sibling members into one
// value (`name: Bob, age: 30` would stop being two properties). This is
// the canonical shape chosen where spec.md's own worked examples
// disagree — see DESIGN.md.
func (p *Parser) scanQuotelessValue() string {
	start := p.src.Offset()
loop:
	for {
		b, ok := p.src.Peek(0)
		if !ok {
			break loop
		}
		switch b {
		case '{', '}', '[', ']', ':', '#', '\n', '"', '`', ',':
			break loop
		case '\'':
			if p.src.HasPrefix("'''") {
				break loop
			}
			p.src.Skip(1)
		case '<':
			if p.src.HasPrefix("<<<") {
				break loop
			}
			p.src.Skip(1)
		case '/':
			if p.src.HasPrefix("//") || p.src.HasPrefix("/*") {
				break loop
			}
			p.src.Skip(1)
		default:
			p.src.Skip(1)
		}
	}
	text := bytes.TrimRight(p.src.Slice(start, p.src.Offset()), " \t")
	return string(text)
}
