// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import "strconv"

// Kind is the primitive type of a value delivered to a Listener.
type Kind uint8

const (
	// KindNull is the null literal.
	KindNull Kind = iota
	// KindBoolean is true or false.
	KindBoolean
	// KindInteger is a 32-bit signed integer, in one of four textual
	// forms (see IntegerKind).
	KindInteger
	// KindFloat is a single-precision (32-bit) float.
	KindFloat
	// KindString is a string, either quoteless, quoted, or triple-quoted
	// (see StringKind).
	KindString
	// KindBytes is a decoded Base64 byte string, written backtick-quoted
	// or triple-angle-bracketed. The Primitive Classifier never produces
	// this kind: byte literals are recognized lexically by the parser
	// before classification would apply.
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindBoolean:
		return "BOOLEAN"
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "FLOAT"
	case KindString:
		return "STRING"
	case KindBytes:
		return "BYTES"
	default:
		return "UNKNOWN"
	}
}

// IntegerKind is the textual sub-kind of a KindInteger value. All four
// forms decode to the same 32-bit signed word; the sub-kind is purely
// informational (round-tripped by the writer).
type IntegerKind uint8

const (
	// IntegerPlain is a decimal integer with no leading '+' (a leading
	// '-' is allowed and still classifies as IntegerPlain).
	IntegerPlain IntegerKind = iota
	// IntegerSigned is a decimal integer with an explicit leading '+'.
	// Only a leading '+' distinguishes it from IntegerPlain.
	IntegerSigned
	// IntegerHex is a "0x..." hexadecimal integer.
	IntegerHex
	// IntegerBinary is a "%..." binary integer.
	IntegerBinary
)

func (k IntegerKind) String() string {
	switch k {
	case IntegerPlain:
		return "PLAIN"
	case IntegerSigned:
		return "SIGNED"
	case IntegerHex:
		return "HEX"
	case IntegerBinary:
		return "BINARY"
	default:
		return "UNKNOWN"
	}
}

// StringKind is the textual sub-kind of a KindString or KindBytes value.
type StringKind uint8

const (
	// StringSingleLine is a bareword, quoteless, or '"'-quoted string,
	// or a backtick-quoted byte literal.
	StringSingleLine StringKind = iota
	// StringMultiLine is a triple-quoted string, or a triple-angle-bracket
	// byte literal.
	StringMultiLine
)

func (k StringKind) String() string {
	switch k {
	case StringSingleLine:
		return "SINGLE_LINE"
	case StringMultiLine:
		return "MULTI_LINE"
	default:
		return "UNKNOWN"
	}
}

// Classification is the result of classifying a byte span per the
// Primitive Classifier (spec §4.2). It never sets Kind to KindBytes:
// byte literals are recognized by lexical form (backtick or "<<<"), not
// by this classifier.
type Classification struct {
	Kind        Kind
	IntegerKind IntegerKind // meaningful iff Kind == KindInteger
}

// Classify decides whether span is null, true/false, a hex literal
// ("0x..."), a binary literal ("%..."), a signed/unsigned integer, a
// decimal/exponential float, or otherwise a string. It is a pure
// function: no numeric conversion happens here, and it never errors —
// anything that does not match a more specific rule falls back to
// KindString.
func Classify(span []byte) Classification {
	if len(span) == 0 {
		return Classification{Kind: KindNull}
	}
	switch string(span) {
	case "null":
		return Classification{Kind: KindNull}
	case "true", "false":
		return Classification{Kind: KindBoolean}
	}
	if len(span) > 2 && span[0] == '0' && (span[1] == 'x' || span[1] == 'X') {
		if isAllHexDigits(span[2:]) {
			return Classification{Kind: KindInteger, IntegerKind: IntegerHex}
		}
		return Classification{Kind: KindString}
	}
	if len(span) > 1 && span[0] == '%' {
		if isAllBinaryDigits(span[1:]) {
			return Classification{Kind: KindInteger, IntegerKind: IntegerBinary}
		}
		return Classification{Kind: KindString}
	}
	return classifyNumeric(span)
}

func isAllHexDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAllBinaryDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c != '0' && c != '1' {
			return false
		}
	}
	return true
}

// classifyNumeric implements the grammar:
//
//	[+-]? (digits ('.' digits?)? | '.' digits) ([eE][+-]? digits)?
//
// with at least one digit after 'e'/'E' if present, and at least one
// digit before or after the '.' (so "1." and ".5" are floats). Any
// violation falls back to KindString.
func classifyNumeric(span []byte) Classification {
	i := 0
	n := len(span)
	signed := false
	if i < n && (span[i] == '+' || span[i] == '-') {
		if span[i] == '+' {
			signed = true
		}
		i++
	}

	digitsBefore := 0
	for i < n && isDigit(span[i]) {
		i++
		digitsBefore++
	}

	isFloat := false
	digitsAfterDot := 0
	if i < n && span[i] == '.' {
		isFloat = true
		i++
		for i < n && isDigit(span[i]) {
			i++
			digitsAfterDot++
		}
	}
	if digitsBefore == 0 && digitsAfterDot == 0 {
		return Classification{Kind: KindString}
	}

	if i < n && (span[i] == 'e' || span[i] == 'E') {
		isFloat = true
		i++
		if i < n && (span[i] == '+' || span[i] == '-') {
			i++
		}
		expDigits := 0
		for i < n && isDigit(span[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return Classification{Kind: KindString}
		}
	}

	if i != n {
		return Classification{Kind: KindString}
	}

	if isFloat {
		return Classification{Kind: KindFloat}
	}
	if signed {
		return Classification{Kind: KindInteger, IntegerKind: IntegerSigned}
	}
	return Classification{Kind: KindInteger, IntegerKind: IntegerPlain}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// decodeInteger converts span (already classified as KindInteger with
// the given sub-kind) to a 32-bit signed word. ok is false on overflow
// or malformed-after-classification input, in which case the caller
// must demote the value to a string (NumericDemotion, spec §7 — not an
// error).
func decodeInteger(span []byte, kind IntegerKind) (int32, bool) {
	s := string(span)
	switch kind {
	case IntegerHex:
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, false
		}
		return int32(uint32(v)), true
	case IntegerBinary:
		v, err := strconv.ParseUint(s[1:], 2, 32)
		if err != nil {
			return 0, false
		}
		return int32(uint32(v)), true
	default: // IntegerPlain, IntegerSigned
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, false
		}
		return int32(v), true
	}
}

// decodeFloat converts span (already classified as KindFloat) to a
// single-precision float. ok is false on overflow or malformed input.
func decodeFloat(span []byte) (float32, bool) {
	v, err := strconv.ParseFloat(string(span), 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}
