// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import "strconv"

// CommentKind distinguishes the three lexical comment forms.
type CommentKind uint8

const (
	// SlashSlash is a "// ... \n" line comment.
	SlashSlash CommentKind = iota
	// Block is a "/* ... */" block comment.
	Block
	// Hash is a "# ... \n" line comment (not in root member position;
	// that position produces a Directive event instead).
	Hash
)

func (k CommentKind) String() string {
	switch k {
	case SlashSlash:
		return "SLASHSLASH"
	case Block:
		return "BLOCK"
	case Hash:
		return "HASH"
	default:
		return "UNKNOWN"
	}
}

// Value is the payload of a property or value event: a primitive
// delivered to a Listener. Exactly one of the typed accessors below is
// meaningful, selected by Kind.
//
// Str holds the decoded text of a KindString value and Bytes the decoded
// content of a KindBytes value. The parser scans an unescaped string as
// a span of the ByteSource's buffer and builds a separate buffer only
// when escape processing or Base64 decoding is required; either way the
// Listener receives an ordinary Go string or []byte and has no contract
// for observing which path was taken.
type Value struct {
	Kind        Kind
	IntegerKind IntegerKind
	StringKind  StringKind

	Int32   int32
	Float32 float32
	Bool    bool
	Str     string
	Bytes   []byte
}

// Null is the shared value for NullProperty/NullValue event text (used
// by adapters that want a uniform Value regardless of which event
// delivered it).
var Null = Value{Kind: KindNull}

// String returns a debug rendering of v. It is not valid THJSON; use a
// Writer to produce THJSON text.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(int64(v.Int32), 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.Float32), 'g', -1, 32)
	case KindString:
		return strconv.Quote(v.Str)
	case KindBytes:
		return "bytes[" + strconv.Itoa(len(v.Bytes)) + "]"
	default:
		return "<unknown>"
	}
}

// Listener is the event sink a Parser drives. Every event is a single
// call naming key, value, and (where applicable) class tag or
// integer/string sub-kind; see the package doc for the grammar that
// produces this stream and the event table in the design spec for where
// each event may occur.
//
// A Listener that returns an error from any method aborts the parse:
// events already delivered remain observable, and Parser.Parse returns
// that error unchanged to its caller. This includes an error returned by
// Function; a Function that returns a string which fails to parse
// surfaces as an ordinary parse error instead.
type Listener interface {
	// Begin is called once, before any other event.
	Begin() error
	// End is called once, after the last event, only if parsing
	// completed successfully.
	End() error

	// BeginObject opens a keyed, class-tagged object inside an
	// object/map body.
	BeginObject(key, class string) error
	// BeginObjectValue opens an anonymous, class-tagged object inside an
	// array/list body or at the document root.
	BeginObjectValue(class string) error
	// BeginMap opens a keyed, untagged object inside an object/map body.
	BeginMap(key string) error
	// BeginMapValue opens an anonymous, untagged object inside an
	// array/list body or at the document root.
	BeginMapValue() error
	// EndObject closes the most recently opened BeginObject/
	// BeginObjectValue container (one that carries a class tag).
	EndObject() error
	// EndMap closes the most recently opened BeginMapValue/BeginMap
	// container that carries no class tag. For symmetry with the event
	// table, implementations commonly treat EndObject and EndMap
	// identically; the parser always calls the one matching the Begin*
	// used to open the container.
	EndMap() error

	// BeginList opens a keyed, class-tagged array inside an object/map
	// body.
	BeginList(key, class string) error
	// BeginListValue opens an anonymous, class-tagged array inside an
	// array/list body.
	BeginListValue(class string) error
	// BeginArray opens a keyed, untagged array inside an object/map
	// body.
	BeginArray(key string) error
	// BeginArrayValue opens an anonymous, untagged array inside an
	// array/list body or at the document root.
	BeginArrayValue() error
	// EndList closes the most recently opened BeginList/BeginListValue.
	EndList() error
	// EndArray closes the most recently opened BeginArray/BeginArrayValue.
	EndArray() error

	// Property delivers a primitive key/value pair inside an object/map
	// body.
	Property(key string, val Value) error
	// Value delivers a primitive element inside an array/list body.
	Value(val Value) error
	// NullProperty delivers a null-valued key inside an object/map body.
	NullProperty(key string) error
	// NullValue delivers a null element inside an array/list body.
	NullValue() error

	// Comment delivers a comment's text (without its delimiters).
	Comment(text string, kind CommentKind) error
	// Directive delivers the text after a '#' or '@' at root member
	// position, with surrounding whitespace trimmed.
	Directive(text string) error
	// Function is called for an '@text' token in value position. It
	// returns a string which is re-parsed as if it occurred inline, at
	// up to MaxRecursion levels of nesting.
	Function(text string) (string, error)
}

// BaseListener implements Listener with the defaults described in the
// listener contract: Begin, End, Comment, and Directive are no-ops, and
// Function returns its text wrapped verbatim as a quoted string
// prefixed with '@', so an unhandled function call round-trips through
// the stream as an opaque string rather than failing the parse.
//
// Embed BaseListener in an adapter-specific listener and override only
// the events that matter to it.
type BaseListener struct{}

func (BaseListener) Begin() error { return nil }
func (BaseListener) End() error   { return nil }

func (BaseListener) BeginObject(key, class string) error { return nil }
func (BaseListener) BeginObjectValue(class string) error { return nil }
func (BaseListener) BeginMap(key string) error            { return nil }
func (BaseListener) BeginMapValue() error                 { return nil }
func (BaseListener) EndObject() error                     { return nil }
func (BaseListener) EndMap() error                         { return nil }

func (BaseListener) BeginList(key, class string) error { return nil }
func (BaseListener) BeginListValue(class string) error { return nil }
func (BaseListener) BeginArray(key string) error        { return nil }
func (BaseListener) BeginArrayValue() error              { return nil }
func (BaseListener) EndList() error                      { return nil }
func (BaseListener) EndArray() error                     { return nil }

func (BaseListener) Property(key string, val Value) error { return nil }
func (BaseListener) Value(val Value) error                 { return nil }
func (BaseListener) NullProperty(key string) error         { return nil }
func (BaseListener) NullValue() error                       { return nil }

func (BaseListener) Comment(text string, kind CommentKind) error { return nil }
func (BaseListener) Directive(text string) error                 { return nil }

func (BaseListener) Function(text string) (string, error) {
	return strconv.Quote("@" + text), nil
}
