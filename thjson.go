// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package thjson contains a streaming parser and writer for the THJSON
// ("Tagged Human JSON") format.
//
// THJSON is an extension of HuJSON (itself an extension of standard JSON,
// RFC 8259) aimed at human-authored, object-oriented configuration and
// data files. In addition to HuJSON's line/block comments and trailing
// commas, THJSON adds:
//
//   - class tags on maps and lists, written either as a bareword prefix
//     (`Name {...}` / `Name [...]`) or parenthesized (`(Name) {...}`)
//   - binary literals, either single-line backtick-quoted Base64
//     (`` `SGVsbG8=` ``) or multi-line triple-angle-bracket Base64
//     (`<<< ... >>>`)
//   - directives (`#text` at the top level, between members) and function
//     calls (`@text` in value position) that a host application can expand
//     during parsing
//
// Unlike encoding/json, this package has no persistent in-memory tree.
// Parse drives a Listener with a linear sequence of structural events in
// source order; a Writer is the dual, turning the same event sequence back
// into formatted THJSON text. Callers that want a DOM build one on top of
// the Listener interface themselves; none is provided here.
//
// # Grammar
//
//	document    := ws (root-obj | members) ws EOF
//	root-obj    := '{' members '}'
//	members     := (directive | comment | member | anon-value)*
//	member      := key ws ':' ws value comma?
//	key         := bareword | quoted-string
//	value       := primitive | quoted-string | triple-string
//	             | quoted-bytes | triple-bytes
//	             | '{' members '}'
//	             | class-tag '{' members '}'
//	             | '[' values ']'
//	             | class-tag '[' values ']'
//	             | '@' text-to-eol       // function call
//	class-tag   := ident | '(' ident-or-quoted ')'
//	primitive   := null | true | false | integer | float | quoteless-string
//	integer     := [+-]? digits | '0x' hex+ | '%' [01]+
//	float       := [+-]? (digits '.' digits? | '.' digits | digits) ([eE][+-]?digits)?
//	comment     := '//' text-to-eol | '#' text-to-eol | '/*' ... '*/'
//	directive   := '#' text-to-eol        // only at root member position
//
// Object and map bodies (`{...}`) hold only keyed members. Array and list
// bodies (`[...]`) hold only anonymous (unkeyed) values. The document
// root is a hybrid of the two: it accepts keyed members *and* anonymous
// container values (maps, objects, arrays, lists), plus directives, which
// are legal nowhere else.
package thjson

// MaxRecursion bounds how many function-call expansions may nest before
// the parser gives up with a RecursionLimit error.
const MaxRecursion = 16
