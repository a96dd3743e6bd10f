// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// reparse drives doc through a Parser, piping its events directly into a
// Writer (Writer implements Listener), then re-parses the Writer's
// output into a recorder and returns its events alongside the
// intermediate text, for structural-equivalence assertions.
func reparse(t *testing.T, doc string, listenerOpts ...ParserOption) (text string, events []event) {
	t.Helper()
	var b strings.Builder
	wr := NewWriter(&b)
	if err := ParseString(doc, wr, listenerOpts...); err != nil {
		t.Fatalf("first parse of %q: %v", doc, err)
	}
	text = b.String()
	r := newRecorder()
	if err := ParseString(text, r); err != nil {
		t.Fatalf("reparse of reformatted output %q: %v", text, err)
	}
	return text, r.events
}

func TestRoundtripStructuralEquivalence(t *testing.T) {
	docs := []string{
		`name: Bob, age: 30`,
		`items: [1, 2, 3]`,
		`monster: Goblin { hp: 10, loot: [ "gold", "sword" ] }`,
		"text: '''\n  multi\n  line\n  '''",
		"data: `aGVsbG8=`",
		`a: null, b: true, c: 1.5, d: 0x1A, e: %101`,
		`Items [ 1, 2 ]`,
	}
	for _, doc := range docs {
		orig := newRecorder()
		if err := ParseString(doc, orig); err != nil {
			t.Fatalf("parsing original %q: %v", doc, err)
		}
		_, got := reparse(t, doc)
		if diff := cmp.Diff(orig.events, got); diff != "" {
			t.Errorf("doc %q: reparse event mismatch (-original +reformatted):\n%s", doc, diff)
		}
	}
}

// expandingWriter is a Writer whose Function resolves calls from a static
// table, so a document parsed into it is written out with each call
// replaced by its expanded value.
type expandingWriter struct {
	*Writer
	functions map[string]string
}

func (w expandingWriter) Function(text string) (string, error) {
	return w.functions[text], nil
}

// TestRoundtripFunctionExpansionLosesCallSite documents Round-trip II:
// once a function call is expanded, the Writer has no way to recover the
// original "@text" form, so the reformatted document's Function events
// differ from the original even though the expanded value is preserved.
func TestRoundtripFunctionExpansionLosesCallSite(t *testing.T) {
	makeListener := func() *recorder {
		r := newRecorder()
		r.functions["greeting"] = `"hello"`
		return r
	}

	orig := makeListener()
	if err := ParseString(`msg: @greeting`, orig); err != nil {
		t.Fatalf("parsing original: %v", err)
	}

	var b strings.Builder
	wr := expandingWriter{Writer: NewWriter(&b), functions: makeListener().functions}
	if err := ParseString(`msg: @greeting`, wr); err != nil {
		t.Fatalf("parse-to-writer: %v", err)
	}
	text := b.String()

	reparsed := newRecorder()
	if err := ParseString(text, reparsed); err != nil {
		t.Fatalf("reparse of %q: %v", text, err)
	}

	var origHasFunction, reparsedHasFunction bool
	for _, e := range orig.events {
		if e.Op == "Function" {
			origHasFunction = true
		}
	}
	for _, e := range reparsed.events {
		if e.Op == "Function" {
			reparsedHasFunction = true
		}
	}
	if !origHasFunction {
		t.Fatal("original parse should have recorded a Function event")
	}
	if reparsedHasFunction {
		t.Errorf("reparsed output %q should not contain a function call; the Writer only ever sees the expanded value", text)
	}

	wantProp := event{Op: "Property", Key: "msg", Val: Value{Kind: KindString, StringKind: StringSingleLine, Str: "hello"}}
	var gotProp event
	for _, e := range reparsed.events {
		if e.Op == "Property" {
			gotProp = e
		}
	}
	if diff := cmp.Diff(wantProp, gotProp); diff != "" {
		t.Errorf("reparsed property mismatch (-want +got):\n%s", diff)
	}
}
