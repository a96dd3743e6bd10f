// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import (
	"strings"
	"testing"
)

func writeDoc(t *testing.T, drive func(l Listener) error, opts ...WriterOption) string {
	t.Helper()
	var b strings.Builder
	wr := NewWriter(&b, opts...)
	if err := drive(wr); err != nil {
		t.Fatalf("drive: %v", err)
	}
	return b.String()
}

func TestWriterBareRoot(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.Property("name", Value{Kind: KindString, Str: "Bob"}); err != nil {
			return err
		}
		if err := l.Property("age", Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 30}); err != nil {
			return err
		}
		return l.End()
	})
	want := "name: Bob\nage: 30\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterRootBraces(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.Property("a", Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 1}); err != nil {
			return err
		}
		return l.End()
	}, WithRootBraces(true))
	want := "{\n  a: 1\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterNestedArray(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.BeginArray("items"); err != nil {
			return err
		}
		if err := l.Value(Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 1}); err != nil {
			return err
		}
		if err := l.Value(Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 2}); err != nil {
			return err
		}
		if err := l.EndArray(); err != nil {
			return err
		}
		return l.End()
	})
	want := "items: [\n  1,\n  2\n]\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterCompactArray(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.BeginArray("items"); err != nil {
			return err
		}
		if err := l.Value(Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 1}); err != nil {
			return err
		}
		if err := l.Value(Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 2}); err != nil {
			return err
		}
		if err := l.EndArray(); err != nil {
			return err
		}
		return l.End()
	}, WithDefaultCompact(true))
	want := "items: [1, 2]\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestWriterSetCompact exercises the per-container compact hint
// independently of WithDefaultCompact: one array is marked compact via
// SetCompact right after it is opened, a sibling array is left at the
// (expanded) default.
func TestWriterSetCompact(t *testing.T) {
	var b strings.Builder
	wr := NewWriter(&b)
	if err := wr.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := wr.BeginArray("tight"); err != nil {
		t.Fatalf("BeginArray: %v", err)
	}
	wr.SetCompact(true)
	if err := wr.Value(Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 1}); err != nil {
		t.Fatalf("Value: %v", err)
	}
	if err := wr.Value(Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 2}); err != nil {
		t.Fatalf("Value: %v", err)
	}
	if err := wr.EndArray(); err != nil {
		t.Fatalf("EndArray: %v", err)
	}
	if err := wr.BeginArray("loose"); err != nil {
		t.Fatalf("BeginArray: %v", err)
	}
	if err := wr.Value(Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 3}); err != nil {
		t.Fatalf("Value: %v", err)
	}
	if err := wr.Value(Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 4}); err != nil {
		t.Fatalf("Value: %v", err)
	}
	if err := wr.EndArray(); err != nil {
		t.Fatalf("EndArray: %v", err)
	}
	if err := wr.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	want := "tight: [1, 2],\nloose: [\n  3,\n  4\n]\n"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterClassTaggedObject(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.BeginObject("monster", "Goblin"); err != nil {
			return err
		}
		if err := l.Property("hp", Value{Kind: KindInteger, IntegerKind: IntegerPlain, Int32: 10}); err != nil {
			return err
		}
		if err := l.EndObject(); err != nil {
			return err
		}
		return l.End()
	})
	want := "monster: Goblin {\n  hp: 10\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterQuotesWhenNeeded(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.Property("note", Value{Kind: KindString, Str: "needs: quoting"}); err != nil {
			return err
		}
		if err := l.Property("num", Value{Kind: KindString, Str: "123"}); err != nil {
			return err
		}
		return l.End()
	})
	want := "note: \"needs: quoting\"\nnum: \"123\"\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterMultiLineString(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.Property("text", Value{Kind: KindString, Str: "first\nsecond"}); err != nil {
			return err
		}
		return l.End()
	})
	want := "text: '''\n  first\n  second\n  '''"
	if !strings.Contains(got, want) {
		t.Errorf("got %q, want containing %q", got, want)
	}
}

func TestWriterBytesBacktick(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.Property("data", Value{Kind: KindBytes, Bytes: []byte("hello")}); err != nil {
			return err
		}
		return l.End()
	})
	want := "data: `aGVsbG8=`\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterBytesTripleBracket(t *testing.T) {
	big := make([]byte, 60) // encodes to well over 76 base64 chars
	for i := range big {
		big[i] = byte(i)
	}
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.Property("data", Value{Kind: KindBytes, Bytes: big}); err != nil {
			return err
		}
		return l.End()
	})
	if !strings.Contains(got, "<<<\n") || !strings.Contains(got, ">>>") {
		t.Errorf("got %q, want triple-bracket wrapped bytes", got)
	}
}

func TestWriterIntegerForms(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.Property("a", Value{Kind: KindInteger, IntegerKind: IntegerHex, Int32: 26}); err != nil {
			return err
		}
		if err := l.Property("b", Value{Kind: KindInteger, IntegerKind: IntegerBinary, Int32: 5}); err != nil {
			return err
		}
		if err := l.Property("c", Value{Kind: KindInteger, IntegerKind: IntegerSigned, Int32: 5}); err != nil {
			return err
		}
		return l.End()
	})
	want := "a: 0x1a\nb: %101\nc: +5\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterNullValues(t *testing.T) {
	got := writeDoc(t, func(l Listener) error {
		if err := l.Begin(); err != nil {
			return err
		}
		if err := l.NullProperty("a"); err != nil {
			return err
		}
		return l.End()
	})
	want := "a: null\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
