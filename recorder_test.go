// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

// event is a flattened recording of one Listener call, used by the test
// suite to assert on event sequences with google/go-cmp rather than
// hand-rolling a DOM, mirroring how util/hujson/find_test.go compares
// parsed structures directly instead of re-deriving them.
type event struct {
	Op    string
	Key   string
	Class string
	Val   Value
	CKind CommentKind
	Text  string
}

// recorder is a Listener that appends every event it receives, for
// assertions in tests. Function expansions are resolved from a static
// table so tests can exercise function-call handling deterministically.
type recorder struct {
	BaseListener
	events    []event
	functions map[string]string
}

func newRecorder() *recorder {
	return &recorder{functions: map[string]string{}}
}

func (r *recorder) Begin() error { r.events = append(r.events, event{Op: "Begin"}); return nil }
func (r *recorder) End() error   { r.events = append(r.events, event{Op: "End"}); return nil }

func (r *recorder) BeginObject(key, class string) error {
	r.events = append(r.events, event{Op: "BeginObject", Key: key, Class: class})
	return nil
}
func (r *recorder) BeginObjectValue(class string) error {
	r.events = append(r.events, event{Op: "BeginObjectValue", Class: class})
	return nil
}
func (r *recorder) BeginMap(key string) error {
	r.events = append(r.events, event{Op: "BeginMap", Key: key})
	return nil
}
func (r *recorder) BeginMapValue() error {
	r.events = append(r.events, event{Op: "BeginMapValue"})
	return nil
}
func (r *recorder) EndObject() error { r.events = append(r.events, event{Op: "EndObject"}); return nil }
func (r *recorder) EndMap() error    { r.events = append(r.events, event{Op: "EndMap"}); return nil }

func (r *recorder) BeginList(key, class string) error {
	r.events = append(r.events, event{Op: "BeginList", Key: key, Class: class})
	return nil
}
func (r *recorder) BeginListValue(class string) error {
	r.events = append(r.events, event{Op: "BeginListValue", Class: class})
	return nil
}
func (r *recorder) BeginArray(key string) error {
	r.events = append(r.events, event{Op: "BeginArray", Key: key})
	return nil
}
func (r *recorder) BeginArrayValue() error {
	r.events = append(r.events, event{Op: "BeginArrayValue"})
	return nil
}
func (r *recorder) EndList() error  { r.events = append(r.events, event{Op: "EndList"}); return nil }
func (r *recorder) EndArray() error { r.events = append(r.events, event{Op: "EndArray"}); return nil }

func (r *recorder) Property(key string, val Value) error {
	r.events = append(r.events, event{Op: "Property", Key: key, Val: val})
	return nil
}
func (r *recorder) Value(val Value) error {
	r.events = append(r.events, event{Op: "Value", Val: val})
	return nil
}
func (r *recorder) NullProperty(key string) error {
	r.events = append(r.events, event{Op: "NullProperty", Key: key})
	return nil
}
func (r *recorder) NullValue() error {
	r.events = append(r.events, event{Op: "NullValue"})
	return nil
}

func (r *recorder) Comment(text string, kind CommentKind) error {
	r.events = append(r.events, event{Op: "Comment", Text: text, CKind: kind})
	return nil
}
func (r *recorder) Directive(text string) error {
	r.events = append(r.events, event{Op: "Directive", Text: text})
	return nil
}

func (r *recorder) Function(text string) (string, error) {
	r.events = append(r.events, event{Op: "Function", Text: text})
	if repl, ok := r.functions[text]; ok {
		return repl, nil
	}
	return r.BaseListener.Function(text)
}
