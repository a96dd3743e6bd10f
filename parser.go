// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import (
	"io"

	"github.com/rs/zerolog"
)

// containerKind is the body grammar of an open container frame: an
// object/map body accepts only keyed members, an array/list body only
// anonymous values. The root is its own (hybrid) frame kind.
type containerKind uint8

const (
	ckRootBare containerKind = iota
	ckRootBraced
	ckObjectBody
	ckArrayBody
)

// frame is one level of the explicit container stack the Parser drives
// instead of recursing through Go call frames, so document nesting
// depth is bounded only by available memory, not goroutine stack size.
type frame struct {
	kind containerKind
	// hasClass selects EndObject/EndList over EndMap/EndArray at close.
	hasClass bool
	// fromFuncExpansion counts the function-call replacement sources that
	// were pushed to reach this container's opening delimiter (more than
	// one when expansions nest); closing it pops that many sources back
	// off srcStack.
	fromFuncExpansion int
}

// Parser drives a Listener over THJSON input per the format's streaming
// grammar. A Parser is not safe for concurrent use, and is single-shot:
// construct a new one per document.
type Parser struct {
	src      *ByteSource
	srcStack []*ByteSource
	stack    []frame
	listener Listener
	cfg      ParserConfig
	log      zerolog.Logger
}

// NewParser constructs a Parser reading from src, applying opts over
// DefaultParserConfig.
func NewParser(src *ByteSource, opts ...ParserOption) *Parser {
	cfg := DefaultParserConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.TabSize < 1 {
		cfg.TabSize = DefaultTabSize
	}
	if cfg.MaxRecursion == 0 {
		cfg.MaxRecursion = MaxRecursion
	} else if cfg.MaxRecursion < 0 {
		cfg.MaxRecursion = 0
	}
	src.SetTabSize(cfg.TabSize)
	return &Parser{src: src, cfg: cfg, log: zerolog.Nop()}
}

// Parse parses a []byte document, driving l.
func Parse(b []byte, l Listener, opts ...ParserOption) error {
	return NewParser(NewByteSource(b), opts...).Parse(l)
}

// ParseString parses a string document, driving l.
func ParseString(s string, l Listener, opts ...ParserOption) error {
	return Parse([]byte(s), l, opts...)
}

// ParseReader reads r to completion and parses it, driving l.
func ParseReader(r io.Reader, l Listener, opts ...ParserOption) error {
	src, err := NewByteSourceReader(r)
	if err != nil {
		return err
	}
	return NewParser(src, opts...).Parse(l)
}

// Parse runs the parser to completion against l. It is an error to call
// Parse more than once on the same Parser.
func (p *Parser) Parse(l Listener) error {
	p.listener = l
	if err := l.Begin(); err != nil {
		return err
	}

	kind := ckRootBare
	for {
		p.skipRootSeparators()
		b, ok := p.src.Peek(0)
		if !ok {
			break
		}
		if b == '{' {
			p.src.Skip(1)
			kind = ckRootBraced
			break
		}
		if b == '/' && p.src.HasPrefix("//") {
			text, err := p.readLineComment(2)
			if err != nil {
				return err
			}
			if err := l.Comment(text, SlashSlash); err != nil {
				return err
			}
			continue
		}
		if b == '/' && p.src.HasPrefix("/*") {
			text, err := p.readBlockComment()
			if err != nil {
				return err
			}
			if err := l.Comment(text, Block); err != nil {
				return err
			}
			continue
		}
		if b == '#' || b == '@' {
			text, err := p.readDirectiveText()
			if err != nil {
				return err
			}
			if err := l.Directive(text); err != nil {
				return err
			}
			continue
		}
		break
	}

	p.stack = append(p.stack, frame{kind: kind})
	if err := p.drive(); err != nil {
		return err
	}
	return l.End()
}

// drive runs the explicit container-frame stack to completion. Opening
// a nested container never recurses: it pushes a frame and lets this
// loop pick it up on the next iteration.
func (p *Parser) drive() error {
	for len(p.stack) > 0 {
		top := &p.stack[len(p.stack)-1]
		var done bool
		var err error
		switch top.kind {
		case ckRootBare, ckRootBraced:
			done, err = p.stepRoot(top)
		case ckObjectBody:
			done, err = p.stepObjectBody(top)
		case ckArrayBody:
			done, err = p.stepArrayBody(top)
		}
		if err != nil {
			return err
		}
		if done {
			if top.kind == ckObjectBody || top.kind == ckArrayBody {
				if err := p.closeContainer(top); err != nil {
					return err
				}
			}
			p.stack = p.stack[:len(p.stack)-1]
		}
	}
	return nil
}

func (p *Parser) closeContainer(f *frame) error {
	var err error
	switch f.kind {
	case ckObjectBody:
		p.logClose("object", len(p.stack))
		if f.hasClass {
			err = p.listener.EndObject()
		} else {
			err = p.listener.EndMap()
		}
	case ckArrayBody:
		p.logClose("array", len(p.stack))
		if f.hasClass {
			err = p.listener.EndList()
		} else {
			err = p.listener.EndArray()
		}
	}
	if err != nil {
		return err
	}
	for ; f.fromFuncExpansion > 0; f.fromFuncExpansion-- {
		p.popExpandedSource()
	}
	return nil
}

func (p *Parser) pushFrame(kind containerKind, hasClass bool) {
	p.stack = append(p.stack, frame{kind: kind, hasClass: hasClass})
	p.logOpen(containerKindName(kind), "", len(p.stack))
}

func containerKindName(k containerKind) string {
	if k == ckObjectBody {
		return "object"
	}
	return "array"
}

func (p *Parser) pushExpandedSource(text string) {
	p.srcStack = append(p.srcStack, p.src)
	p.src = NewByteSourceString(text)
	p.src.SetTabSize(p.cfg.TabSize)
}

func (p *Parser) popExpandedSource() {
	n := len(p.srcStack)
	p.src = p.srcStack[n-1]
	p.srcStack = p.srcStack[:n-1]
}

// skipRootSeparators consumes plain whitespace and stray ',' separators
// between root-level members/directives/comments. Unlike
// skipWsAndComments, it never treats '#' as a comment: at root that
// byte always introduces a directive, handled by the caller.
func (p *Parser) skipRootSeparators() {
	for {
		b, ok := p.src.Peek(0)
		if !ok {
			return
		}
		if b == ' ' || b == '\t' || b == '\n' || b == ',' {
			p.src.Skip(1)
			continue
		}
		return
	}
}

// skipWsAndComments consumes whitespace and comments (including '#'
// HASH comments), emitting a Comment event for each one found. It is
// used inside object/map and array/list bodies and within a single root
// member (after its key or ':'), never between root members, where '#'
// introduces a directive instead.
func (p *Parser) skipWsAndComments() error {
	for {
		b, ok := p.src.Peek(0)
		if !ok {
			return nil
		}
		switch {
		case b == ' ' || b == '\t' || b == '\n':
			p.src.Skip(1)
		case b == '/' && p.src.HasPrefix("//"):
			text, err := p.readLineComment(2)
			if err != nil {
				return err
			}
			if err := p.listener.Comment(text, SlashSlash); err != nil {
				return err
			}
		case b == '/' && p.src.HasPrefix("/*"):
			text, err := p.readBlockComment()
			if err != nil {
				return err
			}
			if err := p.listener.Comment(text, Block); err != nil {
				return err
			}
		case b == '#':
			text, err := p.readLineComment(1)
			if err != nil {
				return err
			}
			if err := p.listener.Comment(text, Hash); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// skipContainerSeparators skips whitespace/comments, then a single
// optional ',' and any whitespace/comments that follow it.
func (p *Parser) skipContainerSeparators() error {
	if err := p.skipWsAndComments(); err != nil {
		return err
	}
	if b, ok := p.src.Peek(0); ok && b == ',' {
		p.src.Skip(1)
		return p.skipWsAndComments()
	}
	return nil
}

func (p *Parser) stepRoot(top *frame) (bool, error) {
	p.logState("root")
	for {
		p.skipRootSeparators()
		b, ok := p.src.Peek(0)
		if !ok {
			if top.kind == ckRootBraced {
				return false, p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated root object, expected '}'")
			}
			return true, nil
		}
		if b == '}' {
			if top.kind == ckRootBraced {
				p.src.Skip(1)
				if err := p.skipWsAndComments(); err != nil {
					return false, err
				}
				if !p.src.AtEOF() {
					return false, p.errorf(StructureError, errStructureError, "unexpected content after root '}'")
				}
				return true, nil
			}
			return false, p.errorf(StructureError, errStructureError, "unexpected '}' at document root")
		}
		if b == '/' && p.src.HasPrefix("//") {
			text, err := p.readLineComment(2)
			if err != nil {
				return false, err
			}
			if err := p.listener.Comment(text, SlashSlash); err != nil {
				return false, err
			}
			continue
		}
		if b == '/' && p.src.HasPrefix("/*") {
			text, err := p.readBlockComment()
			if err != nil {
				return false, err
			}
			if err := p.listener.Comment(text, Block); err != nil {
				return false, err
			}
			continue
		}
		if b == '#' || b == '@' {
			text, err := p.readDirectiveText()
			if err != nil {
				return false, err
			}
			if err := p.listener.Directive(text); err != nil {
				return false, err
			}
			continue
		}
		return false, p.readRootItem()
	}
}

// readRootItem parses exactly one root-level construct: a keyed member
// (identical in shape to an object member) or an anonymous container
// value (a bare '{'/'[', or a class-tagged one).
func (p *Parser) readRootItem() error {
	b, _ := p.src.Peek(0)
	switch b {
	case '{':
		p.src.Skip(1)
		p.pushFrame(ckObjectBody, false)
		return p.listener.BeginMapValue()
	case '[':
		p.src.Skip(1)
		p.pushFrame(ckArrayBody, false)
		return p.listener.BeginArrayValue()
	case '(':
		class, err := p.readParenClassTag()
		if err != nil {
			return err
		}
		_, err = p.openClassTagged(p.elementTarget(), class)
		return err
	default:
		tok, err := p.readKeyToken()
		if err != nil {
			return err
		}
		if err := p.skipWsAndComments(); err != nil {
			return err
		}
		cb, ok := p.src.Peek(0)
		switch {
		case ok && cb == ':':
			p.src.Skip(1)
			if err := p.skipWsAndComments(); err != nil {
				return err
			}
			_, err := p.readAndEmitValue(p.propertyTarget(tok))
			return err
		case ok && cb == '{':
			if err := validateClassTag(tok); err != nil {
				return p.errorf(StructureError, err, "invalid class tag %q", tok)
			}
			p.src.Skip(1)
			p.pushFrame(ckObjectBody, true)
			return p.listener.BeginObjectValue(tok)
		case ok && cb == '[':
			if err := validateClassTag(tok); err != nil {
				return p.errorf(StructureError, err, "invalid class tag %q", tok)
			}
			p.src.Skip(1)
			p.pushFrame(ckArrayBody, true)
			return p.listener.BeginListValue(tok)
		default:
			return p.errorf(StructureError, errStructureError, "expected ':' or '{'/'[' after %q at document root", tok)
		}
	}
}

func (p *Parser) stepObjectBody(top *frame) (bool, error) {
	p.logState("object")
	if err := p.skipContainerSeparators(); err != nil {
		return false, err
	}
	b, ok := p.src.Peek(0)
	if !ok {
		return false, p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated object body, expected '}'")
	}
	if b == '}' {
		p.src.Skip(1)
		return true, nil
	}
	key, err := p.readKeyToken()
	if err != nil {
		return false, err
	}
	if err := p.skipWsAndComments(); err != nil {
		return false, err
	}
	cb, ok := p.src.Peek(0)
	if !ok || cb != ':' {
		return false, p.errorf(StructureError, errStructureError, "expected ':' after key %q", key)
	}
	p.src.Skip(1)
	if err := p.skipWsAndComments(); err != nil {
		return false, err
	}
	_, err = p.readAndEmitValue(p.propertyTarget(key))
	return false, err
}

func (p *Parser) stepArrayBody(top *frame) (bool, error) {
	p.logState("array")
	if err := p.skipContainerSeparators(); err != nil {
		return false, err
	}
	b, ok := p.src.Peek(0)
	if !ok {
		return false, p.errorf(UnexpectedEOF, errUnexpectedEOF, "unterminated array body, expected ']'")
	}
	if b == ']' {
		p.src.Skip(1)
		return true, nil
	}
	_, err := p.readAndEmitValue(p.elementTarget())
	return false, err
}

// valueTarget binds the value-reading logic in readAndEmitValue to the
// specific set of Listener calls appropriate for the position the value
// occurs in: a keyed object/map property, an anonymous array/list
// element, or an anonymous root value (which uses the same calls as an
// array/list element).
type valueTarget struct {
	emitPrimitive func(Value) error
	emitNull      func() error
	openMap       func() error
	openArray     func() error
	openObject    func(class string) error
	openList      func(class string) error
}

func (p *Parser) propertyTarget(key string) valueTarget {
	return valueTarget{
		emitPrimitive: func(v Value) error { return p.listener.Property(key, v) },
		emitNull:      func() error { return p.listener.NullProperty(key) },
		openMap: func() error {
			p.pushFrame(ckObjectBody, false)
			return p.listener.BeginMap(key)
		},
		openArray: func() error {
			p.pushFrame(ckArrayBody, false)
			return p.listener.BeginArray(key)
		},
		openObject: func(class string) error {
			p.pushFrame(ckObjectBody, true)
			return p.listener.BeginObject(key, class)
		},
		openList: func(class string) error {
			p.pushFrame(ckArrayBody, true)
			return p.listener.BeginList(key, class)
		},
	}
}

func (p *Parser) elementTarget() valueTarget {
	return valueTarget{
		emitPrimitive: func(v Value) error { return p.listener.Value(v) },
		emitNull:      func() error { return p.listener.NullValue() },
		openMap: func() error {
			p.pushFrame(ckObjectBody, false)
			return p.listener.BeginMapValue()
		},
		openArray: func() error {
			p.pushFrame(ckArrayBody, false)
			return p.listener.BeginArrayValue()
		},
		openObject: func(class string) error {
			p.pushFrame(ckObjectBody, true)
			return p.listener.BeginObjectValue(class)
		},
		openList: func(class string) error {
			p.pushFrame(ckArrayBody, true)
			return p.listener.BeginListValue(class)
		},
	}
}

// readAndEmitValue reads one value at the current position and routes
// it through target. opened reports whether the value turned out to be
// a container (a frame was pushed onto p.stack and the container body
// remains to be read by later drive() iterations), as opposed to a
// primitive or null that was fully emitted by this call.
func (p *Parser) readAndEmitValue(target valueTarget) (opened bool, err error) {
	b, ok := p.src.Peek(0)
	if !ok {
		return false, p.errorf(UnexpectedEOF, errUnexpectedEOF, "expected a value")
	}
	switch {
	case b == '"':
		s, err := p.readQuotedString()
		if err != nil {
			return false, err
		}
		return false, target.emitPrimitive(Value{Kind: KindString, StringKind: StringSingleLine, Str: s})
	case b == '\'' && p.src.HasPrefix("'''"):
		s, err := p.readTripleQuotedString()
		if err != nil {
			return false, err
		}
		return false, target.emitPrimitive(Value{Kind: KindString, StringKind: StringMultiLine, Str: s})
	case b == '`':
		bs, err := p.readQuotedBytes()
		if err != nil {
			return false, err
		}
		return false, target.emitPrimitive(Value{Kind: KindBytes, StringKind: StringSingleLine, Bytes: bs})
	case b == '<' && p.src.HasPrefix("<<<"):
		bs, err := p.readTripleBytes()
		if err != nil {
			return false, err
		}
		return false, target.emitPrimitive(Value{Kind: KindBytes, StringKind: StringMultiLine, Bytes: bs})
	case b == '{':
		p.src.Skip(1)
		return true, target.openMap()
	case b == '[':
		p.src.Skip(1)
		return true, target.openArray()
	case b == '(':
		class, err := p.readParenClassTag()
		if err != nil {
			return false, err
		}
		return p.openClassTagged(target, class)
	case b == '@':
		return p.expandFunction(target)
	default:
		text := p.scanQuotelessValue()
		if nb, ok := p.src.Peek(0); ok && (nb == '{' || nb == '[') {
			if err := validateClassTag(text); err != nil {
				return false, p.errorf(StructureError, err, "invalid class tag %q", text)
			}
			return p.openClassTagged(target, text)
		}
		return false, p.emitClassified(target, text)
	}
}

func (p *Parser) openClassTagged(target valueTarget, class string) (bool, error) {
	if err := p.skipWsAndComments(); err != nil {
		return false, err
	}
	b, ok := p.src.Peek(0)
	if !ok {
		return false, p.errorf(UnexpectedEOF, errUnexpectedEOF, "expected '{' or '[' after class tag %q", class)
	}
	switch b {
	case '{':
		p.src.Skip(1)
		return true, target.openObject(class)
	case '[':
		p.src.Skip(1)
		return true, target.openList(class)
	default:
		return false, p.errorf(StructureError, errStructureError, "expected '{' or '[' after class tag %q", class)
	}
}

func (p *Parser) emitClassified(target valueTarget, text string) error {
	if text == "" || text == "null" {
		return target.emitNull()
	}
	c := Classify([]byte(text))
	switch c.Kind {
	case KindBoolean:
		return target.emitPrimitive(Value{Kind: KindBoolean, Bool: text == "true"})
	case KindInteger:
		n, ok := decodeInteger([]byte(text), c.IntegerKind)
		if !ok {
			return target.emitPrimitive(Value{Kind: KindString, StringKind: StringSingleLine, Str: text})
		}
		return target.emitPrimitive(Value{Kind: KindInteger, IntegerKind: c.IntegerKind, Int32: n})
	case KindFloat:
		f, ok := decodeFloat([]byte(text))
		if !ok {
			return target.emitPrimitive(Value{Kind: KindString, StringKind: StringSingleLine, Str: text})
		}
		return target.emitPrimitive(Value{Kind: KindFloat, Float32: f})
	default:
		return target.emitPrimitive(Value{Kind: KindString, StringKind: StringSingleLine, Str: text})
	}
}

// expandFunction handles an '@text' token in value position: it calls
// the listener to obtain replacement text, then parses exactly one
// value out of that replacement as if it occurred inline. Nesting is
// bounded by MaxRecursion; regular container nesting within the
// replacement is not (it runs through the same iterative drive loop).
func (p *Parser) expandFunction(target valueTarget) (bool, error) {
	if len(p.srcStack) >= p.cfg.MaxRecursion {
		return false, p.errorf(RecursionLimit, errRecursionLimit, "function-call expansion exceeded %d levels", p.cfg.MaxRecursion)
	}
	text, err := p.readFunctionText()
	if err != nil {
		return false, err
	}
	p.logFunctionCall(len(p.srcStack)+1, text)
	replacement, ferr := p.listener.Function(text)
	if ferr != nil {
		return false, ferr
	}
	p.pushExpandedSource(replacement)
	opened, err := p.readAndEmitValue(target)
	if err != nil {
		return false, err
	}
	if !opened {
		p.popExpandedSource()
	} else {
		p.stack[len(p.stack)-1].fromFuncExpansion++
	}
	return opened, nil
}
