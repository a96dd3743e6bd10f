// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thjson

import "github.com/rs/zerolog"

// SetLogger attaches a structured trace logger to the parser. The zero
// value of zerolog.Logger discards everything, so an unconfigured
// Parser pays no logging cost and emits nothing; this is opt-in
// diagnostics for malformed or surprising input, not business logging
// (the parser is a synchronous library call with no background work to
// report on).
//
// Trace events are emitted at Debug level as each state is entered, as
// each container opens or closes, and at each level of function-call
// expansion.
func (p *Parser) SetLogger(l zerolog.Logger) {
	p.log = l
}

func (p *Parser) logState(name string) {
	p.log.Debug().Str("state", name).Int("line", p.src.Line()).Int("col", p.src.Col()).Msg("thjson: state")
}

func (p *Parser) logOpen(kind string, class string, depth int) {
	ev := p.log.Debug().Str("open", kind).Int("depth", depth)
	if class != "" {
		ev = ev.Str("class", class)
	}
	ev.Msg("thjson: open container")
}

func (p *Parser) logClose(kind string, depth int) {
	p.log.Debug().Str("close", kind).Int("depth", depth).Msg("thjson: close container")
}

func (p *Parser) logFunctionCall(depth int, text string) {
	p.log.Debug().Int("depth", depth).Str("text", text).Msg("thjson: function call expansion")
}
