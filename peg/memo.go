// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/pegscript/peg/peg/pegtrace"
)

// renderedExpr is a lazily-stringified Expression, built only when a
// non-nop pegtrace.Logger is configured.
type renderedExpr string

func (r renderedExpr) String() string { return string(r) }

func render(e Expression) renderedExpr { return renderedExpr(fmt.Sprint(e)) }

// cacheKey identifies one (expression, position) packrat memo slot.
// Expression identity, not structural equality, is the key: every new
// expression built by expressions.go is a fresh pointer, so two structurally
// identical rules never collide.
type cacheKey struct {
	expr Expression
	pos  int
}

type cacheEntry struct {
	node *Node
	ok   bool
}

// Stats reports packrat memo-cache counters for a single Grammar.Parse or
// Grammar.Match invocation. It exists to make the §8 packrat property
// ("at most one evaluation per (expression, position)") mechanically
// testable: Misses must never exceed the number of distinct
// (expression, position) pairs reachable during the parse.
type Stats struct {
	Hits, Misses int64
}

// scanState is created fresh for every top-level Parse/Match call and
// discarded at completion; it is never shared across calls, which is what
// lets independent calls on the same immutable Grammar run concurrently on
// different goroutines (spec.md §5).
type scanState struct {
	text    string
	cache   map[cacheKey]cacheEntry
	tracker errorTracker
	logger  pegtrace.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func newScanState(text string, logger pegtrace.Logger) *scanState {
	if logger == nil {
		logger = pegtrace.Nop()
	}
	return &scanState{
		text:   text,
		cache:  make(map[cacheKey]cacheEntry),
		logger: logger,
	}
}

// apply is the single entry point through which every expression of every
// kind is scanned. It is the packrat driver described by spec.md §4.C: a
// cache hit returns the previously computed outcome (success or the "no
// match" sentinel) without calling scan again; a miss computes, stores, and
// returns. It is also the one place a rule name gets attached to a node
// (spec.md §4.B: "Each expression carries an optional name"), so individual
// scan implementations never need to think about naming.
//
// Before calling scan, apply plants a "no match" sentinel at this (expr,
// pos) slot. A purely circular grammar (a = b; b = a) re-enters apply at
// the same key while e.scan is still running; without the sentinel that
// re-entry would find no cache entry and recurse into e.scan again,
// forever. With the sentinel in place the re-entrant call sees an
// in-progress slot as an ordinary cache hit reporting failure, so the
// cycle unwinds into a *ParseError instead of a stack overflow (spec.md §8
// "circular safe").
func (s *scanState) apply(e Expression, pos int) (*Node, bool) {
	key := cacheKey{e, pos}
	if entry, found := s.cache[key]; found {
		s.hits.Inc()
		if s.logger.Enabled() {
			s.logger.Trace(pegtrace.Event{Expr: render(e), Pos: pos, Outcome: "hit", Matched: entry.ok})
		}
		return entry.node, entry.ok
	}
	s.misses.Inc()
	s.cache[key] = cacheEntry{}
	node, ok := e.scan(s, pos)
	if ok && e.exprName() != "" {
		node = node.withName(e.exprName())
	}
	s.cache[key] = cacheEntry{node: node, ok: ok}
	if s.logger.Enabled() {
		s.logger.Trace(pegtrace.Event{Expr: render(e), Pos: pos, Outcome: "miss", Matched: ok})
	}
	return node, ok
}

func (s *scanState) stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}
