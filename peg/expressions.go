// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import (
	"fmt"
	"regexp"
)

// Expression is a single node in a compiled expression graph: one of the
// matcher kinds described by spec (literal, regex, sequence, ordered
// choice, lookahead, negative lookahead, optional, and repetition).
//
// Expression identity (not structural equality) is used as a memo-cache
// key, so constructors never intern structurally identical expressions:
// each new expression is a fresh pointer. The simplifying constructors
// (Sequence and OneOf with one member, Optional, ZeroOrMore) may instead
// return one of their arguments unchanged.
type Expression interface {
	// scan attempts to match at pos in the state's text, consulting the
	// shared memo cache and furthest-error tracker. It returns the resulting
	// node and true on success, or (nil, false) on failure; it never wraps
	// the returned node's RuleName — that is the scanState.apply caller's
	// job, uniformly, for every kind.
	scan(s *scanState, pos int) (*Node, bool)
	// children returns this expression's immediate sub-expressions, or nil
	// for a leaf. Used by the grammar resolver and by Format.
	children() []Expression
	// exprName returns the rule name attached to this expression, or "" if
	// it is anonymous.
	exprName() string
	setName(name string)
	fmt.Formatter
}

// named is embedded by every concrete expression kind to carry the optional
// rule name the compiler attaches to a rule's top-level expression.
type named struct{ name string }

func (n *named) exprName() string   { return n.name }
func (n *named) setName(s string)   { n.name = s }

// literalExpression matches an exact string.
type literalExpression struct {
	named
	text string
}

// Literal returns an expression that matches the exact string s.
func Literal(s string) Expression {
	return &literalExpression{text: s}
}

func (e *literalExpression) scan(s *scanState, pos int) (*Node, bool) {
	text := s.text
	if len(text)-pos < len(e.text) || text[pos:pos+len(e.text)] != e.text {
		s.fail(pos, e)
		return nil, false
	}
	return newNode("", text, pos, pos+len(e.text), nil), true
}

func (e *literalExpression) children() []Expression { return nil }

func (e *literalExpression) Format(f fmt.State, _ rune) {
	fmt.Fprintf(f, "%q", e.text)
}

// regexExpression matches per a compiled regular expression, anchored at pos.
type regexExpression struct {
	named
	source   string
	flags    string
	compiled *regexp.Regexp
}

// Regex returns an expression that matches the regular expression pattern,
// anchored at the current position, honoring the flag letters described by
// spec.md §4.F (a subset of "ilmsux"). See regexFlags for the mapping from
// flag letters to regexp.Regexp behavior.
func Regex(pattern, flags string) (Expression, error) {
	compiled, err := compileAnchoredRegex(pattern, flags)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q with flags %q: %w", pattern, flags, err)
	}
	return &regexExpression{source: pattern, flags: flags, compiled: compiled}, nil
}

// MustRegex is like Regex but panics on error; convenient for hand-built
// expression graphs such as the bootstrap grammar.
func MustRegex(pattern, flags string) Expression {
	e, err := Regex(pattern, flags)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *regexExpression) scan(s *scanState, pos int) (*Node, bool) {
	loc := e.compiled.FindStringSubmatchIndex(s.text[pos:])
	if loc == nil || loc[0] != 0 {
		s.fail(pos, e)
		return nil, false
	}
	end := pos + loc[1]
	n := newNode("", s.text, pos, end, nil)
	n.Captures = make([]string, len(loc)/2)
	for i := range n.Captures {
		lo, hi := loc[2*i], loc[2*i+1]
		if lo < 0 {
			continue
		}
		n.Captures[i] = s.text[pos+lo : pos+hi]
	}
	return n, true
}

func (e *regexExpression) children() []Expression { return nil }

func (e *regexExpression) Format(f fmt.State, _ rune) {
	fmt.Fprintf(f, "~%q%s", e.source, e.flags)
}

// sequenceExpression matches each member contiguously, left to right,
// failing as soon as any member fails.
type sequenceExpression struct {
	named
	members []Expression
}

// Sequence returns an expression that matches each member in order,
// advancing the position after each success. Nested sequences are flattened
// and a single member collapses to that member directly.
func Sequence(members ...Expression) Expression {
	flat := flatten(members, func(e Expression) ([]Expression, bool) {
		s, ok := e.(*sequenceExpression)
		if !ok {
			return nil, false
		}
		return s.members, true
	})
	if len(flat) == 1 {
		return flat[0]
	}
	return &sequenceExpression{members: flat}
}

func (e *sequenceExpression) scan(s *scanState, pos int) (*Node, bool) {
	start := pos
	children := make([]*Node, 0, len(e.members))
	for _, m := range e.members {
		n, ok := s.apply(m, pos)
		if !ok {
			s.fail(pos, e)
			return nil, false
		}
		children = append(children, n)
		pos = n.End
	}
	return newNode("", s.text, start, pos, children), true
}

func (e *sequenceExpression) children() []Expression { return e.members }

func (e *sequenceExpression) Format(f fmt.State, _ rune) {
	for i, m := range e.members {
		if i > 0 {
			fmt.Fprint(f, " ")
		}
		formatChild(f, e, m)
	}
}

// choiceExpression is ordered alternation: the first matching member wins.
type choiceExpression struct {
	named
	members []Expression
}

// OneOf returns an expression that tries each member in order from the same
// position and accepts the first one that matches, wrapping it in a
// single-child node with the same span as that member. Nested choices are
// flattened.
func OneOf(members ...Expression) Expression {
	flat := flatten(members, func(e Expression) ([]Expression, bool) {
		c, ok := e.(*choiceExpression)
		if !ok {
			return nil, false
		}
		return c.members, true
	})
	if len(flat) == 1 {
		return flat[0]
	}
	return &choiceExpression{members: flat}
}

func (e *choiceExpression) scan(s *scanState, pos int) (*Node, bool) {
	for _, m := range e.members {
		n, ok := s.apply(m, pos)
		if ok {
			return newNode("", s.text, n.Start, n.End, []*Node{n}), true
		}
	}
	s.fail(pos, e)
	return nil, false
}

func (e *choiceExpression) children() []Expression { return e.members }

func (e *choiceExpression) Format(f fmt.State, _ rune) {
	for i, m := range e.members {
		if i > 0 {
			fmt.Fprint(f, " / ")
		}
		formatChild(f, e, m)
	}
}

// lookaheadExpression succeeds zero-width iff its inner expression matches.
type lookaheadExpression struct {
	named
	inner Expression
}

// Lookahead returns a non-consuming expression that succeeds, without
// advancing the position, iff inner matches at the current position.
func Lookahead(inner Expression) Expression {
	return &lookaheadExpression{inner: inner}
}

func (e *lookaheadExpression) scan(s *scanState, pos int) (*Node, bool) {
	if _, ok := s.apply(e.inner, pos); !ok {
		s.fail(pos, e)
		return nil, false
	}
	return newNode("", s.text, pos, pos, nil), true
}

func (e *lookaheadExpression) children() []Expression { return []Expression{e.inner} }

func (e *lookaheadExpression) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, "&")
	formatChild(f, e, e.inner)
}

// notExpression succeeds zero-width iff its inner expression does NOT match.
type notExpression struct {
	named
	inner Expression
}

// Not returns a non-consuming expression that succeeds, without advancing
// the position, iff inner does not match at the current position.
func Not(inner Expression) Expression {
	return &notExpression{inner: inner}
}

func (e *notExpression) scan(s *scanState, pos int) (*Node, bool) {
	if _, ok := s.apply(e.inner, pos); ok {
		s.fail(pos, e)
		return nil, false
	}
	return newNode("", s.text, pos, pos, nil), true
}

func (e *notExpression) children() []Expression { return []Expression{e.inner} }

func (e *notExpression) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, "!")
	formatChild(f, e, e.inner)
}

// optionalExpression succeeds whether or not its inner expression matches.
type optionalExpression struct {
	named
	inner Expression
}

// Optional returns an expression that wraps inner's match in a one-child
// node when inner matches, or produces a zero-width node at the current
// position otherwise; it always succeeds.
func Optional(inner Expression) Expression {
	if o, ok := inner.(*optionalExpression); ok {
		return o
	}
	return &optionalExpression{inner: inner}
}

func (e *optionalExpression) scan(s *scanState, pos int) (*Node, bool) {
	if n, ok := s.apply(e.inner, pos); ok {
		return newNode("", s.text, n.Start, n.End, []*Node{n}), true
	}
	return newNode("", s.text, pos, pos, nil), true
}

func (e *optionalExpression) children() []Expression { return []Expression{e.inner} }

func (e *optionalExpression) Format(f fmt.State, _ rune) {
	formatChild(f, e, e.inner)
	fmt.Fprint(f, "?")
}

// repeatExpression implements both ZeroOrMore (min == 0) and OneOrMore
// (min >= 1) greedy repetition, guarding against infinite loops on a
// zero-length inner match.
type repeatExpression struct {
	named
	inner Expression
	min   int
}

// ZeroOrMore returns a greedy repetition expression that always succeeds,
// matching inner as many times as possible.
func ZeroOrMore(inner Expression) Expression {
	if r, ok := inner.(*repeatExpression); ok && r.min == 0 {
		return r
	}
	return &repeatExpression{inner: inner, min: 0}
}

// OneOrMore returns a greedy repetition expression that succeeds only if
// inner matches at least min times (min defaults to 1 when <= 0).
func OneOrMore(inner Expression, min int) Expression {
	if min <= 0 {
		min = 1
	}
	return &repeatExpression{inner: inner, min: min}
}

func (e *repeatExpression) scan(s *scanState, pos int) (*Node, bool) {
	start := pos
	var children []*Node
	for {
		n, ok := s.apply(e.inner, pos)
		if !ok {
			break
		}
		children = append(children, n)
		if n.End == pos {
			// Zero-length match: stop to avoid looping forever.
			break
		}
		pos = n.End
	}
	if len(children) < e.min {
		s.fail(pos, e)
		return nil, false
	}
	return newNode("", s.text, start, pos, children), true
}

func (e *repeatExpression) children() []Expression { return []Expression{e.inner} }

func (e *repeatExpression) Format(f fmt.State, _ rune) {
	formatChild(f, e, e.inner)
	if e.min == 0 {
		fmt.Fprint(f, "*")
	} else {
		fmt.Fprint(f, "+")
	}
}

// flatten folds nested expressions of the same associative kind (as decided
// by unwrap) into a single flat slice, skipping nils, mirroring the
// simplifications the teacher's Sequence/Choice constructors perform.
func flatten(members []Expression, unwrap func(Expression) ([]Expression, bool)) []Expression {
	list := make([]Expression, 0, len(members))
	for _, m := range members {
		if m == nil {
			continue
		}
		if nested, ok := unwrap(m); ok {
			list = append(list, nested...)
		} else {
			list = append(list, m)
		}
	}
	return list
}

// formatChild prints child, parenthesizing it when parent's precedence
// would otherwise make the rendering ambiguous.
func formatChild(f fmt.State, parent, child Expression) {
	format := "%v"
	switch child.(type) {
	case *sequenceExpression:
		if _, parentIsChoice := parent.(*choiceExpression); parentIsChoice {
			format = "%v"
		} else if _, parentIsSequence := parent.(*sequenceExpression); !parentIsSequence {
			format = "(%v)"
		}
	case *choiceExpression:
		format = "(%v)"
	}
	fmt.Fprintf(f, format, child)
}
