// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import "fmt"

// errorTracker records the furthest-reaching failure seen during one parse,
// per spec.md §4.D. It is embedded in scanState and lives only as long as
// one top-level Parse/Match call.
type errorTracker struct {
	pos     int
	expr    Expression
	hasFail bool
}

// record considers a failure of expr at pos, keeping whichever candidate is
// furthest along, preferring a named expression over an unnamed one when
// two candidates are tied at the same position.
func (t *errorTracker) record(pos int, expr Expression) {
	switch {
	case !t.hasFail, pos > t.pos:
		t.pos, t.expr, t.hasFail = pos, expr, true
	case pos == t.pos && t.expr.exprName() == "" && expr.exprName() != "":
		t.expr = expr
	}
}

// fail is the single place every expression kind reports a failed match; it
// forwards to the shared tracker.
func (s *scanState) fail(pos int, expr Expression) {
	s.tracker.record(pos, expr)
}

// lineCol converts a byte offset in text to a 1-based (line, column) pair,
// computed on demand as spec.md §4.D requires ("render... on demand from
// position").
func lineCol(text string, pos int) (line, col int) {
	line, col = 1, 1
	if pos > len(text) {
		pos = len(text)
	}
	for _, r := range text[:pos] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func snippet(text string, pos int, width int) string {
	end := pos + width
	if end > len(text) {
		end = len(text)
	}
	if pos > len(text) {
		pos = len(text)
	}
	return text[pos:end]
}

// ParseError reports that no rule accepted the input at some position. It
// is the error kind returned when a parse fails outright.
type ParseError struct {
	Text string
	Pos  int
	// Expr is the expression blamed for the failure: spec.md §4.D's
	// furthest-failure record, preferring a named rule when one is tied
	// with an unnamed sub-expression at the same position.
	Expr Expression
}

func (e *ParseError) Error() string {
	line, col := lineCol(e.Text, e.Pos)
	name := e.Expr.exprName()
	if name == "" {
		name = fmt.Sprint(e.Expr)
	} else {
		name = fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("rule %s didn't match at line %d, column %d (byte %d): %q",
		name, line, col, e.Pos, snippet(e.Text, e.Pos, 20))
}

// IncompleteParseError reports that the default rule matched but did not
// consume the entire input. Pos is the first unconsumed byte offset.
type IncompleteParseError struct {
	Text string
	Pos  int
	Rule string
}

func (e *IncompleteParseError) Error() string {
	line, col := lineCol(e.Text, e.Pos)
	return fmt.Sprintf("rule %q matched but left input unconsumed starting at line %d, column %d (byte %d): %q",
		e.Rule, line, col, e.Pos, snippet(e.Text, e.Pos, 20))
}

// UndefinedLabelError reports that a grammar references a rule name that was
// never defined. Circular and forward references are fine; an entirely
// absent name is a fatal compile error.
type UndefinedLabelError struct {
	Label string
}

func (e *UndefinedLabelError) Error() string {
	return fmt.Sprintf("the label %q was never defined", e.Label)
}

// BadGrammarError wraps a failure to parse the grammar DSL text itself,
// re-badging a ParseError produced by the bootstrap grammar as a
// compilation error (spec.md §7).
type BadGrammarError struct {
	Err error
}

func (e *BadGrammarError) Error() string { return "invalid grammar source: " + e.Err.Error() }
func (e *BadGrammarError) Unwrap() error { return e.Err }

// VisitationError wraps an error raised by a user's visitor handler with the
// node at which it occurred, augmented with a pretty-printed tree excerpt
// pinpointing that node (spec.md §4.H, §7).
type VisitationError struct {
	Err  error
	Node *Node
	Root *Node
}

func (e *VisitationError) Error() string {
	return fmt.Sprintf("error visiting %q: %v\n\nParse tree:\n%s",
		e.Node.RuleName, e.Err, e.Root.prettily(e.Node))
}

func (e *VisitationError) Unwrap() error { return e.Err }
