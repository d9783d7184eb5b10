// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pegtrace adapts the peg matcher driver's optional trace points to
// structured logging. It generalizes the teacher package's unconditional
// Parser.Trace/debugTrace(fmt.Print) pair into an injectable, nil-safe
// interface so a caller can wire it to any structured sink; the bundled
// implementation wires it to go.uber.org/zap.
package pegtrace

import (
	"fmt"

	"go.uber.org/zap"
)

// Event describes one attempt by the matcher driver to scan an expression
// at a position. Expr is the expression's rendered PEG form (its
// fmt.Stringer/Format output), not a peg.Expression, so this package has no
// dependency on package peg and peg can depend on it freely.
type Event struct {
	// Expr is the textual form of the expression that was attempted.
	Expr fmt.Stringer
	// Pos is the byte offset the attempt started at.
	Pos int
	// Outcome is "hit" for a memo cache hit or "miss" for a fresh attempt.
	Outcome string
	// Matched reports whether the attempt (cached or fresh) succeeded.
	Matched bool
}

// Logger receives trace Events from a peg.Grammar configured with the
// peg.WithLogger option. Use Nop() for the default no-op logger.
type Logger interface {
	// Enabled reports whether Trace events are worth constructing at all,
	// letting the matcher driver skip formatting an Expression on the hot
	// path when nothing will observe it.
	Enabled() bool
	Trace(Event)
}

type nop struct{}

func (nop) Enabled() bool  { return false }
func (nop) Trace(Event)    {}

// Nop returns a Logger that discards every event; it is the default used
// when no logger has been configured.
func Nop() Logger { return nop{} }

// Zap adapts a *zap.Logger into a Logger, emitting one debug-level entry per
// Event with structured fields for expr/pos/outcome/matched.
func Zap(z *zap.Logger) Logger {
	return zapLogger{z.Sugar()}
}

type zapLogger struct{ s *zap.SugaredLogger }

func (z zapLogger) Enabled() bool { return true }

func (z zapLogger) Trace(e Event) {
	z.s.Debugw("peg.scan",
		"expr", e.Expr.String(),
		"pos", e.Pos,
		"outcome", e.Outcome,
		"matched", e.Matched,
	)
}
