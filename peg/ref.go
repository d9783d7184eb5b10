// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import "fmt"

// lookupExpression is a named indirection to another expression, resolved
// once after an entire rule set is known. It is what lets one rule refer to
// another regardless of declaration order, including mutual and
// self-recursive references: the bootstrap grammar and every compiled user
// grammar are built as a flat list of named expressions with Lookup edges
// between them, then resolved in one pass.
type lookupExpression struct {
	named
	label  string
	target Expression
}

// Lookup returns a placeholder expression standing in for the rule named
// label. It must be resolved (see resolveLookups) before it is scanned.
func Lookup(label string) Expression {
	return &lookupExpression{label: label}
}

func (e *lookupExpression) scan(s *scanState, pos int) (*Node, bool) {
	if e.target == nil {
		panic("peg: unresolved reference to rule " + e.label)
	}
	return s.apply(e.target, pos)
}

func (e *lookupExpression) children() []Expression {
	if e.target == nil {
		return nil
	}
	return []Expression{e.target}
}

func (e *lookupExpression) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, e.label)
}

// resolveLookups walks every expression reachable from roots and points each
// lookupExpression's target at rules[label], collecting any label that has
// no definition. Already-visited expressions are skipped by identity so
// cyclic graphs terminate.
func resolveLookups(roots []Expression, rules map[string]Expression) []error {
	var errs []error
	seen := make(map[Expression]bool)
	var walk func(Expression)
	walk = func(e Expression) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		if ref, ok := e.(*lookupExpression); ok {
			target, found := rules[ref.label]
			if !found {
				errs = append(errs, &UndefinedLabelError{Label: ref.label})
				return
			}
			ref.target = target
			walk(target)
			return
		}
		for _, c := range e.children() {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return errs
}
