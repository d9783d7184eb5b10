// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import "sync"

// The grammar DSL is itself written in the DSL (see dslGrammarSource in
// compile.go). To break that cycle, buildBootstrapGrammar hand-builds an
// expression graph for the same rules, using the same Expression
// constructors a compiled user grammar ends up built from. compileGrammar
// parses every grammar source, the DSL's own included, with this
// hand-built graph; it is not replaced by a grammar compiled from
// dslGrammarSource.
var (
	bootstrapOnce  sync.Once
	bootstrapRules map[string]Expression
	bootstrapRoot  Expression
)

// bootstrapGrammar returns the hand-built expression graph for the grammar
// DSL, building it exactly once.
func bootstrapGrammar() Expression {
	bootstrapOnce.Do(buildBootstrapGrammar)
	return bootstrapRoot
}

func buildBootstrapGrammar() {
	ws := Lookup("_")

	rules := map[string]Expression{
		"rules": Sequence(ws, OneOrMore(Lookup("rule"), 1)),

		"rule": Sequence(Lookup("label"), Literal("="), ws, Lookup("expression")),

		"expression": OneOf(Lookup("ored"), Lookup("sequence"), Lookup("term")),

		"ored": Sequence(Lookup("term"),
			OneOrMore(Sequence(Literal("/"), ws, Lookup("term")), 1)),

		"sequence": Sequence(Lookup("term"), OneOrMore(Lookup("term"), 1)),

		"term": OneOf(
			Lookup("not_term"),
			Lookup("lookahead_term"),
			Lookup("quantified"),
			Lookup("atom"),
		),

		"not_term": Sequence(Literal("!"), Lookup("term"), ws),

		"lookahead_term": Sequence(Literal("&"), Lookup("term"), ws),

		"quantified": Sequence(Lookup("atom"), Lookup("quantifier")),

		"quantifier": Sequence(
			OneOf(Literal("*"), Literal("+"), Literal("?")), ws),

		"atom": OneOf(
			Lookup("reference"),
			Lookup("literal"),
			Lookup("regex"),
			Lookup("parenthesized"),
		),

		"reference": Sequence(Lookup("label"), Not(Lookup("equals"))),

		"equals": Literal("="),

		"parenthesized": Sequence(
			Literal("("), ws, Lookup("expression"), Literal(")"), ws),

		"regex": Sequence(
			Literal("~"), Lookup("spaceless_literal"), Lookup("flags"), ws),

		"flags": MustRegex(`[ilmsuxILMSUX]*`, ""),

		// Captures two groups: an optional u/r prefix, and the quoted body
		// including its delimiters.
		"spaceless_literal": MustRegex(
			`([uU]?[rR]?)("(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*')`, ""),

		"literal": Sequence(Lookup("spaceless_literal"), ws),

		"label": Sequence(MustRegex(`[a-zA-Z_][a-zA-Z_0-9]*`, ""), ws),

		"_": ZeroOrMore(OneOf(MustRegex(`\s+`, ""), Lookup("comment"))),

		"comment": Sequence(Literal("#"), MustRegex(`[^\n]*`, "")),
	}

	for name, e := range rules {
		e.setName(name)
	}
	roots := make([]Expression, 0, len(rules))
	for _, e := range rules {
		roots = append(roots, e)
	}
	if errs := resolveLookups(roots, rules); len(errs) > 0 {
		// The hand-built graph above is fixed at compile time; an undefined
		// label here is a bug in this file, not a user error.
		panic(errs[0])
	}

	bootstrapRules = rules
	bootstrapRoot = rules["rules"]
}
