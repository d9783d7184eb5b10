// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pegscript/peg/peg/pegtrace"
)

// Grammar is an immutable, compiled set of named rules produced by
// NewGrammar. The zero Grammar is not usable; always construct one through
// NewGrammar. A Grammar may be shared by reference across goroutines:
// Parse and Match each start from a fresh, unshared matcher state.
type Grammar struct {
	name        string
	defaultRule string
	rules       map[string]Expression
	order       []string
	logger      pegtrace.Logger
}

// Option configures a Grammar at construction time.
type Option func(*grammarConfig)

type grammarConfig struct {
	defaultRule string
	logger      pegtrace.Logger
}

// WithDefaultRule overrides the default rule used by Parse and Match,
// which otherwise is the first rule declared in source.
func WithDefaultRule(name string) Option {
	return func(c *grammarConfig) { c.defaultRule = name }
}

// WithLogger attaches a pegtrace.Logger that observes every matcher
// attempt made while parsing with the resulting Grammar.
func WithLogger(logger pegtrace.Logger) Option {
	return func(c *grammarConfig) { c.logger = logger }
}

// NewGrammar compiles source, a grammar written in the DSL described by
// this package, into a Grammar named name.
func NewGrammar(name string, source string, opts ...Option) (Grammar, error) {
	ordered, rules, err := compileGrammar(source)
	if err != nil {
		return Grammar{}, err
	}
	if len(ordered) == 0 {
		return Grammar{}, &BadGrammarError{Err: fmt.Errorf("grammar %q declares no rules", name)}
	}

	cfg := grammarConfig{defaultRule: ordered[0].name, logger: pegtrace.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, ok := rules[cfg.defaultRule]; !ok {
		return Grammar{}, &UndefinedLabelError{Label: cfg.defaultRule}
	}

	order := make([]string, 0, len(ordered))
	seen := make(map[string]bool, len(ordered))
	for _, r := range ordered {
		if seen[r.name] {
			continue
		}
		seen[r.name] = true
		order = append(order, r.name)
	}

	return Grammar{
		name:        name,
		defaultRule: cfg.defaultRule,
		rules:       rules,
		order:       order,
		logger:      cfg.logger,
	}, nil
}

// Name returns the grammar's name, as given to NewGrammar.
func (g Grammar) Name() string { return g.name }

// Expr looks up the compiled expression for a rule by name.
func (g Grammar) Expr(name string) (Expression, bool) {
	e, ok := g.rules[name]
	return e, ok
}

// Rules returns the grammar's rule names in declaration order.
func (g Grammar) Rules() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Default returns a view of the same compiled rule set with a different
// default rule, leaving g itself untouched. It fails if name was never
// declared.
func (g Grammar) Default(name string) (Grammar, error) {
	if _, ok := g.rules[name]; !ok {
		return Grammar{}, &UndefinedLabelError{Label: name}
	}
	g.defaultRule = name
	return g, nil
}

// Parse matches the default rule against the entirety of text, failing with
// an *IncompleteParseError if the rule matches only a prefix.
func (g Grammar) Parse(text string) (*Node, error) {
	node, _, err := g.ParseStats(text)
	return node, err
}

// ParseStats is Parse plus the packrat memo cache counters observed while
// matching, for exercising the packrat property in tests.
func (g Grammar) ParseStats(text string) (*Node, Stats, error) {
	node, s, err := g.matchStats(text)
	if err != nil {
		return nil, s, err
	}
	if node.End != len(text) {
		return nil, s, &IncompleteParseError{Text: text, Pos: node.End, Rule: g.defaultRule}
	}
	return node, s, nil
}

// Match matches the default rule against a prefix of text, succeeding even
// if trailing input remains unconsumed.
func (g Grammar) Match(text string) (*Node, error) {
	node, _, err := g.matchStats(text)
	return node, err
}

// MatchStats is Match plus memo cache counters.
func (g Grammar) MatchStats(text string) (*Node, Stats, error) {
	return g.matchStats(text)
}

func (g Grammar) matchStats(text string) (*Node, Stats, error) {
	expr, ok := g.rules[g.defaultRule]
	if !ok {
		return nil, Stats{}, &UndefinedLabelError{Label: g.defaultRule}
	}
	s := newScanState(text, g.logger)
	node, ok := s.apply(expr, 0)
	if !ok {
		err := &ParseError{Text: text, Pos: s.tracker.pos, Expr: s.tracker.expr}
		if !s.tracker.hasFail {
			err = &ParseError{Text: text, Pos: 0, Expr: expr}
		}
		return nil, s.stats(), err
	}
	return node, s.stats(), nil
}

// String renders the grammar back to DSL source text, one "name = expr"
// line per rule in declaration order. Recompiling the result yields a
// grammar accepting the same language (spec.md §8, "bootstrap fixed
// point").
func (g Grammar) String() string {
	var b strings.Builder
	for _, name := range g.order {
		fmt.Fprintf(&b, "%s = %v\n", name, g.rules[name])
	}
	return b.String()
}

// SortedRules returns the grammar's rule names in lexical order, for
// callers that want a stable listing independent of declaration order.
func (g Grammar) SortedRules() []string {
	out := append([]string(nil), g.order...)
	sort.Strings(out)
	return out
}
