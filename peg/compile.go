// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

// dslGrammarSource is the grammar DSL written in itself, read from
// grammar.peg. It states the same rules as the hand-built graph in
// bootstrap.go; compileGrammar does not read it. TestBootstrapFixedPoint
// compiles the same file and checks that rendering and recompiling the
// result reaches a fixed point.
//go:embed grammar.peg
var dslGrammarSource string

// compiledRule is one label/expression pair produced by the construction
// pass, kept in source order so the resolution pass can apply "last
// definition wins" and pick the first-declared name as the default.
type compiledRule struct {
	name string
	expr Expression
}

// compileGrammar parses source against the bootstrap grammar and walks the
// resulting tree to build the named expression graph it describes,
// following spec.md §4.F/§6.1. It returns the rules in declaration order
// (for default-rule selection) and a name-indexed map with later
// duplicate-named rules overriding earlier ones, both already resolved:
// every Lookup inside the returned expressions has a non-nil target.
func compileGrammar(source string) ([]compiledRule, map[string]Expression, error) {
	s := newScanState(source, nil)
	root, ok := s.apply(bootstrapGrammar(), 0)
	if !ok {
		return nil, nil, &BadGrammarError{Err: &ParseError{Text: source, Pos: s.tracker.pos, Expr: s.tracker.expr}}
	}
	if root.End != len(source) {
		return nil, nil, &BadGrammarError{Err: &IncompleteParseError{Text: source, Pos: root.End, Rule: "rules"}}
	}

	var ordered []compiledRule
	byName := make(map[string]Expression)
	for _, ruleNode := range ruleNodes(root) {
		name, expr, err := buildRule(ruleNode)
		if err != nil {
			return nil, nil, &BadGrammarError{Err: err}
		}
		expr.setName(name)
		ordered = append(ordered, compiledRule{name: name, expr: expr})
		byName[name] = expr
	}

	roots := make([]Expression, 0, len(ordered))
	for _, r := range ordered {
		roots = append(roots, r.expr)
	}
	if errs := resolveLookups(roots, byName); len(errs) > 0 {
		return nil, nil, errs[0]
	}
	return ordered, byName, nil
}

// ruleNodes extracts the "rule" nodes from a "rules" root node, i.e. the
// Children of the anonymous OneOrMore wrapper that is rules' second member.
func ruleNodes(root *Node) []*Node {
	return root.Children[1].Children
}

// buildRule turns one "rule" node (label "=" _ expression) into a name and
// its compiled Expression.
func buildRule(n *Node) (string, Expression, error) {
	label := identifierText(n.Children[0])
	expr, err := buildExpr(n.Children[3])
	if err != nil {
		return "", nil, err
	}
	return label, expr, nil
}

// identifierText extracts the bare identifier from a "label" node, whose
// first child is the identifier regex match (the node's own Text includes
// trailing whitespace the label rule also consumes).
func identifierText(label *Node) string {
	return label.Children[0].Text()
}

// buildExpr dispatches on a node's rule name to construct the Expression it
// represents, recursing into the parse tree the bootstrap grammar produced.
func buildExpr(n *Node) (Expression, error) {
	switch n.RuleName {
	case "expression", "term", "atom":
		return buildExpr(n.Children[0])

	case "ored":
		members, err := collectTerms(n)
		if err != nil {
			return nil, err
		}
		return OneOf(members...), nil

	case "sequence":
		members, err := collectTerms(n)
		if err != nil {
			return nil, err
		}
		return Sequence(members...), nil

	case "not_term":
		inner, err := buildExpr(n.Children[1])
		if err != nil {
			return nil, err
		}
		return Not(inner), nil

	case "lookahead_term":
		inner, err := buildExpr(n.Children[1])
		if err != nil {
			return nil, err
		}
		return Lookahead(inner), nil

	case "quantified":
		inner, err := buildExpr(n.Children[0])
		if err != nil {
			return nil, err
		}
		// quantifier = ("*" / "+" / "?") _: the matched operator is the text
		// of the choice wrapper's single child.
		switch op := n.Children[1].Children[0].Children[0].Text(); op {
		case "*":
			return ZeroOrMore(inner), nil
		case "+":
			return OneOrMore(inner, 1), nil
		case "?":
			return Optional(inner), nil
		default:
			return nil, &BadGrammarError{Err: &ParseError{Text: n.FullText, Pos: n.Start}}
		}

	case "reference":
		return Lookup(identifierText(n.Children[0])), nil

	case "literal":
		return literalFromNode(n.Children[0])

	case "regex":
		return regexFromNode(n)

	case "parenthesized":
		return buildExpr(n.Children[2])

	default:
		return nil, &BadGrammarError{Err: &ParseError{Text: n.FullText, Pos: n.Start}}
	}
}

// collectTerms gathers the leading term plus every term in the trailing
// OneOrMore repetition, the shape shared by "ored" and "sequence".
func collectTerms(n *Node) ([]Expression, error) {
	first, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	members := []Expression{first}
	for _, rep := range n.Children[1].Children {
		// "ored" wraps each repeated member as ("/" _ term); "sequence"
		// applies term directly. Either way the term node is the last child.
		termNode := rep
		if rep.RuleName == "" && len(rep.Children) == 3 {
			termNode = rep.Children[2]
		}
		e, err := buildExpr(termNode)
		if err != nil {
			return nil, err
		}
		members = append(members, e)
	}
	return members, nil
}

// literalFromNode decodes a "literal" atom's underlying spaceless_literal
// node into a Literal expression.
func literalFromNode(spaceless *Node) (Expression, error) {
	text, err := decodeSpacelessLiteral(spaceless)
	if err != nil {
		return nil, err
	}
	return Literal(text), nil
}

// regexFromNode decodes a "regex" atom (~ spaceless_literal flags _) into a
// Regex expression.
func regexFromNode(n *Node) (Expression, error) {
	pattern, err := decodeSpacelessLiteral(n.Children[1])
	if err != nil {
		return nil, err
	}
	flags := n.Children[2].Text()
	return Regex(pattern, flags)
}

// decodeSpacelessLiteral reads the prefix/body captures off a
// spaceless_literal regex node and decodes them per spec.md §6.1: an "r"
// prefix suppresses backslash-escape processing except for the delimiter
// quote itself; "u" is accepted and has no effect, since Go strings are
// already Unicode.
func decodeSpacelessLiteral(n *Node) (string, error) {
	regexNode, ok := n.AsRegex()
	if !ok || len(regexNode.Captures) < 3 {
		return "", &BadGrammarError{Err: &ParseError{Text: n.FullText, Pos: n.Start}}
	}
	prefix := strings.ToLower(regexNode.Captures[1])
	quoted := regexNode.Captures[2]
	delim := quoted[0]
	body := quoted[1 : len(quoted)-1]
	if strings.Contains(prefix, "r") {
		return unescapeDelimiterOnly(body, delim), nil
	}
	return unescapeLiteral(body, delim)
}

func unescapeDelimiterOnly(body string, delim byte) string {
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && body[i+1] == delim {
			out.WriteByte(delim)
			i++
			continue
		}
		out.WriteByte(body[i])
	}
	return out.String()
}

// unescapeLiteral decodes the same backslash-escape set Python's
// ast.literal_eval recognizes, since that is what the original source
// (original_source/parsimonious/utils.py evaluate_string) piggybacks on:
// \n \t \r \\ \<delim>, the less common \a \b \f \v, octal escapes up to
// three digits, \xHH, \uHHHH, and \UHHHHHHHH. An escape letter this
// function doesn't recognize passes through unchanged, backslash and all,
// matching the original's behavior for unrecognized sequences.
func unescapeLiteral(body string, delim byte) (string, error) {
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' || i+1 >= len(body) {
			out.WriteByte(body[i])
			continue
		}
		next := body[i+1]
		switch {
		case next == 'n':
			out.WriteByte('\n')
			i++
		case next == 't':
			out.WriteByte('\t')
			i++
		case next == 'r':
			out.WriteByte('\r')
			i++
		case next == 'a':
			out.WriteByte('\a')
			i++
		case next == 'b':
			out.WriteByte('\b')
			i++
		case next == 'f':
			out.WriteByte('\f')
			i++
		case next == 'v':
			out.WriteByte('\v')
			i++
		case next == '\\':
			out.WriteByte('\\')
			i++
		case next == delim:
			out.WriteByte(delim)
			i++
		case next == 'x':
			value, err := readHexDigits(body, i+2, 2)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape: %w", err)
			}
			out.WriteByte(byte(value))
			i += 3
		case next == 'u':
			value, err := readHexDigits(body, i+2, 4)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %w", err)
			}
			out.WriteRune(rune(value))
			i += 5
		case next == 'U':
			value, err := readHexDigits(body, i+2, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\U escape: %w", err)
			}
			out.WriteRune(rune(value))
			i += 9
		case next >= '0' && next <= '7':
			value, n := readOctalDigits(body, i+1, 3)
			out.WriteByte(byte(value))
			i += n
		default:
			out.WriteByte('\\')
			out.WriteByte(next)
			i++
		}
	}
	return out.String(), nil
}

// readHexDigits parses exactly count hex digits from s starting at start,
// as required by \x, \u, and \U escapes.
func readHexDigits(s string, start, count int) (int64, error) {
	if start+count > len(s) {
		return 0, fmt.Errorf("need %d hex digits, only %d available", count, len(s)-start)
	}
	return strconv.ParseInt(s[start:start+count], 16, 64)
}

// readOctalDigits greedily parses up to max octal digits from s starting at
// start, as required by a \NNN escape. It always consumes at least one
// digit, since the caller only calls it when s[start] is already known to
// be an octal digit.
func readOctalDigits(s string, start, max int) (int64, int) {
	end := start
	for end < len(s) && end < start+max && s[end] >= '0' && s[end] <= '7' {
		end++
	}
	value, _ := strconv.ParseInt(s[start:end], 8, 64)
	return value, end - start
}
