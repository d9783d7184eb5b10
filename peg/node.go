// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import (
	"fmt"
	"strings"
)

// Node is a single node in a parse tree produced by Grammar.Parse or
// Grammar.Match. Nodes are immutable once constructed; a single Node may be
// shared by reference at several places in a tree as a side effect of the
// packrat memo cache reusing matched sub-results, so callers must never
// mutate one.
type Node struct {
	// RuleName is the name of the rule that produced this node, or empty if
	// the node comes from an anonymous sub-expression.
	RuleName string
	// FullText is the entire input text the enclosing parse was run over.
	FullText string
	// Start and End are half-open byte offsets into FullText: Start <= End
	// <= len(FullText), and FullText[Start:End] is exactly the matched span.
	Start, End int
	// Children holds this node's ordered sub-matches, or nil for a leaf.
	Children []*Node
	// Captures holds the capturing groups of the match when this node was
	// produced by a Regex expression; Captures[0] is the whole matched text
	// and Captures[1:] the parenthesized groups, following the convention of
	// regexp.Regexp.FindStringSubmatch. Nil for every other expression kind.
	Captures []string
}

// RegexNode is the Node specialization produced by a Regex expression,
// granting named access to its capture groups. Regex.scan always returns a
// *Node with Captures populated; RegexNode is a convenience view obtained
// via Node.AsRegex.
type RegexNode struct {
	*Node
}

// AsRegex reports whether n was produced by a Regex expression and, if so,
// returns a RegexNode view of it.
func (n *Node) AsRegex() (RegexNode, bool) {
	if n.Captures == nil {
		return RegexNode{}, false
	}
	return RegexNode{n}, true
}

func newNode(name string, text string, start, end int, children []*Node) *Node {
	return &Node{RuleName: name, FullText: text, Start: start, End: end, Children: children}
}

func (n *Node) withName(name string) *Node {
	if n.RuleName == name {
		return n
	}
	clone := *n
	clone.RuleName = name
	return &clone
}

// Text returns the slice of FullText this node matched.
func (n *Node) Text() string {
	return n.FullText[n.Start:n.End]
}

// Equal reports whether n and other represent the same parse tree by value:
// same rule name, same matched span of the same text, and recursively equal
// children.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.RuleName != other.RuleName || n.FullText != other.FullText ||
		n.Start != other.Start || n.End != other.End ||
		len(n.Children) != len(other.Children) {
		return false
	}
	for i, c := range n.Children {
		if !c.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// String renders a pretty-printed representation of the tree rooted at n,
// with each child indented two spaces past its parent.
func (n *Node) String() string {
	return n.prettily(nil)
}

// Format implements fmt.Formatter so Nodes print nicely with %v and %s.
func (n *Node) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, n.prettily(nil))
}

// prettily renders the tree, optionally marking one node as the site of a
// parse error with a trailing annotation.
func (n *Node) prettily(errorAt *Node) string {
	name := n.RuleName
	if name == "" {
		name = "<anonymous>"
	}
	marker := ""
	if errorAt == n {
		marker = "  <-- *** We were here. ***"
	}
	lines := []string{fmt.Sprintf("<%s %q>%s", name, n.Text(), marker)}
	for _, c := range n.Children {
		lines = append(lines, indent(c.prettily(errorAt)))
	}
	return strings.Join(lines, "\n")
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
