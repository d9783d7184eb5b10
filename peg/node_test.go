// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg_test

import (
	"strings"
	"testing"

	"github.com/pegscript/peg/peg"
)

func TestNodeText(t *testing.T) {
	g, err := peg.NewGrammar("g", `g = "hello" " " ~"[a-z]+"`)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := g.Parse("hello world")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tree.Text(), "hello world"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got, want := tree.Children[2].Text(), "world"; got != want {
		t.Errorf("Children[2].Text() = %q, want %q", got, want)
	}
}

func TestNodeEqual(t *testing.T) {
	g, err := peg.NewGrammar("g", `g = "a" "b"`)
	if err != nil {
		t.Fatal(err)
	}
	a, err := g.Parse("ab")
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Parse("ab")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("two parses of the same input produced unequal trees:\n%v\n%v", a, b)
	}

	other, err := g.Parse("ab ")
	if err == nil {
		// A trailing space makes Parse fail with *IncompleteParseError, so
		// fall back to Match to get a comparison tree from different text.
		t.Fatal("expected Parse to fail on trailing input")
	}
	other, err = g.Match("ab ")
	if err != nil {
		t.Fatal(err)
	}
	if a.Equal(other) {
		t.Errorf("trees built from different source text compared equal")
	}
}

func TestNodeStringIndentsChildren(t *testing.T) {
	g, err := peg.NewGrammar("g", `
g     = left right
left  = "a"
right = "b"
`)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := g.Parse("ab")
	if err != nil {
		t.Fatal(err)
	}
	rendered := tree.String()
	lines := strings.Split(rendered, "\n")
	if len(lines) != 3 {
		t.Fatalf("String() produced %d lines, want 3:\n%s", len(lines), rendered)
	}
	if !strings.HasPrefix(lines[0], "<g ") {
		t.Errorf("first line = %q, want it to start with the root node", lines[0])
	}
	for _, child := range lines[1:] {
		if !strings.HasPrefix(child, "  <") {
			t.Errorf("child line %q is not indented two spaces", child)
		}
	}
}

func TestNodeAsRegex(t *testing.T) {
	g, err := peg.NewGrammar("g", `g = ~"([a-z]+)@([a-z]+)"`)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := g.Parse("pat@example")
	if err != nil {
		t.Fatal(err)
	}
	rx, ok := tree.AsRegex()
	if !ok {
		t.Fatalf("AsRegex() ok = false for a node produced by a Regex expression")
	}
	if len(rx.Captures) != 3 || rx.Captures[1] != "pat" || rx.Captures[2] != "example" {
		t.Errorf("Captures = %#v, want [whole, pat, example]", rx.Captures)
	}

	literal, err := peg.NewGrammar("lit", `lit = "x"`)
	if err != nil {
		t.Fatal(err)
	}
	litTree, err := literal.Parse("x")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := litTree.AsRegex(); ok {
		t.Errorf("AsRegex() ok = true for a node produced by a Literal expression")
	}
}
