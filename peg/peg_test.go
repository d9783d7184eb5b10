// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg_test

import (
	_ "embed"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pegscript/peg/peg"
)

//go:embed grammar.peg
var dslSourceText string

// TestBootstrapFixedPoint verifies that the grammar DSL, written in itself,
// compiles and that the compiled grammar re-renders to source which
// recompiles to the same rendering: the bootstrap fixed point described by
// spec.md §8.
func TestBootstrapFixedPoint(t *testing.T) {
	g, err := peg.NewGrammar("dsl", dslSourceText)
	if err != nil {
		t.Fatalf("compiling the DSL grammar against itself: %v", err)
	}
	rendered := g.String()

	g2, err := peg.NewGrammar("dsl-roundtrip", rendered)
	if err != nil {
		t.Fatalf("recompiling the rendered grammar: %v", err)
	}
	rendered2 := g2.String()

	if diff := cmp.Diff(rendered, rendered2); diff != "" {
		t.Errorf("grammar text is not a fixed point under render+recompile (-first +second):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, test := range []struct {
		name     string
		language string
		contains string
	}{
		{
			name:     "unclosed group",
			language: `rule = ("a" "b"`,
			contains: `didn't match`,
		},
		{
			name:     "undefined rule",
			language: `rule = missing`,
			contains: `"missing" was never defined`,
		},
		{
			name:     "empty grammar",
			language: ``,
			contains: `didn't match`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := peg.NewGrammar(test.name, test.language)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), test.contains) {
				t.Errorf("error = %q, want substring %q", err.Error(), test.contains)
			}
		})
	}
}

func TestSimplifications(t *testing.T) {
	for _, test := range []struct {
		name     string
		language string
		simple   string
	}{
		{
			name:     "nested sequence",
			language: `rule = "a" ("b" "c") "d"`,
			simple:   `rule = "a" "b" "c" "d"` + "\n",
		},
		{
			name:     "nested choice",
			language: `rule = "a" / ("b" / "c") / "d"`,
			simple:   `rule = "a" / "b" / "c" / "d"` + "\n",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			g, err := peg.NewGrammar(test.name, test.language)
			if err != nil {
				t.Fatal(err)
			}
			got := g.String()
			if got != test.simple {
				t.Errorf("got:\n  %q\nwant:\n  %q", got, test.simple)
			}
		})
	}
}

func TestParseAndMatch(t *testing.T) {
	g, err := peg.NewGrammar("greeting", `greeting = "hi" / "howdy"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Parse("hi"); err != nil {
		t.Errorf("Parse(%q) = %v, want success", "hi", err)
	}
	if _, err := g.Parse("hi there"); err == nil {
		t.Errorf("Parse(%q) succeeded, want *IncompleteParseError", "hi there")
	} else if _, ok := err.(*peg.IncompleteParseError); !ok {
		t.Errorf("Parse(%q) error type = %T, want *peg.IncompleteParseError", "hi there", err)
	}
	if _, err := g.Match("hi there"); err != nil {
		t.Errorf("Match(%q) = %v, want success", "hi there", err)
	}
	if _, err := g.Parse("hello"); err == nil {
		t.Fatalf("Parse(%q) succeeded, want an error", "hello")
	} else if pe, ok := err.(*peg.ParseError); !ok {
		t.Errorf("Parse(%q) error type = %T, want *peg.ParseError", "hello", err)
	} else if !strings.Contains(pe.Error(), `"greeting"`) {
		// With a choice failing entirely, the furthest-failure tracker
		// should blame the named rule, not one of its unnamed literals.
		t.Errorf("error blames the wrong rule: %v", pe)
	}
}

func TestPackratMemoization(t *testing.T) {
	// A grammar forcing the same sub-rule to be attempted from the same
	// position by two different alternatives, exercising the packrat
	// property: each (expression, position) pair is scanned at most once.
	g, err := peg.NewGrammar("shared", `
start  = (digits "a") / (digits "b")
digits = ~r'[0-9]+'
`)
	if err != nil {
		t.Fatal(err)
	}
	// Input ending in "b" forces the first alternative to fail after
	// matching "digits", then the second alternative re-applies the exact
	// same (digits, pos 0) pair: without memoization that would be a second
	// scan of digits, not a cache hit.
	_, stats, err := g.MatchStats("123b")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Hits == 0 {
		t.Errorf("expected a memo cache hit from the shared digits sub-match, got %+v", stats)
	}
}

func ExampleGrammar_String() {
	g, err := peg.NewGrammar("demo", `
greeting = "hi" / "howdy"
`)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(g.String())
	// Output:
	// greeting = "hi" / "howdy"
}
