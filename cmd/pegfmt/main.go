// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The pegfmt command reads a grammar written in the peg DSL from stdin,
// compiles it, and prints the round-tripped grammar text to stdout. With
// -parse, it additionally parses a second file against the grammar's
// default rule and prints the resulting parse tree.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pegscript/peg/peg"
)

var parseFile = flag.String("parse", "", "parse this file against the grammar's default rule and print the resulting tree")

func main() {
	flag.Usage = func() {
		log.Println("Usage: pegfmt [-parse FILE] < grammar.peg")
	}
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *parseFile); err != nil {
		log.Fatal(err)
	}
}

func run(in io.Reader, out io.Writer, parseFile string) error {
	source, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading grammar: %w", err)
	}

	g, err := peg.NewGrammar("pegfmt", string(source))
	if err != nil {
		return fmt.Errorf("compiling grammar: %w", err)
	}
	fmt.Fprint(out, g.String())

	if parseFile == "" {
		return nil
	}
	text, err := os.ReadFile(parseFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", parseFile, err)
	}
	tree, err := g.Parse(string(text))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", parseFile, err)
	}
	fmt.Fprintln(out, tree)
	return nil
}
