// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pegtest loads golden fixtures bundling a grammar, an input, and
// an expected parse tree dump into one file, in the spirit of
// golang.org/x/tools/txtar's multi-file archive format but pared down to
// exactly the three sections this package's tests need.
package pegtest

import (
	"fmt"
	"strings"
)

// Fixture is one grammar/input/expected-tree scenario loaded from an
// archive file.
type Fixture struct {
	Name     string
	Grammar  string
	Input    string
	Expected string
}

// markerPrefix and markerSuffix frame the "-- name --" line that separates
// sections, matching txtar's file-header convention.
const markerPrefix = "-- "
const markerSuffix = " --"

// Parse splits data into a Fixture using "-- grammar --", "-- input --",
// and "-- expected --" section headers. A trailing newline is stripped
// from each section's content, matching how the sections are typically
// authored in a fixture file.
func Parse(name string, data string) (Fixture, error) {
	sections := map[string]string{}
	var current string
	var body strings.Builder
	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSuffix(body.String(), "\n")
		}
		body.Reset()
	}
	for _, line := range strings.Split(strings.TrimSuffix(data, "\n"), "\n") {
		if strings.HasPrefix(line, markerPrefix) && strings.HasSuffix(line, markerSuffix) {
			flush()
			current = strings.TrimSpace(line[len(markerPrefix) : len(line)-len(markerSuffix)])
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	for _, want := range []string{"grammar", "input", "expected"} {
		if _, ok := sections[want]; !ok {
			return Fixture{}, fmt.Errorf("pegtest: fixture %q missing %q section", name, want)
		}
	}
	return Fixture{
		Name:     name,
		Grammar:  sections["grammar"],
		Input:    sections["input"],
		Expected: sections["expected"],
	}, nil
}
