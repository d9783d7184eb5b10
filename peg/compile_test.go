// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import "testing"

// TestUnescapeLiteralFullEscapeSet exercises the escape letters spec.md
// §4.F requires beyond the handful of common ones, grounded on what
// Python's ast.literal_eval (original_source/parsimonious/utils.py
// evaluate_string) accepts.
func TestUnescapeLiteralFullEscapeSet(t *testing.T) {
	for _, test := range []struct {
		name string
		body string
		want string
	}{
		{"unicode four hex digits", "caf\\u00e9", "café"},
		{"unicode eight hex digits", "\\U0001F600", "😀"},
		{"hex byte", `\x41`, "A"},
		{"octal", `\101`, "A"},
		{"alert", `\a`, "\a"},
		{"backspace", `\b`, "\b"},
		{"form feed", `\f`, "\f"},
		{"vertical tab", `\v`, "\v"},
		{"unrecognized escape passes through", `\q`, `\q`},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := unescapeLiteral(test.body, '"')
			if err != nil {
				t.Fatalf("unescapeLiteral(%q) error: %v", test.body, err)
			}
			if got != test.want {
				t.Errorf("unescapeLiteral(%q) = %q, want %q", test.body, got, test.want)
			}
		})
	}
}

// TestUnescapeLiteralBadEscape checks that a truncated \u escape is
// reported rather than silently mis-decoded.
func TestUnescapeLiteralBadEscape(t *testing.T) {
	if _, err := unescapeLiteral(`\u12`, '"'); err == nil {
		t.Error("expected an error for a truncated \\u escape")
	}
}
