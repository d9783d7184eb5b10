// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// compileAnchoredRegex compiles pattern with the Python-style re flag letters
// in flags ("ilmsux", any subset, any order) into a regexp.Regexp suitable
// for repeated FindStringSubmatchIndex calls against a slice of the input
// starting at the current scan position. The caller is responsible for
// checking that a match begins at offset 0 of that slice; Go's RE2 engine has
// no native "match only right here" anchor operator, so compileAnchoredRegex
// does not inject one.
//
// Flag semantics, to the extent RE2 can express them:
//
//	i  case-insensitive                 -> (?i)
//	m  ^/$ match at line boundaries      -> (?m)
//	s  . matches newline too             -> (?s)
//	l  locale-dependent \w\b\s etc.      -> no-op; RE2 has no locale tables
//	u  Unicode \w\b\s etc. (Python 3 default) -> no-op; RE2's \w etc. are
//	   ASCII-only either way, so this flag changes nothing observable
//	x  verbose mode: whitespace and '#'-to-end-of-line comments in the
//	   pattern are stripped before compiling, unless backslash-escaped or
//	   inside a character class
func compileAnchoredRegex(pattern, flags string) (*regexp.Regexp, error) {
	var inline strings.Builder
	for _, r := range flags {
		// grammar.peg's flags rule accepts both cases ("[ilmsuxILMSUX]*"),
		// and spec.md §6.1 states the flag set is case-insensitive; Go's
		// (?ims) inline-flag syntax only recognizes the lowercase letters,
		// so normalize before dispatching.
		r = unicode.ToLower(r)
		switch r {
		case 'i', 'm', 's':
			inline.WriteRune(r)
		case 'x':
			pattern = stripVerboseWhitespace(pattern)
		case 'l', 'u':
			// No RE2 equivalent; accepted for source compatibility.
		default:
			return nil, fmt.Errorf("unknown regex flag %q", r)
		}
	}
	if inline.Len() > 0 {
		pattern = "(?" + inline.String() + ")" + pattern
	}
	return regexp.Compile(pattern)
}

// stripVerboseWhitespace implements the "x" flag: unescaped, non-class
// whitespace and '#' end-of-line comments are removed from pattern before
// compilation.
func stripVerboseWhitespace(pattern string) string {
	var out strings.Builder
	inClass := false
	escaped := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case escaped:
			out.WriteByte('\\')
			out.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '[':
			inClass = true
			out.WriteByte(c)
		case c == ']':
			inClass = false
			out.WriteByte(c)
		case !inClass && c == '#':
			for i < len(pattern) && pattern[i] != '\n' {
				i++
			}
		case !inClass && (c == ' ' || c == '\t' || c == '\n' || c == '\r'):
			// dropped
		default:
			out.WriteByte(c)
		}
	}
	if escaped {
		out.WriteByte('\\')
	}
	return out.String()
}
