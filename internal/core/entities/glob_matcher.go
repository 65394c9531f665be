// Package entities contains the domain entities for pylon: pure Go structs
// and value types with validation logic, shared by every other package.
package entities

import (
	"fmt"
	"strings"
)

// Glob is a single compiled glob pattern supporting the wildcards `*`
// (zero or more characters) and `?` (exactly one character).
type Glob struct {
	pattern string
}

// CompileGlob validates and wraps a glob pattern. An empty pattern is
// rejected: a Matcher is defined over a non-empty set of globs, and an
// empty pattern would match every text or no text depending on backtracking
// edge cases, which the spec does not sanction.
func CompileGlob(pattern string) (Glob, error) {
	if pattern == "" {
		return Glob{}, fmt.Errorf("entities: empty glob pattern")
	}
	return Glob{pattern: pattern}, nil
}

// String returns the original pattern text.
func (g Glob) String() string { return g.pattern }

// IsMatch reports whether candidate matches this glob's pattern.
func (g Glob) IsMatch(candidate string) bool {
	return globMatch(g.pattern, candidate)
}

// Matcher is a non-empty set of compiled globs. It matches a candidate
// string iff any one of its globs matches (spec §3 "Matcher").
type Matcher struct {
	globs []Glob
}

// NewMatcher builds a Matcher from one or more raw patterns.
func NewMatcher(patterns ...string) (Matcher, error) {
	if len(patterns) == 0 {
		return Matcher{}, fmt.Errorf("entities: matcher requires at least one glob")
	}
	globs := make([]Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := CompileGlob(p)
		if err != nil {
			return Matcher{}, err
		}
		globs = append(globs, g)
	}
	return Matcher{globs: globs}, nil
}

// MustMatcher is like NewMatcher but panics on error. Intended for
// call sites building matchers from constant patterns (e.g. adapter setup).
func MustMatcher(patterns ...string) Matcher {
	m, err := NewMatcher(patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

// IsMatch reports whether any glob in the set matches the candidate.
func (m Matcher) IsMatch(candidate string) bool {
	for _, g := range m.globs {
		if g.IsMatch(candidate) {
			return true
		}
	}
	return false
}

// Globs exposes the underlying glob set for display/debugging purposes.
func (m Matcher) Globs() []Glob {
	return append([]Glob(nil), m.globs...)
}

// globMatch implements glob pattern matching supporting * and ? wildcards
// via a classic two-pointer backtracking scan.
func globMatch(pattern, text string) bool {
	if pattern == text {
		return true
	}
	if pattern == "*" {
		return true
	}
	if strings.Contains(pattern, "?") && !strings.Contains(pattern, "*") {
		return matchWithSingleChar(pattern, text)
	}
	if strings.ContainsAny(pattern, "*?") {
		return globMatchMixed(pattern, text)
	}
	return pattern == text
}

// globMatchMixed handles patterns with both * and ? wildcards.
func globMatchMixed(pattern, text string) bool {
	pi, ti := 0, 0
	starIdx, matchIdx := -1, 0

	for ti < len(text) {
		if pi < len(pattern) {
			if pattern[pi] == '*' {
				starIdx = pi
				matchIdx = ti
				pi++
				continue
			} else if pattern[pi] == '?' || pattern[pi] == text[ti] {
				pi++
				ti++
				continue
			}
		}

		if starIdx != -1 {
			pi = starIdx + 1
			matchIdx++
			ti = matchIdx
			continue
		}

		return false
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}

	return pi == len(pattern)
}

// matchWithSingleChar matches pattern with only ? wildcards (no *).
func matchWithSingleChar(pattern, text string) bool {
	if len(pattern) != len(text) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '?' && pattern[i] != text[i] {
			return false
		}
	}
	return true
}
