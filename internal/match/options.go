// Package match resolves semantic values against select-control options
// using a fixed cascade of matching strategies.
package match

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/dom"
)

// minContainsLen is the minimum candidate length for the final
// candidate-in-text strategy, to avoid trivial collisions.
const minContainsLen = 3

// Option resolves candidates against options and returns the first
// option any candidate matches, or nil. Candidate order outranks
// strategy order: once an earlier candidate finds a match by any
// strategy, later candidates are never tried. The caller must not
// guess when nil is returned.
func Option(options []dom.Option, candidates []string) *dom.Option {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if opt := matchOne(options, candidate); opt != nil {
			return opt
		}
	}
	return nil
}

// matchOne runs the strategy cascade for a single candidate.
func matchOne(options []dom.Option, candidate string) *dom.Option {
	cand := strings.ToLower(candidate)

	type strategy func(value, text string) bool
	strategies := []strategy{
		// 1. exact value match
		func(value, _ string) bool { return value == cand },
		// 2. exact visible-text match
		func(_, text string) bool { return text == cand },
		// 3. option value is a prefix of the candidate
		func(value, _ string) bool { return value != "" && strings.HasPrefix(cand, value) },
		// 4. option text is a prefix of the candidate
		func(_, text string) bool { return text != "" && strings.HasPrefix(cand, text) },
		// 5. option value is a substring of the candidate
		func(value, _ string) bool { return value != "" && strings.Contains(cand, value) },
		// 6. option text is a substring of the candidate
		func(_, text string) bool { return text != "" && strings.Contains(cand, text) },
		// 7. candidate is a substring of the option value (codes, abbreviations)
		func(value, _ string) bool { return strings.Contains(value, cand) },
		// 8. candidate is a substring of the option text (length-guarded)
		func(_, text string) bool { return len(cand) >= minContainsLen && strings.Contains(text, cand) },
	}

	for _, try := range strategies {
		for i := range options {
			value := strings.ToLower(strings.TrimSpace(options[i].Value))
			text := strings.ToLower(strings.TrimSpace(options[i].Text))
			if value == "" && text == "" {
				continue
			}
			if try(value, text) {
				return &options[i]
			}
		}
	}
	return nil
}
