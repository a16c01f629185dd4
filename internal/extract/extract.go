// Package extract turns loosely formatted generated text into typed
// profile records. Two serialization conventions are supported: a
// delimiter-tagged block format with Key: value lines, and a single
// JSON object located by brace-depth scanning, with a cascade of
// repair strategies for malformed output.
package extract

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

// Extract parses rawText into a partial Profile. A record is accepted
// only if it has an identity signal (name or email) or at least one
// non-empty experience entry; anything weaker is an ExtractionError
// and the caller must fall back to manual entry — a partially garbled
// record is never returned silently.
func Extract(rawText string) (*types.Profile, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, &ExtractionError{Message: "empty input"}
	}

	var profile *types.Profile
	if hasBlockMarkers(rawText) {
		profile = parseBlocks(rawText)
	} else {
		parsed, err := parseJSONRecord(rawText)
		if err != nil {
			return nil, err
		}
		profile = parsed
	}

	if !accepted(profile) {
		return nil, &ExtractionError{Message: "no identity signal or experience entries found"}
	}
	return profile, nil
}

func accepted(p *types.Profile) bool {
	if p == nil {
		return false
	}
	if p.HasIdentity() {
		return true
	}
	for _, w := range p.WorkExperience {
		if w.Company != "" || w.Title != "" {
			return true
		}
	}
	return false
}
