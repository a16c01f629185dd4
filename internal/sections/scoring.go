package sections

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/dom"
)

// Scoring weights. Label hits outrank name/id hits, which outrank
// placeholder hits; anti-keywords subtract a fixed penalty; a matching
// control type adds a bonus. A best score of zero or less means no
// assignment: the attribute is left blank rather than guessed.
const (
	labelWeight      = 10
	nameWeight       = 8
	placeholderWeight = 5
	antiPenalty      = 12
	typeBonus        = 6
)

// score computes the match score of one candidate field for one
// attribute.
func score(field *dom.Field, attr Attribute) int {
	label := strings.ToLower(field.Label)
	nameID := strings.ToLower(field.Name + " " + field.ID)
	placeholder := strings.ToLower(field.Placeholder)

	total := 0
	for _, kw := range attr.Keywords {
		switch {
		case strings.Contains(label, kw):
			total += labelWeight
		case strings.Contains(nameID, kw):
			total += nameWeight
		case strings.Contains(placeholder, kw):
			total += placeholderWeight
		}
	}
	for _, anti := range attr.Anti {
		if strings.Contains(label, anti) || strings.Contains(nameID, anti) || strings.Contains(placeholder, anti) {
			total -= antiPenalty
		}
	}

	if attr.WantDate && field.IsDateLike() {
		total += typeBonus
	}
	if attr.WantLong && field.IsTextArea() {
		total += typeBonus
	}
	// A date attribute should not land on a textarea and a long
	// description should not land on a date control.
	if attr.WantDate && field.IsTextArea() {
		total -= antiPenalty
	}
	if attr.WantLong && field.IsDateLike() {
		total -= antiPenalty
	}
	return total
}

// eligibleForPool filters fields allowed into a repeating entry's
// candidate pool: currently empty, not a skills control (skills belong
// to the top-level profile, never to a single entry).
func eligibleForPool(field *dom.Field) bool {
	if !field.Empty() {
		return false
	}
	return !strings.Contains(field.Context(), "skill")
}
