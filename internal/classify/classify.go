// Package classify maps form-control context strings to semantic field
// categories using an ordered, data-driven rule table with positive
// keywords, disqualifying anti-keywords, and category-specific
// disambiguation. Unclassifiable-but-plausible fields fall back to the
// generation collaborator; everything else is left untouched.
package classify

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/apply-agent/internal/dom"
	"github.com/jonathan/apply-agent/internal/types"
)

// Generator is the opaque text-generation collaborator used as the
// classification fallback. Implementations may be unavailable; a nil
// Generator (or an empty generation) leaves the field unfilled.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Aux carries per-run auxiliary content available to resolvers.
type Aux struct {
	JobDescription string
	CoverLetter    string
}

// Classifier evaluates the rule table against field contexts.
type Classifier struct {
	rules   []Rule
	gen     Generator
	aux     Aux
	verbose bool
}

// New creates a Classifier. gen may be nil when no generation service
// is available.
func New(gen Generator, aux Aux, verbose bool) *Classifier {
	return &Classifier{
		rules:   ruleTable(),
		gen:     gen,
		aux:     aux,
		verbose: verbose,
	}
}

// nonPersonalHints are section tokens that disqualify identity-field
// rules: a "name" control inside one of these sections belongs to the
// entity, not the applicant.
var nonPersonalHints = []string{
	"work", "experience", "employment", "education", "school", "university",
	"project", "company", "employer", "reference", "emergency",
}

// Classify returns the decision for one control. A zero-category
// result means the control is left untouched.
func (c *Classifier) Classify(ctx context.Context, field *dom.Field, profile *types.Profile) types.ClassificationResult {
	normCtx := normalizeContext(field.Context())
	inEntitySection := containsAny(strings.ToLower(field.SectionHint+" "+field.Heading), nonPersonalHints)

	for i := range c.rules {
		rule := &c.rules[i]
		if !rule.matches(normCtx) {
			continue
		}
		if rule.Identity && inEntitySection {
			// Identity rules never fire inside a repeating or
			// otherwise non-personal section.
			continue
		}
		value, candidates, ok := rule.Resolve(field, profile, c.aux)
		if !ok {
			return types.ClassificationResult{}
		}
		return types.ClassificationResult{
			Category:   rule.Category,
			Value:      truncate(value, field.MaxLength),
			Candidates: candidates,
		}
	}

	// Bare "name" that no rule disambiguated, or any plausible
	// free-text question, goes to the generation fallback. A wrong
	// personal-name value is worse than a blank field, so nothing
	// here ever guesses from the profile.
	if c.plausibleForGeneration(field, normCtx) {
		if value := c.generate(ctx, field); value != "" {
			return types.ClassificationResult{
				Category:  types.CategorySummary,
				Value:     truncate(value, field.MaxLength),
				Generated: true,
			}
		}
	}

	return types.ClassificationResult{}
}

// plausibleForGeneration reports whether an unmatched field is worth a
// generation attempt: ambiguous name fields and open-ended questions.
func (c *Classifier) plausibleForGeneration(field *dom.Field, normCtx string) bool {
	if c.gen == nil || field.IsSelect() || field.IsDateLike() {
		return false
	}
	if strings.Contains(normCtx, "name") {
		return true
	}
	if field.IsTextArea() {
		return true
	}
	return strings.Contains(field.Label, "?")
}

func (c *Classifier) generate(ctx context.Context, field *dom.Field) string {
	prompt := buildFallbackPrompt(field, c.aux)
	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		if c.verbose {
			log.Printf("[CLASSIFY] generation fallback failed for %q: %v", field.Label, err)
		}
		return ""
	}
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "skip") || strings.EqualFold(text, "unknown") {
		return ""
	}
	return text
}

// normalizeContext folds attribute-style separators into spaces so
// patterns written in plain words match "first_name" and "first-name".
var ctxReplacer = strings.NewReplacer("_", " ", "-", " ", ".", " ", ":", " ")

func normalizeContext(ctx string) string {
	return ctxReplacer.Replace(ctx)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// ellipsis is appended when a value is cut to a declared max length.
const ellipsis = "…"

// truncate cuts a value to the control's declared maximum length,
// appending an ellipsis when anything was dropped.
func truncate(value string, maxLength int) string {
	if maxLength <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= maxLength {
		return value
	}
	if maxLength == 1 {
		return ellipsis
	}
	return string(runes[:maxLength-1]) + ellipsis
}
