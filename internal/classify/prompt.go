package classify

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/dom"
	"github.com/jonathan/apply-agent/internal/prompts"
)

// maxJobContextChars bounds the job-description excerpt included in
// fallback prompts.
const maxJobContextChars = 1500

// buildFallbackPrompt constructs the generation prompt for a field the
// rule table could not classify.
func buildFallbackPrompt(field *dom.Field, aux Aux) string {
	template := prompts.MustGet("filling.json", "field-fallback")

	jobContext := strings.TrimSpace(aux.JobDescription)
	if len(jobContext) > maxJobContextChars {
		jobContext = jobContext[:maxJobContextChars]
	}

	return prompts.Format(template, map[string]string{
		"Label":       field.Label,
		"Placeholder": field.Placeholder,
		"Context":     field.Context(),
		"JobContext":  jobContext,
	})
}
