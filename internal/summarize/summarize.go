// Package summarize produces a job posting summary and a tailored
// cover letter for a candidate, generated concurrently.
package summarize

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/apply-agent/internal/prompts"
	"github.com/jonathan/apply-agent/internal/types"
)

// maxJobTextLen caps the posting text sent to the model.
const maxJobTextLen = 12000

// Result holds the generated artifacts.
type Result struct {
	Summary     string `json:"summary"`
	CoverLetter string `json:"cover_letter,omitempty"`
}

// Generator produces text from a prompt. Satisfied by *llm.Session.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Run generates the job summary and, when profile is non-nil, a cover
// letter. The two generations run concurrently; either failure fails
// the whole call.
func Run(ctx context.Context, gen Generator, jobText string, profile *types.Profile) (*Result, error) {
	if jobText == "" {
		return nil, fmt.Errorf("no job posting text to summarize")
	}
	if len(jobText) > maxJobTextLen {
		jobText = jobText[:maxJobTextLen]
	}

	res := &Result{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		prompt := prompts.Format(prompts.MustGet("summarize.json", "job-summary"), map[string]string{
			"JobText": jobText,
		})
		out, err := gen.Generate(gctx, prompt)
		if err != nil {
			return fmt.Errorf("summary generation failed: %w", err)
		}
		res.Summary = out
		return nil
	})

	if profile != nil {
		g.Go(func() error {
			prompt := prompts.Format(prompts.MustGet("summarize.json", "cover-letter"), map[string]string{
				"ProfileText": profileText(profile),
				"JobText":     jobText,
			})
			out, err := gen.Generate(gctx, prompt)
			if err != nil {
				return fmt.Errorf("cover letter generation failed: %w", err)
			}
			res.CoverLetter = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// profileText renders the profile as compact JSON for prompt context.
func profileText(p *types.Profile) string {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return p.DisplayName()
	}
	return string(data)
}
