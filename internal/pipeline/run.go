// Package pipeline orchestrates a full form-fill pass: singleton
// fields first, then the repeating work, education, and project
// sections in order.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/apply-agent/internal/classify"
	"github.com/jonathan/apply-agent/internal/dom"
	"github.com/jonathan/apply-agent/internal/fill"
	"github.com/jonathan/apply-agent/internal/sections"
	"github.com/jonathan/apply-agent/internal/types"
)

// Report status values. The pass always completes; Status reports how
// much of the form it reached.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusNoFields  = "no_fields"
)

// Options configures a fill pass.
type Options struct {
	Generator classify.Generator // optional LLM fallback
	Aux       classify.Aux
	Verbose   bool
}

// Run performs one full fill pass over the live page behind drv.
// Failures are local: a field that cannot be classified or written is
// reported and skipped, and the pass continues.
func Run(ctx context.Context, drv fill.Driver, profile *types.Profile, opts Options) (*types.FillReport, error) {
	if profile == nil {
		return nil, fmt.Errorf("no profile to fill from")
	}

	page, err := drv.Page(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	classifier := classify.New(opts.Generator, opts.Aux, opts.Verbose)
	writer := fill.NewWriter(drv, opts.Verbose)
	report := &types.FillReport{Status: StatusCompleted}

	fields := page.Fields()
	if len(fields) == 0 {
		report.Status = StatusNoFields
		return report, nil
	}

	// Singleton pass. Fields inside repeating sections are left for the
	// section engine, which owns entry creation and ordering.
	for i := range fields {
		field := &fields[i]
		if !field.Empty() {
			continue
		}
		if kind, ok := sectionKindFor(field, profile); ok {
			if opts.Verbose {
				log.Printf("[FILL] deferring %s to %s section engine", field.Ref, kind)
			}
			continue
		}

		result := classifier.Classify(ctx, field, profile)
		if !result.Matched() {
			continue
		}

		written, werr := writer.Write(ctx, field, result.Value, result.Candidates)
		fr := types.FieldReport{
			Ref:      field.Ref,
			Label:    field.Label,
			Category: result.Category,
			Value:    written,
			Filled:   werr == nil,
		}
		if werr != nil {
			fr.Reason = werr.Error()
			if opts.Verbose {
				log.Printf("[FILL] %s (%s): %v", field.Ref, result.Category, werr)
			}
		}
		report.Add(fr)
	}

	// Repeating sections, strictly sequential.
	engine := sections.NewEngine(drv, writer, opts.Verbose)
	for _, pass := range sectionPasses(profile) {
		res := engine.Fill(ctx, pass.kind, pass.entries)
		for _, fr := range res.Fields {
			report.Add(fr)
		}
		if res.Aborted {
			report.Status = StatusPartial
			if opts.Verbose {
				log.Printf("[FILL] %s section aborted: %s", pass.kind, res.Reason)
			}
		}
	}

	return report, nil
}

type sectionPass struct {
	kind    sections.Kind
	entries [][]sections.Attribute
}

// sectionPasses builds the ordered entry attribute sets for each
// repeating section kind the profile has data for.
func sectionPasses(p *types.Profile) []sectionPass {
	var passes []sectionPass
	if len(p.WorkExperience) > 0 {
		var entries [][]sections.Attribute
		for _, w := range p.WorkExperience {
			entries = append(entries, sections.WorkAttributes(w))
		}
		passes = append(passes, sectionPass{sections.KindWork, entries})
	}
	if len(p.Education) > 0 {
		var entries [][]sections.Attribute
		for _, e := range p.Education {
			entries = append(entries, sections.EducationAttributes(e))
		}
		passes = append(passes, sectionPass{sections.KindEducation, entries})
	}
	if len(p.Projects) > 0 {
		var entries [][]sections.Attribute
		for _, pr := range p.Projects {
			entries = append(entries, sections.ProjectAttributes(pr))
		}
		passes = append(passes, sectionPass{sections.KindProjects, entries})
	}
	return passes
}

// sectionKindFor reports whether field sits inside a repeating section
// the engine will fill, based on its ancestor hints. Only kinds the
// profile actually has entries for defer the field; otherwise the
// singleton classifier gets its usual chance.
func sectionKindFor(field *dom.Field, p *types.Profile) (sections.Kind, bool) {
	hints := strings.ToLower(field.SectionHint + " " + field.Heading)
	if hints == "" {
		return "", false
	}
	check := func(kind sections.Kind, has bool) bool {
		if !has {
			return false
		}
		for _, syn := range sections.HeadingSynonyms(kind) {
			if strings.Contains(hints, syn) {
				return true
			}
		}
		return false
	}
	switch {
	case check(sections.KindWork, len(p.WorkExperience) > 0):
		return sections.KindWork, true
	case check(sections.KindEducation, len(p.Education) > 0):
		return sections.KindEducation, true
	case check(sections.KindProjects, len(p.Projects) > 0):
		return sections.KindProjects, true
	}
	return "", false
}
