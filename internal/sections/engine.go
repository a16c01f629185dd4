package sections

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/apply-agent/internal/dom"
	"github.com/jonathan/apply-agent/internal/fill"
	"github.com/jonathan/apply-agent/internal/retry"
	"github.com/jonathan/apply-agent/internal/types"
)

// Result reports the outcome of filling one repeating section. All
// outcomes are partial-success shaped: entries filled before an abort
// are preserved and reported.
type Result struct {
	Kind          Kind                `json:"kind"`
	Found         bool                `json:"found"`
	EntriesFilled int                 `json:"entries_filled"`
	Aborted       bool                `json:"aborted"`
	Reason        string              `json:"reason,omitempty"`
	Fields        []types.FieldReport `json:"fields,omitempty"`
}

// Add records one field outcome.
func (r *Result) Add(fr types.FieldReport) {
	r.Fields = append(r.Fields, fr)
}

// Engine runs the repeating-section state machine for one entity kind
// at a time. Sections are processed strictly sequentially by the
// caller: concurrent passes would race for the same "Add" affordances.
type Engine struct {
	drv     fill.Driver
	writer  *fill.Writer
	poll    retry.Options
	verbose bool
}

// NewEngine creates a section engine over a page driver.
func NewEngine(drv fill.Driver, writer *fill.Writer, verbose bool) *Engine {
	return &Engine{
		drv:     drv,
		writer:  writer,
		poll:    retry.DefaultOptions(),
		verbose: verbose,
	}
}

// SetPoll overrides the await-new-fields polling options.
func (e *Engine) SetPoll(opts retry.Options) { e.poll = opts }

// Fill locates the section for kind and fills entries in order. Entry
// i+1's add control is never clicked before entry i's fields are
// confirmed rendered (or the bounded await timed out and best-effort
// discovery took over).
func (e *Engine) Fill(ctx context.Context, kind Kind, entries [][]Attribute) Result {
	result := Result{Kind: kind}
	if len(entries) == 0 {
		return result
	}

	if _, err := e.locate(ctx, kind); err != nil {
		result.Reason = err.Error()
		if e.verbose {
			log.Printf("[SECTIONS] %s: %v", kind, err)
		}
		return result
	}
	result.Found = true

	for i, entry := range entries {
		if err := e.ensureEntryFields(ctx, kind, i); err != nil {
			// Add-control-not-found stops further entries but
			// preserves everything already filled.
			result.Aborted = true
			result.Reason = err.Error()
			if e.verbose {
				log.Printf("[SECTIONS] %s: aborting after %d entries: %v", kind, i, err)
			}
			return result
		}

		filled := e.scoreAndFill(ctx, kind, entry, &result)
		if filled > 0 {
			result.EntriesFilled++
		}
	}
	return result
}

// locate finds the section container for a kind on the live page.
func (e *Engine) locate(ctx context.Context, kind Kind) (*dom.Section, error) {
	page, err := e.drv.Page(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	section, ok := page.Section(HeadingSynonyms(kind))
	if !ok {
		return nil, &NotFoundError{Kind: kind}
	}
	return section, nil
}

// ensureEntryFields makes sure a fresh group of fields exists for the
// entry about to be filled. The first entry reuses pre-rendered fields
// when the section already has some; every subsequent entry triggers
// the add control and awaits the new fields.
func (e *Engine) ensureEntryFields(ctx context.Context, kind Kind, entryIndex int) error {
	section, err := e.locate(ctx, kind)
	if err != nil {
		return err
	}
	before := countEligible(section)
	if entryIndex == 0 && before > 0 {
		return nil
	}

	add, ok := section.AddControl(EntitySynonyms(kind))
	if !ok {
		return &AddControlError{Kind: kind}
	}
	if err := e.drv.Click(ctx, add.Ref); err != nil {
		return &AddControlError{Kind: kind, Cause: err}
	}

	// Await the new entry's fields. Filling without this check risks
	// writing into the previous entry's controls. On timeout we
	// proceed anyway: some forms render synchronously and the
	// empty-field discovery below is still correct for them.
	rendered := retry.Until(ctx, e.poll, func(ctx context.Context) (bool, error) {
		sec, err := e.locate(ctx, kind)
		if err != nil {
			return false, err
		}
		return countEligible(sec) > before, nil
	})
	if !rendered && e.verbose {
		log.Printf("[SECTIONS] %s: new fields not detected after add click; proceeding best-effort", kind)
	}
	return nil
}

// scoreAndFill assigns each attribute of one entry to the best-scoring
// currently-empty field and writes it. An assigned field leaves the
// pool immediately so no two attributes of the same entry share a
// control.
func (e *Engine) scoreAndFill(ctx context.Context, kind Kind, entry []Attribute, result *Result) int {
	section, err := e.locate(ctx, kind)
	if err != nil {
		return 0
	}

	pool := make([]dom.Field, 0)
	for _, f := range section.Fields() {
		field := f
		if eligibleForPool(&field) {
			pool = append(pool, field)
		}
	}

	filled := 0
	for _, attr := range entry {
		best := -1
		bestScore := 0
		for i := range pool {
			if s := score(&pool[i], attr); s > bestScore {
				best, bestScore = i, s
			}
		}
		if best < 0 {
			// Best score ≤ 0: left blank rather than guessed.
			continue
		}

		field := pool[best]
		pool = append(pool[:best], pool[best+1:]...)

		report := types.FieldReport{
			Ref:      field.Ref,
			Label:    field.Label,
			Category: types.FieldCategory(string(kind) + "." + attr.Key),
		}
		written, err := e.writer.Write(ctx, &field, attr.Value, nil)
		if err != nil {
			report.Reason = err.Error()
			if e.verbose {
				log.Printf("[SECTIONS] %s.%s: %v", kind, attr.Key, err)
			}
		} else {
			report.Filled = true
			report.Value = written
			filled++
		}
		result.Add(report)
	}
	return filled
}

func countEligible(section *dom.Section) int {
	return len(section.Fields())
}
