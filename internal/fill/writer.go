package fill

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/apply-agent/internal/dom"
	"github.com/jonathan/apply-agent/internal/match"
	"github.com/jonathan/apply-agent/internal/retry"
)

// writeRetryDelay is the pause before the single verification retry.
const writeRetryDelay = 150 * time.Millisecond

// Writer performs the control-type-specific write protocol and
// verifies every write.
type Writer struct {
	drv     Driver
	verbose bool
}

// NewWriter creates a Writer over a page driver.
func NewWriter(drv Driver, verbose bool) *Writer {
	return &Writer{drv: drv, verbose: verbose}
}

// Write writes value into field. candidates is the ordered synonym set
// for select controls; when empty, the value itself is the only
// candidate. On success the control's value equals the written value
// after documented normalization and its error indicators are
// reconciled. Failures are returned, never thrown: callers log, skip
// the field, and continue the pass.
func (w *Writer) Write(ctx context.Context, field *dom.Field, value string, candidates []string) (string, error) {
	switch {
	case field.IsSelect():
		return w.writeSelect(ctx, field, value, candidates)
	case field.IsDateLike():
		return w.writeDate(ctx, field, value)
	default:
		return value, w.writeText(ctx, field.Ref, value)
	}
}

// writeSelect resolves the candidate set against the control's options
// and sets the selection. No match means no write; the engine never
// guesses an option.
func (w *Writer) writeSelect(ctx context.Context, field *dom.Field, value string, candidates []string) (string, error) {
	if len(candidates) == 0 && value != "" {
		candidates = []string{value}
	}
	opt := match.Option(field.Options, candidates)
	if opt == nil {
		return "", &NoOptionError{Ref: field.Ref, Candidates: candidates}
	}
	if err := w.drv.SelectOption(ctx, field.Ref, opt.Value); err != nil {
		return "", &WriteError{Ref: field.Ref, Message: "failed to set selection", Cause: err}
	}
	w.reconcile(ctx, field.Ref)
	return opt.Value, nil
}

// writeDate normalizes the value into the control's expected numeric
// format before writing.
func (w *Writer) writeDate(ctx context.Context, field *dom.Field, value string) (string, error) {
	normalized, ok := NormalizeDate(value, field.Type)
	if !ok {
		return "", &WriteError{Ref: field.Ref, Message: "no year found in date value " + value}
	}
	return normalized, w.writeText(ctx, field.Ref, normalized)
}

// writeText performs the verified text write: native setter plus the
// synthetic notification sequence (inside the driver), read-back
// verification, and one bounded retry with a short delay. The host
// page may re-render on any synthetic event, which is why the
// verification re-reads through the driver instead of trusting the
// write call.
func (w *Writer) writeText(ctx context.Context, ref, value string) error {
	err := retry.Do(ctx, 2, writeRetryDelay, func(ctx context.Context) error {
		if err := w.drv.SetValue(ctx, ref, value); err != nil {
			return err
		}
		got, err := w.drv.Value(ctx, ref)
		if err != nil {
			return err
		}
		if got != value {
			return &WriteError{Ref: ref, Message: "verification failed"}
		}
		return nil
	})
	if err != nil {
		return &WriteError{Ref: ref, Message: "value did not stick", Cause: err}
	}
	w.reconcile(ctx, ref)
	return nil
}

// reconcile clears error indicator state after a successful write.
// Many forms render a persistent error for values not typed by a real
// keystroke; failing to clear it leaves a filled form that looks
// broken. Reconciliation failures are diagnostic only.
func (w *Writer) reconcile(ctx context.Context, ref string) {
	if err := w.drv.MarkValid(ctx, ref); err != nil && w.verbose {
		log.Printf("[FILL] could not reconcile validity for %s: %v", ref, err)
	}
}
