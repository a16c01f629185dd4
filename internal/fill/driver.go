// Package fill writes values into form controls through a Driver
// abstraction, verifying every write. The synthetic event replay that
// reactive frameworks require lives behind the Driver so the
// classification and scoring logic stays framework-agnostic.
package fill

import (
	"context"

	"github.com/jonathan/apply-agent/internal/dom"
)

// Driver is the mutation surface of a live page. Refs are the
// deterministic CSS paths computed by the dom package. Implementations
// must perform writes the way a real keystroke would be observed:
// invoke the native value setter and replay focus, input, change, and
// blur notifications in that order.
type Driver interface {
	// Page re-renders and re-parses the live document. Field
	// snapshots must never be cached across an await boundary, so
	// callers re-query through this after every wait.
	Page(ctx context.Context) (*dom.Page, error)
	// Value reads the control's current value.
	Value(ctx context.Context, ref string) (string, error)
	// SetValue writes a text value via the native setter and replays
	// the interaction notification sequence.
	SetValue(ctx context.Context, ref, value string) error
	// SelectOption sets a select control to the option with the
	// given value and replays input/change notifications.
	SelectOption(ctx context.Context, ref, value string) error
	// Click triggers a clickable element.
	Click(ctx context.Context, ref string) error
	// MarkValid reconciles the control's error/valid indicator state
	// after a successful programmatic write.
	MarkValid(ctx context.Context, ref string) error
}
