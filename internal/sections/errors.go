package sections

import "fmt"

// NotFoundError reports that no heading matched the section's synonym
// set. The entity type contributes zero fills; other sections are
// still processed.
type NotFoundError struct {
	Kind Kind
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s section found on page", e.Kind)
}

// AddControlError reports that the add-entry affordance was missing or
// could not be clicked. Remaining entries for the section are skipped;
// entries already filled are preserved.
type AddControlError struct {
	Kind  Kind
	Cause error
}

func (e *AddControlError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("add control for %s section: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("no add control found for %s section", e.Kind)
}

func (e *AddControlError) Unwrap() error {
	return e.Cause
}
