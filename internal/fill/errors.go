package fill

import "fmt"

// WriteError reports that a value assignment did not take or verify.
// Write failures are logged and skipped by callers; a single
// unfillable field never aborts the overall pass.
type WriteError struct {
	Ref     string
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("write error for %s: %s: %v", e.Ref, e.Message, e.Cause)
	}
	return fmt.Sprintf("write error for %s: %s", e.Ref, e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// NoOptionError reports that no candidate matched any select option by
// any strategy. The caller must not guess an option.
type NoOptionError struct {
	Ref        string
	Candidates []string
}

func (e *NoOptionError) Error() string {
	return fmt.Sprintf("no option matched for %s (candidates: %v)", e.Ref, e.Candidates)
}
