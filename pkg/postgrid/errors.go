package postgrid

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotConfigured indicates no content source has been configured. It is
	// surfaced before any normalization work and is distinguishable from a
	// transport failure.
	ErrNotConfigured = errors.New("content source not configured")

	// ErrSourceFailure indicates the paging collaborator failed; the batch is
	// aborted and the failure surfaces as a single top-level error.
	ErrSourceFailure = errors.New("content source failure")
)

// SourceError wraps a failure from the external content source with the
// operation and cursor in flight when it happened.
type SourceError struct {
	Op     string
	Cursor string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Cursor == "" {
		return fmt.Sprintf("source operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("source operation %s failed at cursor %s: %v", e.Op, e.Cursor, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is matches SourceError against the ErrSourceFailure sentinel.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceFailure
}
