package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailNotFound is returned when the ingestion collaborator has
	// no document for the requested email id. Distinct from a valid
	// zero-signal assessment, which is not an error.
	ErrEmailNotFound = errors.New("email not found")

	// ErrEnrichmentUnavailable is returned by domain-age providers that
	// are disabled or unreachable. Callers fail open on it.
	ErrEnrichmentUnavailable = errors.New("domain age enrichment unavailable")
)

// ValidationError reports malformed caller input, surfaced immediately
// and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
