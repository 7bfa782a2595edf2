package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSummary signals a decision context without a summary.
	ErrMissingSummary = errors.New("decision summary is required")
	// ErrTooFewOptions signals a decision context with fewer than two options.
	ErrTooFewOptions = errors.New("at least two options are required")
	// ErrDuplicateOption signals two options sharing an id.
	ErrDuplicateOption = errors.New("duplicate option id")
	// ErrOptionNotFound signals a reference to an option absent from the context.
	ErrOptionNotFound = errors.New("option not found")

	// ErrRecordNotFound signals a missing corpus record.
	ErrRecordNotFound = errors.New("decision record not found")
	// ErrInvalidOutcome signals an outcome value outside the known set.
	ErrInvalidOutcome = errors.New("invalid outcome")
	// ErrCorpusUnavailable signals an unreachable corpus store.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrOracleUnavailable signals a text generation provider failure.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrMalformedReply signals an oracle reply without a usable JSON object.
	ErrMalformedReply = errors.New("malformed oracle reply")
	// ErrOracleQuotaExceeded signals an exhausted oracle token budget.
	ErrOracleQuotaExceeded = errors.New("oracle token quota exceeded")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// DuplicateOptionError wraps ErrDuplicateOption with the offending id.
type DuplicateOptionError struct {
	ID string
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateOption.Error(), e.ID)
}

func (e *DuplicateOptionError) Unwrap() error { return ErrDuplicateOption }

// NewDuplicateOption creates a duplicate option error.
func NewDuplicateOption(id string) error {
	return &DuplicateOptionError{ID: id}
}
