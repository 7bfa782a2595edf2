package arbiter

import "github.com/arbiterhq/arbiter/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMissingSummary      = domain.ErrMissingSummary
	ErrTooFewOptions       = domain.ErrTooFewOptions
	ErrDuplicateOption     = domain.ErrDuplicateOption
	ErrOptionNotFound      = domain.ErrOptionNotFound
	ErrRecordNotFound      = domain.ErrRecordNotFound
	ErrInvalidOutcome      = domain.ErrInvalidOutcome
	ErrCorpusUnavailable   = domain.ErrCorpusUnavailable
	ErrOracleUnavailable   = domain.ErrOracleUnavailable
	ErrOracleQuotaExceeded = domain.ErrOracleQuotaExceeded
	ErrRateLimited         = domain.ErrRateLimited
)
