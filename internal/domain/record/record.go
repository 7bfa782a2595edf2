// Package record models archived decisions the engine matches new requests
// against. The corpus is read-only during analysis; records are written by
// an external collaborator once an outcome is known.
package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
)

// Outcome is the recorded result of a past decision.
type Outcome string

// Outcome constants.
const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
	// OutcomePending marks a decision whose result is not yet known.
	OutcomePending Outcome = "pending"
)

// IsValid checks if the outcome is one of the supported values.
func (o Outcome) IsValid() bool {
	return o == OutcomeSuccess || o == OutcomePartial || o == OutcomeFailed || o == OutcomePending
}

// Record is one archived decision (immutable value object).
type Record struct {
	id           string
	fp           fingerprint.Fingerprint
	summary      string
	chosenOption string
	outcome      Outcome
	lessons      []string
	decidedAt    time.Time
}

// New validates and creates a Record.
// An empty outcome defaults to pending; a record without a fingerprint hash
// is unusable for matching and is rejected.
func New(
	id string, fp fingerprint.Fingerprint,
	summary, chosenOption string,
	outcome Outcome, lessons []string, decidedAt time.Time,
) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("record id is required")
	}
	if fp.Hash() == "" {
		return Record{}, fmt.Errorf("record fingerprint is required")
	}
	if strings.TrimSpace(summary) == "" {
		return Record{}, fmt.Errorf("record summary is required")
	}
	if chosenOption == "" {
		return Record{}, fmt.Errorf("chosen option is required")
	}
	if outcome == "" {
		outcome = OutcomePending
	}
	if !outcome.IsValid() {
		return Record{}, fmt.Errorf("%w: %q", domain.ErrInvalidOutcome, outcome)
	}
	if decidedAt.IsZero() {
		decidedAt = time.Now().UTC()
	}

	ls := make([]string, len(lessons))
	copy(ls, lessons)

	return Record{
		id:           id,
		fp:           fp,
		summary:      summary,
		chosenOption: chosenOption,
		outcome:      outcome,
		lessons:      ls,
		decidedAt:    decidedAt,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	id string, fp fingerprint.Fingerprint,
	summary, chosenOption string,
	outcome Outcome, lessons []string, decidedAt time.Time,
) Record {
	return Record{
		id: id, fp: fp, summary: summary, chosenOption: chosenOption,
		outcome: outcome, lessons: lessons, decidedAt: decidedAt,
	}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// Fingerprint returns the stored decision fingerprint.
func (r *Record) Fingerprint() fingerprint.Fingerprint { return r.fp }

// Summary returns the archived decision summary.
func (r *Record) Summary() string { return r.summary }

// ChosenOption returns the option that was ultimately picked.
func (r *Record) ChosenOption() string { return r.chosenOption }

// Outcome returns how the decision played out.
func (r *Record) Outcome() Outcome { return r.outcome }

// Lessons returns the lessons learned, if any were recorded.
func (r *Record) Lessons() []string { return r.lessons }

// DecidedAt returns when the decision was made.
func (r *Record) DecidedAt() time.Time { return r.decidedAt }

// Match pairs a corpus record with its similarity to the current request.
type Match struct {
	record Record
	score  int
}

// NewMatch creates a match with a score in [0,100].
func NewMatch(r Record, score int) Match {
	return Match{record: r, score: score}
}

// Record returns the matched corpus record.
func (m *Match) Record() Record { return m.record }

// Score returns the similarity score in [0,100].
func (m *Match) Score() int { return m.score }
