// Package corpus manages the persisted decision records that ground
// similarity search. Records are written here, by the collaborator that
// knows real-world outcomes, and only read during analysis.
package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// Service handles decision record management.
type Service struct {
	repo Repository
}

// New creates a corpus service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add records a decided decision. The fingerprint is regenerated from the
// context so stored records always match what analysis would compute, and
// chosenOption may name the option by id or display name; the stored value
// is the display name.
func (s *Service) Add(
	ctx context.Context, dc decision.Context,
	chosenOption string, outcome record.Outcome, lessons []string,
) (record.Record, error) {
	name, err := resolveOptionName(dc, chosenOption)
	if err != nil {
		return record.Record{}, err
	}

	fp := fingerprint.Generate(dc)
	rec, err := record.New(
		uuid.NewString(), fp, dc.Summary(), name, outcome, lessons, time.Now().UTC(),
	)
	if err != nil {
		return record.Record{}, fmt.Errorf("build record: %w", err)
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return record.Record{}, fmt.Errorf("save record: %w", err)
	}
	return rec, nil
}

// UpdateOutcome rewrites the outcome and, when given, the lessons of an
// existing record. The fingerprint and decision data stay untouched.
func (s *Service) UpdateOutcome(
	ctx context.Context, id string, outcome record.Outcome, lessons []string,
) (record.Record, error) {
	if !outcome.IsValid() {
		return record.Record{}, fmt.Errorf("%w: %q", domain.ErrInvalidOutcome, outcome)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}

	if lessons == nil {
		lessons = rec.Lessons()
	}
	updated := record.Reconstruct(
		rec.ID(), rec.Fingerprint(), rec.Summary(), rec.ChosenOption(),
		outcome, lessons, rec.DecidedAt(),
	)

	if err := s.repo.Save(ctx, updated); err != nil {
		return record.Record{}, fmt.Errorf("save record: %w", err)
	}
	return updated, nil
}

// Get retrieves one record by id.
func (s *Service) Get(ctx context.Context, id string) (record.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns all records ordered by decision time.
func (s *Service) List(ctx context.Context) ([]record.Record, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func resolveOptionName(dc decision.Context, chosen string) (string, error) {
	if opt, ok := dc.Option(chosen); ok {
		return opt.Name(), nil
	}
	if opt, ok := dc.OptionByName(chosen); ok {
		return opt.Name(), nil
	}
	return "", fmt.Errorf("chosen option %q: %w", chosen, domain.ErrOptionNotFound)
}
