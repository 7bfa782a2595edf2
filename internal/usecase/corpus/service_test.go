package corpus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

func TestAdd_BuildsRecordFromContext(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)
	dc := makeDecision(t)

	rec, err := svc.Add(context.Background(), dc, "graphql", record.OutcomeSuccess,
		[]string{"schema-first worked well"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if rec.ID() == "" {
		t.Error("expected a generated record id")
	}
	if rec.Summary() != dc.Summary() {
		t.Errorf("expected the decision summary, got %q", rec.Summary())
	}
	if rec.ChosenOption() != "GraphQL" {
		t.Errorf("expected the option display name, got %q", rec.ChosenOption())
	}
	if rec.Outcome() != record.OutcomeSuccess {
		t.Errorf("expected success outcome, got %q", rec.Outcome())
	}

	// The stored fingerprint must match a fresh computation over the context.
	fp := fingerprint.Generate(dc)
	if got := rec.Fingerprint(); got.Hash() != fp.Hash() {
		t.Errorf("expected fingerprint hash %q, got %q", fp.Hash(), got.Hash())
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(repo.saved))
	}
}

func TestAdd_ResolvesChosenOptionByName(t *testing.T) {
	svc := New(&mockRepo{})

	rec, err := svc.Add(context.Background(), makeDecision(t), "REST", "", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if rec.ChosenOption() != "REST" {
		t.Errorf("expected REST, got %q", rec.ChosenOption())
	}
	if rec.Outcome() != record.OutcomePending {
		t.Errorf("expected empty outcome to default to pending, got %q", rec.Outcome())
	}
}

func TestAdd_UnknownChosenOption(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	_, err := svc.Add(context.Background(), makeDecision(t), "grpc", record.OutcomeSuccess, nil)
	if !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Error("expected nothing saved")
	}
}

func TestAdd_SaveError(t *testing.T) {
	repo := &mockRepo{saveFn: func(context.Context, record.Record) error {
		return errors.New("disk full")
	}}
	svc := New(repo)

	_, err := svc.Add(context.Background(), makeDecision(t), "rest", record.OutcomeSuccess, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestUpdateOutcome_RewritesOutcomeOnly(t *testing.T) {
	dc := makeDecision(t)
	existing, err := record.New("dec-1", fingerprint.Generate(dc), dc.Summary(), "REST",
		record.OutcomePending, []string{"kept the surface small"},
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}

	repo := &mockRepo{getFn: func(_ context.Context, id string) (record.Record, error) {
		if id != "dec-1" {
			t.Errorf("expected lookup of dec-1, got %q", id)
		}
		return existing, nil
	}}
	svc := New(repo)

	updated, err := svc.UpdateOutcome(context.Background(), "dec-1", record.OutcomeFailed, nil)
	if err != nil {
		t.Fatalf("UpdateOutcome: %v", err)
	}

	if updated.Outcome() != record.OutcomeFailed {
		t.Errorf("expected failed outcome, got %q", updated.Outcome())
	}
	if len(updated.Lessons()) != 1 || updated.Lessons()[0] != "kept the surface small" {
		t.Errorf("expected lessons preserved, got %v", updated.Lessons())
	}
	if updated.ID() != "dec-1" || !updated.DecidedAt().Equal(existing.DecidedAt()) {
		t.Error("expected identity and decision time preserved")
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(repo.saved))
	}
}

func TestUpdateOutcome_ReplacesLessonsWhenGiven(t *testing.T) {
	dc := makeDecision(t)
	existing, err := record.New("dec-1", fingerprint.Generate(dc), dc.Summary(), "REST",
		record.OutcomePending, []string{"old lesson"}, time.Now().UTC())
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}

	repo := &mockRepo{getFn: func(context.Context, string) (record.Record, error) {
		return existing, nil
	}}
	svc := New(repo)

	updated, err := svc.UpdateOutcome(context.Background(), "dec-1", record.OutcomeSuccess,
		[]string{"pagination was the hard part"})
	if err != nil {
		t.Fatalf("UpdateOutcome: %v", err)
	}
	if len(updated.Lessons()) != 1 || updated.Lessons()[0] != "pagination was the hard part" {
		t.Errorf("expected the new lessons, got %v", updated.Lessons())
	}
}

func TestUpdateOutcome_InvalidOutcome(t *testing.T) {
	svc := New(&mockRepo{})

	_, err := svc.UpdateOutcome(context.Background(), "dec-1", record.Outcome("triumph"), nil)
	if !errors.Is(err, domain.ErrInvalidOutcome) {
		t.Fatalf("expected ErrInvalidOutcome, got %v", err)
	}
}

func TestUpdateOutcome_MissingRecord(t *testing.T) {
	repo := &mockRepo{getFn: func(context.Context, string) (record.Record, error) {
		return record.Record{}, domain.ErrRecordNotFound
	}}
	svc := New(repo)

	_, err := svc.UpdateOutcome(context.Background(), "nope", record.OutcomeSuccess, nil)
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGet_WrapsRepoError(t *testing.T) {
	repo := &mockRepo{getFn: func(context.Context, string) (record.Record, error) {
		return record.Record{}, domain.ErrRecordNotFound
	}}
	svc := New(repo)

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestList_PassesThrough(t *testing.T) {
	dc := makeDecision(t)
	rec, err := record.New("dec-1", fingerprint.Generate(dc), dc.Summary(), "REST",
		record.OutcomeSuccess, nil, time.Now().UTC())
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	repo := &mockRepo{listFn: func(context.Context) ([]record.Record, error) {
		return []record.Record{rec}, nil
	}}
	svc := New(repo)

	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].ID() != "dec-1" {
		t.Errorf("unexpected records: %v", records)
	}
}
