package corpus

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

func newTestSQLite(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepo_SaveGetRoundTrip(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	want := testRecord(t, "rec-1", time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "rec-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != want.ID() {
		t.Errorf("expected id %q, got %q", want.ID(), got.ID())
	}
	gotFP, wantFP := got.Fingerprint(), want.Fingerprint()
	if gotFP.Hash() != wantFP.Hash() {
		t.Errorf("expected hash %q, got %q", wantFP.Hash(), gotFP.Hash())
	}
	if len(gotFP.Keywords()) != 3 {
		t.Errorf("expected 3 keywords, got %v", gotFP.Keywords())
	}
	if len(got.Lessons()) != 1 {
		t.Errorf("expected 1 lesson, got %v", got.Lessons())
	}
	if !got.DecidedAt().Equal(want.DecidedAt()) {
		t.Errorf("expected decided at %v, got %v", want.DecidedAt(), got.DecidedAt())
	}
}

func TestSQLiteRepo_GetNotFound(t *testing.T) {
	repo := newTestSQLite(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSQLiteRepo_SaveUpserts(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	rec := testRecord(t, "rec-1", time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := record.New(
		"rec-1", testFingerprint(t),
		rec.Summary(), rec.ChosenOption(),
		record.OutcomeFailed, []string{"revisit sizing"}, rec.DecidedAt(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Outcome() != record.OutcomeFailed {
		t.Errorf("expected outcome %q, got %q", record.OutcomeFailed, records[0].Outcome())
	}
}

func TestSQLiteRepo_ListOrderedByDecisionTime(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	for _, tc := range []struct {
		id string
		at time.Time
	}{
		{"newer", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"older", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	} {
		if err := repo.Save(ctx, testRecord(t, tc.id, tc.at)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID() != "older" || records[1].ID() != "newer" {
		t.Errorf("expected [older newer], got [%s %s]", records[0].ID(), records[1].ID())
	}
}

func TestSQLiteRepo_ListSkipsUndecodableRows(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	good := testRecord(t, "good", time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Inject a row with broken keyword JSON directly.
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO records (
			id, domain, scale, stakeholder_count, constraint_count, option_count,
			keywords, trade_off_types, fingerprint_hash, fp_created_at,
			summary, chosen_option, outcome, lessons, decided_at
		) VALUES ('broken', 'general', 'medium', 0, 0, 2,
			'{not json', '["general"]', 'ffff00001111', '2025-01-01T00:00:00Z',
			'broken row', 'opt-a', 'pending', '[]', '2025-01-02T00:00:00Z')`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID() != "good" {
		t.Errorf("expected record good, got %q", records[0].ID())
	}
}

func TestSQLiteRepo_Ping(t *testing.T) {
	repo := newTestSQLite(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
