package corpus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain"
)

func TestMemoryRepo_SaveGetList(t *testing.T) {
	repo := NewMemory()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}

	older := testRecord(t, "older", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := testRecord(t, "newer", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, newer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, older); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "older")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "older" {
		t.Errorf("expected older, got %q", got.ID())
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

	if err := repo.Ping(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
