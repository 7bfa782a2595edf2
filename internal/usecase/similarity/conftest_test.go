package similarity

import (
	"context"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

type mockRepo struct {
	listFn func(ctx context.Context) ([]record.Record, error)
}

func (m *mockRepo) List(ctx context.Context) ([]record.Record, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// fpSpec keeps fingerprint construction in tests down to the fields the
// rubric actually reads.
type fpSpec struct {
	domain    decision.Domain
	scale     scale.Scale
	options   int
	keywords  []string
	tradeOffs []fingerprint.Type
}

func makeFingerprint(t *testing.T, spec fpSpec) fingerprint.Fingerprint {
	t.Helper()
	if spec.domain == "" {
		spec.domain = decision.DomainArchitecture
	}
	if spec.scale == "" {
		spec.scale = scale.Medium
	}
	if spec.options == 0 {
		spec.options = 2
	}
	if spec.tradeOffs == nil {
		spec.tradeOffs = []fingerprint.Type{fingerprint.General}
	}
	return fingerprint.Reconstruct(
		spec.domain, spec.scale, 1, 1, spec.options,
		spec.keywords, spec.tradeOffs,
		"feedbeef0123", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	)
}

func makeRecord(t *testing.T, id string, fp fingerprint.Fingerprint, decidedAt time.Time) record.Record {
	t.Helper()
	rec, err := record.New(id, fp, "archived decision "+id, "opt-a", record.OutcomeSuccess, nil, decidedAt)
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	return rec
}
