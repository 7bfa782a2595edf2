package corpus

import (
	"context"
	"testing"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// --- Mock ---

type mockRepo struct {
	saveFn func(ctx context.Context, rec record.Record) error
	getFn  func(ctx context.Context, id string) (record.Record, error)
	listFn func(ctx context.Context) ([]record.Record, error)

	saved []record.Record
}

func (m *mockRepo) Save(ctx context.Context, rec record.Record) error {
	m.saved = append(m.saved, rec)
	if m.saveFn != nil {
		return m.saveFn(ctx, rec)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (record.Record, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return record.Record{}, nil
}

func (m *mockRepo) List(ctx context.Context) ([]record.Record, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- Fixtures ---

func makeDecision(t *testing.T) decision.Context {
	t.Helper()
	rest, err := decision.NewOption("rest", "REST", "plain resource endpoints", nil, nil, "")
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	graphql, err := decision.NewOption("graphql", "GraphQL", "single typed graph endpoint", nil, nil, "")
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	dc, err := decision.New(
		"REST vs GraphQL for the new public API",
		decision.DomainArchitecture,
		[]decision.Option{rest, graphql},
		decision.UserContext{},
		decision.TechnicalContext{},
		decision.BusinessContext{},
	)
	if err != nil {
		t.Fatalf("decision.New: %v", err)
	}
	return dc
}
