package deepdive

import (
	"context"
	"testing"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	domfw "github.com/arbiterhq/arbiter/internal/domain/framework"
)

type mockGenerator struct {
	result domain.GenerateResult
	err    error
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context, _ domain.PromptRequest) (domain.GenerateResult, error) {
	m.calls++
	return m.result, m.err
}

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

// makeFramework builds a framework from the named weights, in a fixed
// dimension order so tests can reason about arithmetic.
func makeFramework(t *testing.T, weights map[string]int) domfw.Framework {
	t.Helper()
	dims := make([]domfw.Dimension, 0, len(weights))
	for _, name := range []string{"fit", "cost", "speed", "risk"} {
		w, ok := weights[name]
		if !ok {
			continue
		}
		d, err := domfw.NewDimension(name, w, "", "", "")
		if err != nil {
			t.Fatalf("NewDimension: %v", err)
		}
		dims = append(dims, d)
	}
	fw, err := domfw.New(dims, "test framework", "cafe01234567", domfw.SourceOracle)
	if err != nil {
		t.Fatalf("framework.New: %v", err)
	}
	return fw
}

func fourDims(t *testing.T) domfw.Framework {
	t.Helper()
	return makeFramework(t, map[string]int{"fit": 8, "cost": 2, "speed": 5, "risk": 5})
}
