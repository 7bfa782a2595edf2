package analyze

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	domfw "github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/domain/record"
	"github.com/arbiterhq/arbiter/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterAnalysisMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockSimilar struct {
	matches   []record.Match
	calls     int
	lastLimit int
}

func (m *mockSimilar) FindSimilar(_ context.Context, _ fingerprint.Fingerprint, limit int) []record.Match {
	m.calls++
	m.lastLimit = limit
	return m.matches
}

type mockScanner struct {
	scan   analysis.QuickScan
	tokens int
	calls  int
}

func (m *mockScanner) Scan(ctx context.Context, _ decision.Context) analysis.QuickScan {
	m.calls++
	if m.tokens > 0 {
		domain.UsageFromContext(ctx).AddTokens(m.tokens)
	}
	return m.scan
}

type mockBuilder struct {
	fw    domfw.Framework
	calls int
}

func (m *mockBuilder) Build(_ context.Context, _ decision.Context, _ fingerprint.Fingerprint) domfw.Framework {
	m.calls++
	return m.fw
}

type mockDeep struct {
	rec   analysis.Recommendation
	evals []analysis.OptionEvaluation
	err   error
	calls int
}

func (m *mockDeep) Analyze(
	_ context.Context, _ decision.Context, _ domfw.Framework, _ []record.Match,
) (analysis.Recommendation, []analysis.OptionEvaluation, error) {
	m.calls++
	return m.rec, m.evals, m.err
}

// --- Fixtures ---

type testPipeline struct {
	similar *mockSimilar
	scanner *mockScanner
	builder *mockBuilder
	deep    *mockDeep
	svc     *Service
}

// newTestPipeline wires the orchestrator with a needs-deep scanner, a
// four-dimension framework, and a deep dive recommending the second option.
func newTestPipeline(t *testing.T) *testPipeline {
	t.Helper()
	p := &testPipeline{
		similar: &mockSimilar{},
		scanner: &mockScanner{scan: analysis.QuickScan{
			NeedsDeepAnalysis: true,
			RecommendedDepth:  analysis.DepthStandard,
			Complexity:        analysis.ComplexityModerate,
		}},
		builder: &mockBuilder{fw: makeFramework(t)},
		deep: &mockDeep{
			rec: analysis.Recommendation{
				OptionID:   "graphql",
				OptionName: "GraphQL",
				Confidence: 75,
				Rationale:  "clients need flexible queries",
			},
			evals: []analysis.OptionEvaluation{
				{OptionID: "rest", OptionName: "REST", WeightedTotal: 68},
				{OptionID: "graphql", OptionName: "GraphQL", WeightedTotal: 74},
			},
		},
	}
	p.svc = New(p.similar, p.scanner, p.builder, p.deep, 5, "openai/test-model", zap.NewNop())
	return p
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

func makeFramework(t *testing.T) domfw.Framework {
	t.Helper()
	var dims []domfw.Dimension
	for _, name := range []string{"fit", "cost", "speed", "risk"} {
		d, err := domfw.NewDimension(name, 5, "", "", "")
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

func makeMatch(t *testing.T, id string, score int, chosen string, outcome record.Outcome, lessons []string) record.Match {
	t.Helper()
	fp := fingerprint.Reconstruct(
		decision.DomainArchitecture, scale.Medium, 1, 1, 2,
		[]string{"rest", "graphql"}, []fingerprint.Type{fingerprint.Flexibility},
		"feedbeef0123", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	rec, err := record.New(id, fp, "archived decision "+id, chosen, outcome, lessons,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	return record.NewMatch(rec, score)
}

func dominantScan() analysis.QuickScan {
	return analysis.QuickScan{
		Dominant: &analysis.Dominant{
			OptionID:   "rest",
			OptionName: "REST",
			Confidence: 92,
			Margin:     25,
			Rationale:  "the team already runs three REST services",
		},
		NeedsDeepAnalysis: false,
		RecommendedDepth:  analysis.DepthQuick,
		Signals:           []string{"small surface", "no client diversity"},
		Complexity:        analysis.ComplexitySimple,
	}
}
