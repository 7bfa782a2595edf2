package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

func promptContext(t *testing.T) decision.Context {
	t.Helper()
	rest, err := decision.NewOption("rest", "REST API", "plain HTTP endpoints",
		[]string{"well understood"}, []string{"over-fetching"}, "")
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	gql, err := decision.NewOption("graphql", "GraphQL API", "typed query layer", nil, nil, "needs gateway work")
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	dc, err := decision.New("Choose the public API style", decision.DomainArchitecture,
		[]decision.Option{rest, gql},
		decision.UserContext{Persona: "tech lead", Stakeholders: []string{"mobile", "partners"}},
		decision.TechnicalContext{Scale: scale.Large, Constraints: []string{"keep existing auth"}},
		decision.BusinessContext{Goals: []string{"partner onboarding"}},
	)
	if err != nil {
		t.Fatalf("decision.New: %v", err)
	}
	return dc
}

func TestQuickScan_Render(t *testing.T) {
	p := QuickScan{Decision: promptContext(t)}
	out := p.Render()

	for _, want := range []string{
		"Choose the public API style",
		"id=rest", "id=graphql",
		"over-fetching",
		"needs gateway work",
		"keep existing auth",
		"dominant_option",
		"needs_deep_analysis",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("quick scan prompt missing %q", want)
		}
	}
	if p.System() == "" || !strings.Contains(p.System(), "JSON") {
		t.Error("system instruction should demand JSON output")
	}
}

func TestFramework_Render(t *testing.T) {
	p := Framework{Decision: promptContext(t), TradeOffs: []string{"scalability", "usability"}}
	out := p.Render()

	for _, want := range []string{"scalability, usability", "dimensions", "weight", "rubric"} {
		if !strings.Contains(out, want) {
			t.Errorf("framework prompt missing %q", want)
		}
	}
	if !strings.Contains(out, "between 4 and 6") {
		t.Error("framework prompt should state the dimension bounds")
	}
}

func TestDeepAnalysis_Render(t *testing.T) {
	dims := make([]framework.Dimension, 0, 4)
	for _, name := range []string{"integration effort", "partner ergonomics", "operational cost", "evolution headroom"} {
		d, err := framework.NewDimension(name, 6, "what it measures", "0 poor, 10 excellent", "matters here")
		if err != nil {
			t.Fatalf("NewDimension: %v", err)
		}
		dims = append(dims, d)
	}
	fw, err := framework.New(dims, "tailored to an API decision", "hash12345678", framework.SourceOracle)
	if err != nil {
		t.Fatalf("framework.New: %v", err)
	}

	fp := fingerprint.Reconstruct(decision.DomainArchitecture, scale.Large, 2, 1, 2,
		[]string{"api"}, []fingerprint.Type{fingerprint.Integration}, "aaaabbbbcccc", time.Now())
	rec, err := record.New("r1", fp, "Past API split decision", "REST API", record.OutcomeSuccess, nil, time.Now())
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}

	p := DeepAnalysis{
		Decision:  promptContext(t),
		Framework: fw,
		Matches:   []record.Match{record.NewMatch(rec, 81)},
	}
	out := p.Render()

	for _, want := range []string{
		"partner ergonomics",
		"weight 6",
		"Similar past decisions",
		"[similarity 81]",
		"recommendation",
		"evaluations",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("deep analysis prompt missing %q", want)
		}
	}
}
