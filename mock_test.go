package arbiter

import (
	"context"

	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/record"
	domusage "github.com/arbiterhq/arbiter/internal/domain/usage"
	healthuc "github.com/arbiterhq/arbiter/internal/usecase/health"
)

// --- analyzeUseCase mock ---

type mockAnalyzeUC struct {
	analyzeFn func(ctx context.Context, req analysis.Request) (analysis.Result, error)
}

func (m *mockAnalyzeUC) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	return m.analyzeFn(ctx, req)
}

// --- corpusUseCase mock ---

type mockCorpusUC struct {
	addFn    func(ctx context.Context, dc decision.Context, chosenOption string, outcome record.Outcome, lessons []string) (record.Record, error)
	updateFn func(ctx context.Context, id string, outcome record.Outcome, lessons []string) (record.Record, error)
	getFn    func(ctx context.Context, id string) (record.Record, error)
	listFn   func(ctx context.Context) ([]record.Record, error)
}

func (m *mockCorpusUC) Add(
	ctx context.Context, dc decision.Context,
	chosenOption string, outcome record.Outcome, lessons []string,
) (record.Record, error) {
	return m.addFn(ctx, dc, chosenOption, outcome, lessons)
}

func (m *mockCorpusUC) UpdateOutcome(
	ctx context.Context, id string, outcome record.Outcome, lessons []string,
) (record.Record, error) {
	return m.updateFn(ctx, id, outcome, lessons)
}

func (m *mockCorpusUC) Get(ctx context.Context, id string) (record.Record, error) {
	return m.getFn(ctx, id)
}

func (m *mockCorpusUC) List(ctx context.Context) ([]record.Record, error) {
	return m.listFn(ctx)
}

// --- usageUseCase mock ---

type mockUsageUC struct {
	reportFn func(ctx context.Context, period domusage.Period) domusage.Report
}

func (m *mockUsageUC) GetReport(ctx context.Context, period domusage.Period) domusage.Report {
	return m.reportFn(ctx, period)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- helpers ---

func testClient(
	analyzeSvc analyzeUseCase,
	corpusSvc corpusUseCase,
	usageSvc usageUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		analyzeSvc: analyzeSvc,
		corpusSvc:  corpusSvc,
		usageSvc:   usageSvc,
		healthSvc:  healthSvc,
	}
}

// testDecision is a two-option decision that passes validation.
func testDecision() Decision {
	return Decision{
		Summary: "Choose a message broker for order events",
		Domain:  "software_architecture",
		Options: []DecisionOption{
			{
				ID:   "kafka",
				Name: "Kafka",
				Pros: []string{"battle tested", "replayable log"},
				Cons: []string{"operational weight"},
			},
			{
				ID:   "rabbitmq",
				Name: "RabbitMQ",
				Pros: []string{"simple to run"},
				Cons: []string{"no log replay"},
			},
		},
		User: UserContext{
			Persona:      "backend team lead",
			Stakeholders: []string{"platform", "payments"},
		},
		Technical: TechnicalContext{
			Scale:       "medium",
			Constraints: []string{"team has no Kafka experience"},
			Stack:       []string{"go", "postgres"},
		},
		Business: BusinessContext{
			Goals: []string{"ship order tracking this quarter"},
		},
	}
}
