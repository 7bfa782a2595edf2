package arbiter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/db"
	dbRedis "github.com/arbiterhq/arbiter/internal/db/redis"
	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/record"
	domusage "github.com/arbiterhq/arbiter/internal/domain/usage"
	budgetrepo "github.com/arbiterhq/arbiter/internal/repository/budget"
	corpusrepo "github.com/arbiterhq/arbiter/internal/repository/corpus"
	openaiOracle "github.com/arbiterhq/arbiter/internal/transport/openai"
	analyzeuc "github.com/arbiterhq/arbiter/internal/usecase/analyze"
	corpusuc "github.com/arbiterhq/arbiter/internal/usecase/corpus"
	deepdiveuc "github.com/arbiterhq/arbiter/internal/usecase/deepdive"
	frameworkuc "github.com/arbiterhq/arbiter/internal/usecase/framework"
	healthuc "github.com/arbiterhq/arbiter/internal/usecase/health"
	oracleuc "github.com/arbiterhq/arbiter/internal/usecase/oracle"
	quickscanuc "github.com/arbiterhq/arbiter/internal/usecase/quickscan"
	similarityuc "github.com/arbiterhq/arbiter/internal/usecase/similarity"
	usageuc "github.com/arbiterhq/arbiter/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultSimilarLimit     = 5
)

// Internal interfaces for substitution in tests.
type analyzeUseCase interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error)
}

type corpusUseCase interface {
	Add(ctx context.Context, dc decision.Context, chosenOption string, outcome record.Outcome, lessons []string) (record.Record, error)
	UpdateOutcome(ctx context.Context, id string, outcome record.Outcome, lessons []string) (record.Record, error)
	Get(ctx context.Context, id string) (record.Record, error)
	List(ctx context.Context) ([]record.Record, error)
}

type usageUseCase interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// corpusStore is what the client needs from a corpus driver.
type corpusStore interface {
	Save(ctx context.Context, rec record.Record) error
	Get(ctx context.Context, id string) (record.Record, error)
	List(ctx context.Context) ([]record.Record, error)
	Ping(ctx context.Context) error
}

// Client is the arbiter SDK entry point.
type Client struct {
	analyzeSvc analyzeUseCase
	corpusSvc  corpusUseCase
	usageSvc   usageUseCase
	healthSvc  healthUseCase

	corpus  corpusStore
	closeFn func()
	obs     *observer
}

// New creates an arbiter Client. With no options it runs entirely in
// memory with no generation backend; analysis then returns deterministic
// fallback results.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		corpusDriver: "memory",
		similarLimit: defaultSimilarLimit,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	repo, kv, closeFn, err := openCorpus(cfg)
	if err != nil {
		return nil, err
	}

	return wireClient(cfg, repo, kv, closeFn, obs), nil
}

func openCorpus(cfg *clientConfig) (corpusStore, db.Store, func(), error) {
	switch cfg.corpusDriver {
	case "memory":
		return corpusrepo.NewMemory(), nil, nil, nil
	case "file":
		repo, err := corpusrepo.NewFile(cfg.corpusPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("arbiter: open file corpus: %w", err)
		}
		return repo, nil, nil, nil
	case "sqlite":
		repo, err := corpusrepo.NewSQLite(cfg.corpusPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("arbiter: open sqlite corpus: %w", err)
		}
		return repo, nil, func() { _ = repo.Close() }, nil
	case "redis":
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPass,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("arbiter: create redis store: %w", err)
		}
		if err := kv.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			kv.Close()
			return nil, nil, nil, fmt.Errorf("arbiter: redis not ready: %w", err)
		}
		return corpusrepo.NewRedis(kv), kv, kv.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("arbiter: unknown corpus driver %q", cfg.corpusDriver)
	}
}

func wireClient(cfg *clientConfig, repo corpusStore, kv db.Store, closeFn func(), obs *observer) *Client {
	// Internal services log through zap; the SDK stays quiet and reports
	// degradation through Analysis.Meta.Backend instead.
	zlog := zap.NewNop()

	generator, oracleCheck, provider, backend, budget := buildOracle(cfg, kv, zlog)

	analyzeSvc := analyzeuc.New(
		similarityuc.New(repo, zlog),
		quickscanuc.New(generator, zlog),
		frameworkuc.New(generator, zlog),
		deepdiveuc.New(generator, zlog),
		cfg.similarLimit, backend, zlog,
	)

	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}

	return &Client{
		analyzeSvc: analyzeSvc,
		corpusSvc:  corpusuc.New(repo),
		usageSvc:   usageuc.New(budgetReader, provider),
		healthSvc:  healthuc.New(repo, oracleCheck),
		corpus:     repo,
		closeFn:    closeFn,
		obs:        obs,
	}
}

// buildOracle assembles the generation chain and reports the provider and
// backend labels. Without a configured backend the chain is a stub whose
// calls fail fast, which the pipeline absorbs as fallbacks.
func buildOracle(
	cfg *clientConfig, kv db.Store, zlog *zap.Logger,
) (domain.TextGenerator, healthuc.OracleChecker, string, string, *oracleuc.BudgetTracker) {
	var (
		base        domain.TextGenerator
		oracleCheck healthuc.OracleChecker
		provider    string
		backend     string
	)

	switch {
	case cfg.generator != nil:
		base = &generatorAdapter{inner: cfg.generator}
		provider = "custom"
		backend = "custom"
		if hc, ok := cfg.generator.(interface{ HealthCheck(context.Context) error }); ok {
			oracleCheck = hc
		}
	case cfg.openaiKey != "" || cfg.openaiModel != "":
		model := cfg.openaiModel
		oai := openaiOracle.NewGenerator(&openaiOracle.Config{
			APIKey:   cfg.openaiKey,
			BaseURL:  cfg.openaiBaseURL,
			Model:    model,
			Provider: "openai",
			Logger:   zlog,
		})
		base = oai
		oracleCheck = oai
		provider = "openai"
		backend = "openai/" + model
	default:
		base = noopGenerator{}
		provider = "none"
		backend = "none"
	}

	var (
		budget        *oracleuc.BudgetTracker
		budgetChecker oracleuc.BudgetChecker
	)
	if cfg.dailyTokenLimit > 0 || cfg.monthlyTokenLimit > 0 {
		action := oracleuc.BudgetActionWarn
		if cfg.budgetReject {
			action = oracleuc.BudgetActionReject
		}
		budget = oracleuc.NewBudgetTracker(
			provider, cfg.dailyTokenLimit, cfg.monthlyTokenLimit, action, zlog,
		)
		if kv != nil {
			budget.WithStore(context.Background(), budgetrepo.New(kv, 48*time.Hour, 62*24*time.Hour))
		}
		budgetChecker = budget
	}

	gen := oracleuc.NewInstrumentedGenerator(base, provider, cfg.openaiModel, budgetChecker, zlog)
	return gen, oracleCheck, provider, backend, budget
}

// Close releases corpus resources.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Ping checks corpus store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.corpus.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// generatorAdapter wraps the public Generator to satisfy the internal
// generation contract.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, req domain.PromptRequest) (domain.GenerateResult, error) {
	r, err := a.inner.Generate(ctx, GenerateRequest{
		Kind:        req.Kind,
		System:      req.System,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return domain.GenerateResult{}, fmt.Errorf("generate: %w", err)
	}
	return domain.GenerateResult{
		Text:             r.Text,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
	}, nil
}

// noopGenerator fails every call so the pipeline degrades to its
// deterministic fallbacks. Used when no backend is configured.
type noopGenerator struct{}

func (noopGenerator) Generate(_ context.Context, _ domain.PromptRequest) (domain.GenerateResult, error) {
	return domain.GenerateResult{}, domain.ErrOracleUnavailable
}
