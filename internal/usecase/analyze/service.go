// Package analyze sequences the analysis pipeline: fingerprint, similarity
// search, quick scan, and, when the quick scan cannot settle the decision,
// framework generation and the deep dive. Each phase is fault-isolated; for
// any valid request the orchestrator returns a structurally complete result.
package analyze

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/metrics"
)

// BackendFallback is the backend label when no oracle call succeeded.
const BackendFallback = "fallback"

// Fixed wording of the terminal degradation. Tests and callers key off the
// confidence and the first-option choice, not these strings.
const (
	fallbackRationale = "Automated analysis was unavailable. The first listed option is returned as a placeholder recommendation."
	fallbackCaveat    = "automated analysis failed; this recommendation was not scored against your options"
	fallbackNextStep  = "retry the analysis once the generation service is reachable"
)

// Service orchestrates the analysis pipeline.
type Service struct {
	similar      SimilarFinder
	scanner      Scanner
	builder      FrameworkBuilder
	deep         DeepAnalyzer
	similarLimit int
	backend      string
	logger       *zap.Logger
}

// New creates the orchestrator. backend names the generation backend for
// result metadata, e.g. "openai/gpt-4o-mini".
func New(
	similar SimilarFinder,
	scanner Scanner,
	builder FrameworkBuilder,
	deep DeepAnalyzer,
	similarLimit int,
	backend string,
	logger *zap.Logger,
) *Service {
	return &Service{
		similar:      similar,
		scanner:      scanner,
		builder:      builder,
		deep:         deep,
		similarLimit: similarLimit,
		backend:      backend,
		logger:       logger,
	}
}

// Analyze runs the pipeline for one request. The only errors it returns are
// input-validation errors surfaced before any phase runs; everything after
// that degrades into the result itself.
func (s *Service) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	dc := req.Decision()
	if err := validateContext(dc); err != nil {
		return analysis.Result{}, err
	}

	// The usage carrier is usually attached by the transport; attach one here
	// so the SDK path and tests count oracle calls the same way.
	usage := domain.UsageFromContext(ctx)
	if usage == nil {
		ctx, usage = domain.NewContextWithUsage(ctx)
	}

	run := &pipelineRun{
		service: s,
		ctx:     ctx,
		dc:      dc,
		flags:   req.Flags(),
		result: analysis.Result{
			Meta: analysis.Meta{
				RequestID: uuid.NewString(),
				StartedAt: time.Now().UTC(),
			},
		},
	}

	run.fingerprint()
	run.findSimilar()
	if run.quickScan() {
		run.finishQuick()
	} else {
		run.finishFull()
	}

	run.result.Insights = deriveInsights(run.result.Matches)
	run.result.Meta.Backend = s.backend
	if usage.Calls == 0 {
		run.result.Meta.Backend = BackendFallback
	}
	run.result.Meta.Elapsed = time.Since(run.result.Meta.StartedAt)

	metrics.AnalysisTotal.WithLabelValues(string(run.result.Depth), run.status).Inc()
	s.logger.Info("Analysis complete",
		zap.String("request_id", run.result.Meta.RequestID),
		zap.String("depth", string(run.result.Depth)),
		zap.String("status", run.status),
		zap.Int("matches", len(run.result.Matches)),
		zap.Int("oracle_calls", usage.Calls),
		zap.Duration("elapsed", run.result.Meta.Elapsed))

	return run.result, nil
}

// validateContext guards against zero-value contexts that bypassed
// decision.New. These two are the only user-visible analysis errors.
func validateContext(dc decision.Context) error {
	if dc.Summary() == "" {
		return domain.ErrMissingSummary
	}
	if len(dc.Options()) < 2 {
		return domain.ErrTooFewOptions
	}
	return nil
}

// pipelineRun carries one request through the phases.
type pipelineRun struct {
	service *Service
	ctx     context.Context
	dc      decision.Context
	flags   analysis.Flags
	result  analysis.Result
	status  string
}

func (r *pipelineRun) phaseDone(p analysis.Phase, started time.Time) {
	r.result.Meta.Phases = append(r.result.Meta.Phases, p)
	metrics.AnalysisPhaseDuration.WithLabelValues(string(p)).Observe(time.Since(started).Seconds())
}

func (r *pipelineRun) fingerprint() {
	if r.flags.SkipFingerprint {
		return
	}
	started := time.Now()
	fp := fingerprint.Generate(r.dc)
	r.result.Fingerprint = &fp
	r.phaseDone(analysis.PhaseFingerprinting, started)
}

func (r *pipelineRun) findSimilar() {
	// No fingerprint means nothing to match against.
	if r.flags.SkipSimilar || r.result.Fingerprint == nil {
		return
	}
	started := time.Now()
	r.result.Matches = r.service.similar.FindSimilar(r.ctx, *r.result.Fingerprint, r.service.similarLimit)
	r.phaseDone(analysis.PhaseSimilarity, started)
}

// quickScan runs the classifier and reports whether its verdict terminates
// the pipeline.
func (r *pipelineRun) quickScan() bool {
	if r.flags.ForceDeep {
		return false
	}
	started := time.Now()
	scan := r.service.scanner.Scan(r.ctx, r.dc)
	r.result.QuickScan = &scan
	r.phaseDone(analysis.PhaseQuickScan, started)

	return scan.Dominant != nil && !scan.NeedsDeepAnalysis
}

// finishQuick builds the short-circuit terminal from the dominant option.
func (r *pipelineRun) finishQuick() {
	d := r.result.QuickScan.Dominant
	r.result.Depth = analysis.DepthQuick
	r.result.Recommendation = analysis.Recommendation{
		OptionID:   d.OptionID,
		OptionName: d.OptionName,
		Confidence: d.Confidence,
		Rationale:  d.Rationale,
		KeyFactors: r.result.QuickScan.Signals,
	}
	r.status = "quick"
}

// finishFull runs framework generation and the deep dive, degrading to the
// terminal fallback when the deep dive fails.
func (r *pipelineRun) finishFull() {
	r.result.Depth = r.fullDepth()

	var fp fingerprint.Fingerprint
	if r.result.Fingerprint != nil {
		fp = *r.result.Fingerprint
	}

	started := time.Now()
	fw := r.service.builder.Build(r.ctx, r.dc, fp)
	r.result.Framework = &fw
	r.phaseDone(analysis.PhaseFramework, started)

	started = time.Now()
	rec, evals, err := r.service.deep.Analyze(r.ctx, r.dc, fw, r.result.Matches)
	if err != nil {
		r.service.logger.Warn("Deep analysis failed, returning fallback recommendation",
			zap.String("request_id", r.result.Meta.RequestID),
			zap.Error(err))
		metrics.AnalysisFallbacksTotal.WithLabelValues(string(analysis.PhaseDeepAnalysis)).Inc()
		r.result.Recommendation = fallbackRecommendation(r.dc)
		r.result.Evaluations = nil
		r.status = "fallback"
		return
	}
	r.phaseDone(analysis.PhaseDeepAnalysis, started)

	r.result.Recommendation = rec
	r.result.Evaluations = evals
	r.status = "full"
}

// fullDepth resolves the depth recorded for a full run. The classifier's
// recommendation is honored, except that "quick" cannot describe a run that
// went past the quick scan.
func (r *pipelineRun) fullDepth() analysis.Depth {
	if r.flags.ForceDeep {
		return analysis.DepthDeep
	}
	scan := r.result.QuickScan
	if scan == nil {
		return analysis.DepthStandard
	}
	if scan.RecommendedDepth == analysis.DepthQuick || !scan.RecommendedDepth.IsValid() {
		return analysis.DepthStandard
	}
	return scan.RecommendedDepth
}

// fallbackRecommendation is the terminal degradation: the first listed
// option at fixed low confidence, explicitly caveated.
func fallbackRecommendation(dc decision.Context) analysis.Recommendation {
	first := dc.Options()[0]
	return analysis.Recommendation{
		OptionID:   first.ID(),
		OptionName: first.Name(),
		Confidence: analysis.FallbackConfidence,
		Rationale:  fallbackRationale,
		NextSteps:  []string{fallbackNextStep},
		Caveats:    []string{fallbackCaveat},
	}
}
