package arbiter

import (
	"context"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	analyzeuc "github.com/arbiterhq/arbiter/internal/usecase/analyze"
)

// AnalyzeOption tunes a single Analyze call.
type AnalyzeOption interface {
	applyAnalyze(*analyzeConfig)
}

// analyzeOptionFunc adapts a function to the AnalyzeOption interface.
type analyzeOptionFunc func(*analyzeConfig)

func (f analyzeOptionFunc) applyAnalyze(c *analyzeConfig) { f(c) }

type analyzeConfig struct {
	skipFingerprint bool
	skipSimilar     bool
	forceDeep       bool
}

// SkipFingerprint disables fingerprinting. Similarity search needs the
// fingerprint, so skipping it also skips the corpus lookup.
func SkipFingerprint() AnalyzeOption {
	return analyzeOptionFunc(func(c *analyzeConfig) {
		c.skipFingerprint = true
	})
}

// SkipSimilar disables the lookup of similar past decisions.
func SkipSimilar() AnalyzeOption {
	return analyzeOptionFunc(func(c *analyzeConfig) {
		c.skipSimilar = true
	})
}

// ForceDeep bypasses the quick scan and always runs full scoring.
func ForceDeep() AnalyzeOption {
	return analyzeOptionFunc(func(c *analyzeConfig) {
		c.forceDeep = true
	})
}

// Analyze runs the analysis pipeline for one decision. It returns an error
// only for invalid input; backend failures degrade into the result, with
// Meta.Backend set to BackendFallback.
func (c *Client) Analyze(ctx context.Context, d Decision, opts ...AnalyzeOption) (Analysis, error) {
	start := time.Now()

	var acfg analyzeConfig
	for _, o := range opts {
		o.applyAnalyze(&acfg)
	}

	dc, err := decisionToDomain(d)
	if err != nil {
		c.obs.observe("analyze", start, err)
		return Analysis{}, err
	}

	ctx, usage := domain.NewContextWithUsage(ctx)
	res, err := c.analyzeSvc.Analyze(ctx, analysis.NewRequest(dc, analysis.Flags{
		SkipFingerprint: acfg.skipFingerprint,
		SkipSimilar:     acfg.skipSimilar,
		ForceDeep:       acfg.forceDeep,
	}))
	c.obs.observe("analyze", start, err)
	if err != nil {
		return Analysis{}, err
	}

	return analysisFromDomain(&res, usage.Calls, usage.TotalTokens), nil
}

// EstimateAnalysisTime predicts how long a full analysis will take, from
// the option count and constraint presence.
func EstimateAnalysisTime(optionCount int, hasConstraints bool) time.Duration {
	return analyzeuc.Estimate(optionCount, hasConstraints)
}
