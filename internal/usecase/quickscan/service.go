// Package quickscan implements the cheap first pass of progressive
// disclosure: one oracle call judging whether any option dominates so
// clearly that full analysis would be wasted.
package quickscan

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/metrics"
	"github.com/arbiterhq/arbiter/internal/prompt"
)

// Dominance thresholds. A reported winner below either one is discarded
// and the request proceeds to full analysis.
const (
	MinDominantConfidence = 85
	MinDominantMargin     = 20
)

// fallbackSignal is the note attached when the classifier cannot answer.
const fallbackSignal = "quick scan unavailable, proceeding with full analysis"

// Service runs the single-call dominance classifier.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// New creates a quick scan service.
func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// scanReply is the wire shape the classifier prompt asks for.
type scanReply struct {
	Dominant *struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Confidence int    `json:"confidence"`
		Margin     int    `json:"margin"`
		Rationale  string `json:"rationale"`
	} `json:"dominant_option"`
	NeedsDeepAnalysis bool     `json:"needs_deep_analysis"`
	RecommendedDepth  string   `json:"recommended_depth"`
	Signals           []string `json:"signals"`
	Complexity        string   `json:"complexity"`
}

// Scan classifies the decision with one oracle call. Any failure along the
// way degrades to the deterministic fallback; Scan never returns an error.
func (s *Service) Scan(ctx context.Context, dc decision.Context) analysis.QuickScan {
	p := prompt.QuickScan{Decision: dc}
	res, err := s.gen.Generate(ctx, domain.PromptRequest{
		Kind:   prompt.KindQuickScan,
		System: p.System(),
		Prompt: p.Render(),
	})
	if err != nil {
		s.logger.Warn("Quick scan oracle call failed", zap.Error(err))
		return s.fallback()
	}

	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	span, err := prompt.ExtractObject(res.Text)
	if err != nil {
		s.logger.Warn("Quick scan reply had no JSON object", zap.Error(err))
		return s.fallback()
	}

	var reply scanReply
	if err := json.Unmarshal(span, &reply); err != nil {
		s.logger.Warn("Quick scan reply did not match the expected shape", zap.Error(err))
		return s.fallback()
	}

	return s.fromReply(dc, reply)
}

// fromReply normalizes a parsed reply into the domain result. Out-of-range
// enum values are coerced rather than rejected; only a completely unusable
// reply is worth a fallback.
func (s *Service) fromReply(dc decision.Context, reply scanReply) analysis.QuickScan {
	scan := analysis.QuickScan{
		NeedsDeepAnalysis: reply.NeedsDeepAnalysis,
		RecommendedDepth:  normalizeDepth(reply.RecommendedDepth),
		Signals:           reply.Signals,
		Complexity:        normalizeComplexity(reply.Complexity),
	}

	if reply.Dominant == nil {
		return scan
	}
	d := *reply.Dominant

	if d.Confidence < MinDominantConfidence || d.Margin < MinDominantMargin {
		s.logger.Debug("Reported dominant option below thresholds, ignoring",
			zap.Int("confidence", d.Confidence),
			zap.Int("margin", d.Margin))
		return scan
	}

	opt, ok := dc.Option(d.ID)
	if !ok {
		// The oracle sometimes answers with the display name in the id slot.
		opt, ok = dc.OptionByName(d.Name)
	}
	if !ok {
		s.logger.Warn("Dominant option does not exist in the request, ignoring",
			zap.String("option_id", d.ID),
			zap.String("option_name", d.Name))
		return scan
	}

	if d.Confidence > 100 {
		d.Confidence = 100
	}
	scan.Dominant = &analysis.Dominant{
		OptionID:   opt.ID(),
		OptionName: opt.Name(),
		Confidence: d.Confidence,
		Margin:     d.Margin,
		Rationale:  d.Rationale,
	}
	return scan
}

// fallback is the deterministic result when the classifier is unavailable:
// assume nothing, schedule standard-depth analysis.
func (s *Service) fallback() analysis.QuickScan {
	metrics.AnalysisFallbacksTotal.WithLabelValues(string(analysis.PhaseQuickScan)).Inc()
	return analysis.QuickScan{
		NeedsDeepAnalysis: true,
		RecommendedDepth:  analysis.DepthStandard,
		Signals:           []string{fallbackSignal},
		Complexity:        analysis.ComplexityModerate,
	}
}

func normalizeDepth(raw string) analysis.Depth {
	d := analysis.Depth(raw)
	if !d.IsValid() {
		return analysis.DepthStandard
	}
	return d
}

func normalizeComplexity(raw string) analysis.Complexity {
	c := analysis.Complexity(raw)
	if !c.IsValid() {
		return analysis.ComplexityModerate
	}
	return c
}
