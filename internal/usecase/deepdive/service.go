// Package deepdive runs the full comparison: one oracle call scoring every
// option against the request's evaluation framework. Unlike the earlier
// phases it has no internal fallback; a failed deep dive is reported to the
// orchestrator, which owns the terminal degradation.
package deepdive

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	domfw "github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/domain/record"
	"github.com/arbiterhq/arbiter/internal/prompt"
)

// maxScore is the top of the per-dimension scoring scale.
const maxScore = 10

// Service scores options against the evaluation framework.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// New creates a deep analysis service.
func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// deepReply is the wire shape the deep analysis prompt asks for.
type deepReply struct {
	Recommendation struct {
		OptionID   string   `json:"option_id"`
		OptionName string   `json:"option_name"`
		Confidence int      `json:"confidence"`
		Rationale  string   `json:"rationale"`
		KeyFactors []string `json:"key_factors"`
		NextSteps  []string `json:"next_steps"`
		Caveats    []string `json:"caveats"`
	} `json:"recommendation"`
	Evaluations []struct {
		OptionID   string         `json:"option_id"`
		OptionName string         `json:"option_name"`
		Scores     map[string]int `json:"scores"`
		Summary    string         `json:"summary"`
	} `json:"evaluations"`
}

// Analyze runs the comparison. Scores for dimensions outside the framework
// are dropped and weighted totals are recomputed locally; the oracle's own
// arithmetic is never trusted. A reply whose recommended option does not
// exist in the request is an error.
func (s *Service) Analyze(
	ctx context.Context,
	dc decision.Context,
	fw domfw.Framework,
	matches []record.Match,
) (analysis.Recommendation, []analysis.OptionEvaluation, error) {
	p := prompt.DeepAnalysis{Decision: dc, Framework: fw, Matches: matches}
	res, err := s.gen.Generate(ctx, domain.PromptRequest{
		Kind:   prompt.KindDeepAnalysis,
		System: p.System(),
		Prompt: p.Render(),
	})
	if err != nil {
		return analysis.Recommendation{}, nil, fmt.Errorf("deep analysis call: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	span, err := prompt.ExtractObject(res.Text)
	if err != nil {
		return analysis.Recommendation{}, nil, err
	}
	var reply deepReply
	if err := json.Unmarshal(span, &reply); err != nil {
		return analysis.Recommendation{}, nil, fmt.Errorf("%w: %w", domain.ErrMalformedReply, err)
	}

	rec, err := s.recommendation(dc, reply)
	if err != nil {
		return analysis.Recommendation{}, nil, err
	}
	return rec, s.evaluations(dc, fw, reply), nil
}

func (s *Service) recommendation(dc decision.Context, reply deepReply) (analysis.Recommendation, error) {
	r := reply.Recommendation

	opt, ok := dc.Option(r.OptionID)
	if !ok {
		opt, ok = dc.OptionByName(r.OptionName)
	}
	if !ok {
		return analysis.Recommendation{}, fmt.Errorf(
			"%w: oracle recommended %q / %q", domain.ErrOptionNotFound, r.OptionID, r.OptionName)
	}

	return analysis.Recommendation{
		OptionID:   opt.ID(),
		OptionName: opt.Name(),
		Confidence: clamp(r.Confidence, 0, 100),
		Rationale:  r.Rationale,
		KeyFactors: r.KeyFactors,
		NextSteps:  r.NextSteps,
		Caveats:    r.Caveats,
	}, nil
}

// evaluations keeps one evaluation per known option, filtered to framework
// dimensions, with locally recomputed weighted totals.
func (s *Service) evaluations(dc decision.Context, fw domfw.Framework, reply deepReply) []analysis.OptionEvaluation {
	evals := make([]analysis.OptionEvaluation, 0, len(reply.Evaluations))
	seen := make(map[string]bool, len(reply.Evaluations))

	for _, re := range reply.Evaluations {
		opt, ok := dc.Option(re.OptionID)
		if !ok {
			opt, ok = dc.OptionByName(re.OptionName)
		}
		if !ok {
			s.logger.Debug("Dropping evaluation for unknown option",
				zap.String("option_id", re.OptionID))
			continue
		}
		if seen[opt.ID()] {
			continue
		}
		seen[opt.ID()] = true

		scores := make(map[string]int, len(re.Scores))
		for name, score := range re.Scores {
			if _, ok := fw.Dimension(name); !ok {
				s.logger.Debug("Dropping score for dimension outside the framework",
					zap.String("dimension", name))
				continue
			}
			scores[name] = clamp(score, 0, maxScore)
		}

		evals = append(evals, analysis.OptionEvaluation{
			OptionID:      opt.ID(),
			OptionName:    opt.Name(),
			Scores:        scores,
			WeightedTotal: weightedTotal(fw, scores),
			Summary:       re.Summary,
		})
	}
	return evals
}

// weightedTotal maps scores onto [0,100]: the weighted score sum over the
// maximum attainable with the full framework. Unscored dimensions count as
// zero, so partial replies read as weak, not inflated.
func weightedTotal(fw domfw.Framework, scores map[string]int) int {
	total := fw.TotalWeight()
	if total == 0 {
		return 0
	}
	sum := 0
	for _, d := range fw.Dimensions() {
		if score, ok := scores[d.Name()]; ok {
			sum += score * d.Weight()
		}
	}
	return int(math.Round(100 * float64(sum) / float64(maxScore*total)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
