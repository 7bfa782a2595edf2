// Package framework builds the per-request evaluation framework: the oracle
// proposes decision-specific dimensions, and a deterministic domain-template
// fallback covers every failure of that path.
package framework

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	domfw "github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/metrics"
	"github.com/arbiterhq/arbiter/internal/prompt"
)

// Service builds evaluation frameworks.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// New creates a framework service.
func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// frameworkReply is the wire shape the framework prompt asks for.
type frameworkReply struct {
	Rationale  string `json:"rationale"`
	Dimensions []struct {
		Name        string `json:"name"`
		Weight      int    `json:"weight"`
		Description string `json:"description"`
		Rubric      string `json:"rubric"`
		Relevance   string `json:"relevance"`
	} `json:"dimensions"`
}

// Build produces a framework for the decision. The oracle path is tried
// first; any failure lands on the domain-template fallback. Build never
// returns an error.
func (s *Service) Build(ctx context.Context, dc decision.Context, fp fingerprint.Fingerprint) domfw.Framework {
	tradeOffs := make([]string, 0, len(fp.TradeOffs()))
	for _, t := range fp.TradeOffs() {
		tradeOffs = append(tradeOffs, string(t))
	}

	p := prompt.Framework{Decision: dc, TradeOffs: tradeOffs}
	res, err := s.gen.Generate(ctx, domain.PromptRequest{
		Kind:   prompt.KindFramework,
		System: p.System(),
		Prompt: p.Render(),
	})
	if err != nil {
		s.logger.Warn("Framework oracle call failed", zap.Error(err))
		return s.fallback(dc, fp.Hash())
	}

	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	fw, err := s.parse(res.Text, fp.Hash())
	if err != nil {
		s.logger.Warn("Framework reply unusable", zap.Error(err))
		return s.fallback(dc, fp.Hash())
	}
	return fw
}

// parse extracts and validates the proposed framework. Unnamed and duplicate
// dimensions are dropped; more than six proposals keep the first six; fewer
// than four usable ones make the whole reply unusable.
func (s *Service) parse(text, contextHash string) (domfw.Framework, error) {
	span, err := prompt.ExtractObject(text)
	if err != nil {
		return domfw.Framework{}, err
	}

	var reply frameworkReply
	if err := json.Unmarshal(span, &reply); err != nil {
		return domfw.Framework{}, err
	}

	dims := make([]domfw.Dimension, 0, domfw.MaxDimensions)
	seen := make(map[string]bool, len(reply.Dimensions))
	for _, rd := range reply.Dimensions {
		if rd.Name == "" || seen[rd.Name] {
			continue
		}
		d, err := domfw.NewDimension(rd.Name, rd.Weight, rd.Description, rd.Rubric, rd.Relevance)
		if err != nil {
			continue
		}
		seen[rd.Name] = true
		dims = append(dims, d)
		if len(dims) == domfw.MaxDimensions {
			break
		}
	}

	return domfw.New(dims, reply.Rationale, contextHash, domfw.SourceOracle)
}

func (s *Service) fallback(dc decision.Context, contextHash string) domfw.Framework {
	metrics.AnalysisFallbacksTotal.WithLabelValues(string(analysis.PhaseFramework)).Inc()
	return fallbackFramework(dc, contextHash)
}
