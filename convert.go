package arbiter

import (
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	domfw "github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

func decisionToDomain(d Decision) (decision.Context, error) {
	opts := make([]decision.Option, 0, len(d.Options))
	for _, o := range d.Options {
		opt, err := decision.NewOption(o.ID, o.Name, o.Description, o.Pros, o.Cons, o.Notes)
		if err != nil {
			return decision.Context{}, err
		}
		opts = append(opts, opt)
	}

	return decision.New(
		d.Summary,
		decision.Domain(d.Domain),
		opts,
		decision.UserContext{
			Persona:      d.User.Persona,
			Experience:   d.User.Experience,
			Stakeholders: d.User.Stakeholders,
		},
		decision.TechnicalContext{
			Scale:       scale.Scale(d.Technical.Scale),
			Constraints: d.Technical.Constraints,
			Stack:       d.Technical.Stack,
		},
		decision.BusinessContext{
			Goals:   d.Business.Goals,
			Urgency: d.Business.Urgency,
			Budget:  d.Business.Budget,
		},
	)
}

func fingerprintFromDomain(fp *fingerprint.Fingerprint) Fingerprint {
	tradeOffs := make([]string, 0, len(fp.TradeOffs()))
	for _, t := range fp.TradeOffs() {
		tradeOffs = append(tradeOffs, string(t))
	}
	return Fingerprint{
		Hash:             fp.Hash(),
		Domain:           string(fp.Domain()),
		Scale:            string(fp.Scale()),
		StakeholderCount: fp.StakeholderCount(),
		ConstraintCount:  fp.ConstraintCount(),
		OptionCount:      fp.OptionCount(),
		Keywords:         fp.Keywords(),
		TradeOffs:        tradeOffs,
		CreatedAt:        fp.CreatedAt(),
	}
}

func recordFromDomain(rec record.Record) Record {
	fp := rec.Fingerprint()
	return Record{
		ID:           rec.ID(),
		Summary:      rec.Summary(),
		ChosenOption: rec.ChosenOption(),
		Outcome:      Outcome(rec.Outcome()),
		Lessons:      rec.Lessons(),
		DecidedAt:    rec.DecidedAt(),
		Fingerprint:  fingerprintFromDomain(&fp),
	}
}

func quickScanFromDomain(qs *analysis.QuickScan) *QuickScan {
	out := &QuickScan{
		NeedsDeepAnalysis: qs.NeedsDeepAnalysis,
		RecommendedDepth:  Depth(qs.RecommendedDepth),
		Signals:           qs.Signals,
		Complexity:        string(qs.Complexity),
	}
	if qs.Dominant != nil {
		out.Dominant = &DominantOption{
			OptionID:   qs.Dominant.OptionID,
			OptionName: qs.Dominant.OptionName,
			Confidence: qs.Dominant.Confidence,
			Margin:     qs.Dominant.Margin,
			Rationale:  qs.Dominant.Rationale,
		}
	}
	return out
}

func frameworkFromDomain(fw *domfw.Framework) *Framework {
	dims := make([]Dimension, 0, len(fw.Dimensions()))
	for i := range fw.Dimensions() {
		d := &fw.Dimensions()[i]
		dims = append(dims, Dimension{
			Name:        d.Name(),
			Weight:      d.Weight(),
			Description: d.Description(),
			Rubric:      d.Rubric(),
			Relevance:   d.Relevance(),
		})
	}
	return &Framework{
		Dimensions:  dims,
		Rationale:   fw.Rationale(),
		ContextHash: fw.ContextHash(),
		Source:      string(fw.Source()),
	}
}

func analysisFromDomain(res *analysis.Result, oracleCalls, oracleTokens int) Analysis {
	out := Analysis{
		Depth: Depth(res.Depth),
		Recommendation: Recommendation{
			OptionID:   res.Recommendation.OptionID,
			OptionName: res.Recommendation.OptionName,
			Confidence: res.Recommendation.Confidence,
			Rationale:  res.Recommendation.Rationale,
			KeyFactors: res.Recommendation.KeyFactors,
			NextSteps:  res.Recommendation.NextSteps,
			Caveats:    res.Recommendation.Caveats,
		},
		Insights: Insights{
			Observations: res.Insights.Observations,
			Lessons:      res.Insights.Lessons,
		},
		Meta: AnalysisMeta{
			RequestID:    res.Meta.RequestID,
			Backend:      res.Meta.Backend,
			Phases:       phaseNames(res.Meta.Phases),
			StartedAt:    res.Meta.StartedAt,
			Elapsed:      res.Meta.Elapsed,
			OracleCalls:  oracleCalls,
			OracleTokens: oracleTokens,
		},
	}

	if res.QuickScan != nil {
		out.QuickScan = quickScanFromDomain(res.QuickScan)
	}
	if res.Fingerprint != nil {
		fp := fingerprintFromDomain(res.Fingerprint)
		out.Fingerprint = &fp
	}
	if res.Framework != nil {
		out.Framework = frameworkFromDomain(res.Framework)
	}

	if len(res.Matches) > 0 {
		out.Matches = make([]Match, 0, len(res.Matches))
		for i := range res.Matches {
			m := &res.Matches[i]
			out.Matches = append(out.Matches, Match{
				Score:  m.Score(),
				Record: recordFromDomain(m.Record()),
			})
		}
	}

	if len(res.Evaluations) > 0 {
		out.Evaluations = make([]OptionEvaluation, 0, len(res.Evaluations))
		for _, e := range res.Evaluations {
			out.Evaluations = append(out.Evaluations, OptionEvaluation{
				OptionID:      e.OptionID,
				OptionName:    e.OptionName,
				Scores:        e.Scores,
				WeightedTotal: e.WeightedTotal,
				Summary:       e.Summary,
			})
		}
	}

	return out
}

func phaseNames(phases []analysis.Phase) []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = string(p)
	}
	return names
}
