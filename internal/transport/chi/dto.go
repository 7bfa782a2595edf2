package chi

import (
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// ErrorResponse is the wire form of every API error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeRecordNotFound    = "record_not_found"
	codeCorpusUnavailable = "corpus_unavailable"
	codeRateLimited       = "rate_limited"
	codeQuotaExceeded     = "oracle_quota_exceeded"
	codeOracleUnavailable = "oracle_unavailable"
	codeNotImplemented    = "not_implemented"
	codeInternalError     = "internal_error"
)

type optionPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Pros        []string `json:"pros,omitempty"`
	Cons        []string `json:"cons,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

type userContextPayload struct {
	Persona      string   `json:"persona,omitempty"`
	Experience   string   `json:"experience,omitempty"`
	Stakeholders []string `json:"stakeholders,omitempty"`
}

type technicalContextPayload struct {
	Scale       string   `json:"scale,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
	Stack       []string `json:"stack,omitempty"`
}

type businessContextPayload struct {
	Goals   []string `json:"goals,omitempty"`
	Urgency string   `json:"urgency,omitempty"`
	Budget  string   `json:"budget,omitempty"`
}

// decisionPayload is the wire form of a decision context. Optional blocks
// may be omitted entirely; the engine runs on summary and options alone.
type decisionPayload struct {
	Summary   string                   `json:"decision_summary"`
	Domain    string                   `json:"domain,omitempty"`
	Options   []optionPayload          `json:"options"`
	User      *userContextPayload      `json:"user_context,omitempty"`
	Technical *technicalContextPayload `json:"technical_context,omitempty"`
	Business  *businessContextPayload  `json:"business_context,omitempty"`
}

type analysisFlagsPayload struct {
	SkipFingerprinting bool `json:"skip_fingerprinting,omitempty"`
	SkipSimilarSearch  bool `json:"skip_similar_search,omitempty"`
	ForceDeepAnalysis  bool `json:"force_deep_analysis,omitempty"`
}

type analyzeRequest struct {
	decisionPayload
	Flags analysisFlagsPayload `json:"flags"`
}

type estimateRequest struct {
	OptionCount    int  `json:"option_count"`
	HasConstraints bool `json:"has_constraints"`
}

type estimateResponse struct {
	EstimatedSeconds int `json:"estimated_seconds"`
}

type createRecordRequest struct {
	Decision     decisionPayload `json:"decision"`
	ChosenOption string          `json:"chosen_option"`
	Outcome      string          `json:"outcome,omitempty"`
	Lessons      []string        `json:"lessons_learned,omitempty"`
}

// updateOutcomeRequest rewrites a record's outcome. Lessons absent from the
// request keep the stored ones; an explicit empty array clears them.
type updateOutcomeRequest struct {
	Outcome string   `json:"outcome"`
	Lessons []string `json:"lessons_learned,omitempty"`
}

type fingerprintResponse struct {
	Domain           string    `json:"domain"`
	Scale            string    `json:"scale"`
	StakeholderCount int       `json:"stakeholder_count"`
	ConstraintCount  int       `json:"constraint_count"`
	OptionCount      int       `json:"option_count"`
	Keywords         []string  `json:"keywords,omitempty"`
	TradeOffTypes    []string  `json:"trade_off_types,omitempty"`
	Hash             string    `json:"fingerprint_hash"`
	CreatedAt        time.Time `json:"created_at"`
}

type recordResponse struct {
	ID           string              `json:"id"`
	Fingerprint  fingerprintResponse `json:"fingerprint"`
	Summary      string              `json:"decision_summary"`
	ChosenOption string              `json:"chosen_option"`
	Outcome      string              `json:"outcome"`
	Lessons      []string            `json:"lessons_learned,omitempty"`
	DecidedAt    time.Time           `json:"decided_at"`
}

type recordListResponse struct {
	Items []recordResponse `json:"items"`
	Total int              `json:"total"`
}

type matchResponse struct {
	Score  int            `json:"similarity_score"`
	Record recordResponse `json:"record"`
}

type dominantResponse struct {
	OptionID   string `json:"option_id"`
	OptionName string `json:"option_name"`
	Confidence int    `json:"confidence"`
	Margin     int    `json:"margin"`
	Rationale  string `json:"rationale,omitempty"`
}

type quickScanResponse struct {
	Dominant          *dominantResponse `json:"dominant_option,omitempty"`
	NeedsDeepAnalysis bool              `json:"needs_deep_analysis"`
	RecommendedDepth  string            `json:"recommended_depth,omitempty"`
	Signals           []string          `json:"signals,omitempty"`
	Complexity        string            `json:"complexity,omitempty"`
}

type dimensionResponse struct {
	Name        string `json:"name"`
	Weight      int    `json:"weight"`
	Description string `json:"description,omitempty"`
	Rubric      string `json:"rubric,omitempty"`
	Relevance   string `json:"relevance,omitempty"`
}

type frameworkResponse struct {
	Dimensions  []dimensionResponse `json:"dimensions"`
	Rationale   string              `json:"rationale,omitempty"`
	ContextHash string              `json:"context_hash"`
	Source      string              `json:"source"`
}

type recommendationResponse struct {
	OptionID   string   `json:"option_id"`
	OptionName string   `json:"option_name"`
	Confidence int      `json:"confidence"`
	Rationale  string   `json:"rationale,omitempty"`
	KeyFactors []string `json:"key_factors,omitempty"`
	NextSteps  []string `json:"next_steps,omitempty"`
	Caveats    []string `json:"caveats,omitempty"`
}

type evaluationResponse struct {
	OptionID      string         `json:"option_id"`
	OptionName    string         `json:"option_name"`
	Scores        map[string]int `json:"scores"`
	WeightedTotal int            `json:"weighted_total"`
	Summary       string         `json:"summary,omitempty"`
}

type insightsResponse struct {
	Observations []string `json:"observations,omitempty"`
	Lessons      []string `json:"lessons,omitempty"`
}

type metaResponse struct {
	RequestID       string    `json:"request_id"`
	Backend         string    `json:"backend"`
	PhasesCompleted []string  `json:"phases_completed"`
	StartedAt       time.Time `json:"started_at"`
	ElapsedMs       int64     `json:"elapsed_ms"`
}

type analyzeResponse struct {
	Depth          string                 `json:"analysis_depth"`
	QuickScan      *quickScanResponse     `json:"quick_scan,omitempty"`
	Fingerprint    *fingerprintResponse   `json:"fingerprint,omitempty"`
	Matches        []matchResponse        `json:"similar_decisions"`
	Framework      *frameworkResponse     `json:"framework,omitempty"`
	Recommendation recommendationResponse `json:"recommendation"`
	Evaluations    []evaluationResponse   `json:"contextual_evaluations"`
	Insights       *insightsResponse      `json:"historical_insights,omitempty"`
	Meta           metaResponse           `json:"meta"`
}

type usageMetricsResponse struct {
	OracleCalls int `json:"oracle_calls"`
	Tokens      int `json:"tokens"`
}

type budgetStatusResponse struct {
	TokensLimit     int        `json:"tokens_limit"`
	TokensRemaining int        `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

type usageResponse struct {
	Period        string               `json:"period"`
	PeriodStartAt *time.Time           `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time           `json:"period_end_at,omitempty"`
	Provider      string               `json:"provider,omitempty"`
	Usage         usageMetricsResponse `json:"usage"`
	Budget        budgetStatusResponse `json:"budget"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func decisionFromPayload(d decisionPayload) (decision.Context, error) {
	opts := make([]decision.Option, 0, len(d.Options))
	for _, o := range d.Options {
		opt, err := decision.NewOption(o.ID, o.Name, o.Description, o.Pros, o.Cons, o.Notes)
		if err != nil {
			return decision.Context{}, err
		}
		opts = append(opts, opt)
	}

	var user decision.UserContext
	if d.User != nil {
		user = decision.UserContext{
			Persona:      d.User.Persona,
			Experience:   d.User.Experience,
			Stakeholders: d.User.Stakeholders,
		}
	}

	var technical decision.TechnicalContext
	if d.Technical != nil {
		technical = decision.TechnicalContext{
			Scale:       scale.Scale(d.Technical.Scale),
			Constraints: d.Technical.Constraints,
			Stack:       d.Technical.Stack,
		}
	}

	var business decision.BusinessContext
	if d.Business != nil {
		business = decision.BusinessContext{
			Goals:   d.Business.Goals,
			Urgency: d.Business.Urgency,
			Budget:  d.Business.Budget,
		}
	}

	return decision.New(d.Summary, decision.Domain(d.Domain), opts, user, technical, business)
}

func fingerprintToResponse(fp *fingerprint.Fingerprint) fingerprintResponse {
	tradeOffs := make([]string, len(fp.TradeOffs()))
	for i, t := range fp.TradeOffs() {
		tradeOffs[i] = string(t)
	}
	return fingerprintResponse{
		Domain:           string(fp.Domain()),
		Scale:            string(fp.Scale()),
		StakeholderCount: fp.StakeholderCount(),
		ConstraintCount:  fp.ConstraintCount(),
		OptionCount:      fp.OptionCount(),
		Keywords:         fp.Keywords(),
		TradeOffTypes:    tradeOffs,
		Hash:             fp.Hash(),
		CreatedAt:        fp.CreatedAt(),
	}
}

func recordToResponse(r record.Record) recordResponse {
	fp := r.Fingerprint()
	return recordResponse{
		ID:           r.ID(),
		Fingerprint:  fingerprintToResponse(&fp),
		Summary:      r.Summary(),
		ChosenOption: r.ChosenOption(),
		Outcome:      string(r.Outcome()),
		Lessons:      r.Lessons(),
		DecidedAt:    r.DecidedAt(),
	}
}

func quickScanToResponse(qs *analysis.QuickScan) *quickScanResponse {
	if qs == nil {
		return nil
	}
	resp := &quickScanResponse{
		NeedsDeepAnalysis: qs.NeedsDeepAnalysis,
		RecommendedDepth:  string(qs.RecommendedDepth),
		Signals:           qs.Signals,
		Complexity:        string(qs.Complexity),
	}
	if qs.Dominant != nil {
		resp.Dominant = &dominantResponse{
			OptionID:   qs.Dominant.OptionID,
			OptionName: qs.Dominant.OptionName,
			Confidence: qs.Dominant.Confidence,
			Margin:     qs.Dominant.Margin,
			Rationale:  qs.Dominant.Rationale,
		}
	}
	return resp
}

func frameworkToResponse(fw *framework.Framework) *frameworkResponse {
	if fw == nil {
		return nil
	}
	dims := make([]dimensionResponse, len(fw.Dimensions()))
	for i := range fw.Dimensions() {
		d := fw.Dimensions()[i]
		dims[i] = dimensionResponse{
			Name:        d.Name(),
			Weight:      d.Weight(),
			Description: d.Description(),
			Rubric:      d.Rubric(),
			Relevance:   d.Relevance(),
		}
	}
	return &frameworkResponse{
		Dimensions:  dims,
		Rationale:   fw.Rationale(),
		ContextHash: fw.ContextHash(),
		Source:      string(fw.Source()),
	}
}

func resultToResponse(res *analysis.Result) analyzeResponse {
	matches := make([]matchResponse, len(res.Matches))
	for i := range res.Matches {
		m := &res.Matches[i]
		matches[i] = matchResponse{Score: m.Score(), Record: recordToResponse(m.Record())}
	}

	evals := make([]evaluationResponse, len(res.Evaluations))
	for i, e := range res.Evaluations {
		evals[i] = evaluationResponse{
			OptionID:      e.OptionID,
			OptionName:    e.OptionName,
			Scores:        e.Scores,
			WeightedTotal: e.WeightedTotal,
			Summary:       e.Summary,
		}
	}

	phases := make([]string, len(res.Meta.Phases))
	for i, p := range res.Meta.Phases {
		phases[i] = string(p)
	}

	resp := analyzeResponse{
		Depth:     string(res.Depth),
		QuickScan: quickScanToResponse(res.QuickScan),
		Matches:   matches,
		Framework: frameworkToResponse(res.Framework),
		Recommendation: recommendationResponse{
			OptionID:   res.Recommendation.OptionID,
			OptionName: res.Recommendation.OptionName,
			Confidence: res.Recommendation.Confidence,
			Rationale:  res.Recommendation.Rationale,
			KeyFactors: res.Recommendation.KeyFactors,
			NextSteps:  res.Recommendation.NextSteps,
			Caveats:    res.Recommendation.Caveats,
		},
		Evaluations: evals,
		Meta: metaResponse{
			RequestID:       res.Meta.RequestID,
			Backend:         res.Meta.Backend,
			PhasesCompleted: phases,
			StartedAt:       res.Meta.StartedAt,
			ElapsedMs:       res.Meta.Elapsed.Milliseconds(),
		},
	}

	if res.Fingerprint != nil {
		fp := fingerprintToResponse(res.Fingerprint)
		resp.Fingerprint = &fp
	}
	if len(res.Insights.Observations) > 0 || len(res.Insights.Lessons) > 0 {
		resp.Insights = &insightsResponse{
			Observations: res.Insights.Observations,
			Lessons:      res.Insights.Lessons,
		}
	}
	return resp
}
