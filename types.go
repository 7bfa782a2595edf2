package arbiter

import (
	"time"
)

// Decision describes one decision to analyze: what is being decided, the
// competing options, and whatever context is known. Summary and at least
// two options are required; everything else sharpens the analysis.
type Decision struct {
	Summary   string
	Domain    string
	Options   []DecisionOption
	User      UserContext
	Technical TechnicalContext
	Business  BusinessContext
}

// DecisionOption is one competing option.
type DecisionOption struct {
	ID          string
	Name        string
	Description string
	Pros        []string
	Cons        []string
	Notes       string
}

// UserContext describes who is asking and who is affected.
type UserContext struct {
	Persona      string
	Experience   string
	Stakeholders []string
}

// TechnicalContext describes the technical shape of the project.
type TechnicalContext struct {
	Scale       string
	Constraints []string
	Stack       []string
}

// BusinessContext describes the business frame around the decision.
type BusinessContext struct {
	Goals   []string
	Urgency string
	Budget  string
}

// Outcome is the recorded result of a past decision.
type Outcome string

// Outcome constants.
const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
	OutcomePending Outcome = "pending"
)

// Depth is how much of the pipeline an analysis consumed.
type Depth string

// Analysis depth constants.
const (
	DepthQuick    Depth = "quick"
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// BackendFallback is the Meta.Backend value of an analysis that completed
// without a single successful generation call.
const BackendFallback = "fallback"

// Record is a stored decision with its real-world outcome.
type Record struct {
	ID           string
	Summary      string
	ChosenOption string
	Outcome      Outcome
	Lessons      []string
	DecidedAt    time.Time
	Fingerprint  Fingerprint
}

// Fingerprint is the structural signature of a decision context.
type Fingerprint struct {
	Hash             string
	Domain           string
	Scale            string
	StakeholderCount int
	ConstraintCount  int
	OptionCount      int
	Keywords         []string
	TradeOffs        []string
	CreatedAt        time.Time
}

// Match is a similar past decision with its similarity score.
type Match struct {
	Score  int // 0-100
	Record Record
}

// QuickScan is the outcome of the single-call dominance classifier.
type QuickScan struct {
	Dominant          *DominantOption
	NeedsDeepAnalysis bool
	RecommendedDepth  Depth
	Signals           []string
	Complexity        string
}

// DominantOption is the quick scan's standout option, if one exists.
type DominantOption struct {
	OptionID   string
	OptionName string
	Confidence int // 0-100
	Margin     int
	Rationale  string
}

// Framework is the set of evaluation dimensions an analysis scored against.
type Framework struct {
	Dimensions  []Dimension
	Rationale   string
	ContextHash string
	Source      string // "oracle" or "fallback"
}

// Dimension is one evaluation axis.
type Dimension struct {
	Name        string
	Weight      int // 1-10
	Description string
	Rubric      string
	Relevance   string
}

// Recommendation is the final call for one decision.
type Recommendation struct {
	OptionID   string
	OptionName string
	Confidence int // 0-100
	Rationale  string
	KeyFactors []string
	NextSteps  []string
	Caveats    []string
}

// OptionEvaluation scores one option against the framework dimensions.
type OptionEvaluation struct {
	OptionID      string
	OptionName    string
	Scores        map[string]int // dimension name to 0-10 score
	WeightedTotal int            // 0-100
	Summary       string
}

// Insights summarizes what similar past decisions suggest.
type Insights struct {
	Observations []string
	Lessons      []string
}

// AnalysisMeta describes how the pipeline ran.
type AnalysisMeta struct {
	RequestID    string
	Backend      string // "provider/model" or BackendFallback
	Phases       []string
	StartedAt    time.Time
	Elapsed      time.Duration
	OracleCalls  int
	OracleTokens int
}

// Analysis is the complete result of analyzing one decision.
type Analysis struct {
	Depth          Depth
	QuickScan      *QuickScan
	Fingerprint    *Fingerprint
	Matches        []Match
	Framework      *Framework
	Recommendation Recommendation
	Evaluations    []OptionEvaluation
	Insights       Insights
	Meta           AnalysisMeta
}
