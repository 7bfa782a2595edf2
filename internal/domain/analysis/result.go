// Package analysis holds the pipeline's request and result carriers. The
// result is assembled across several services, so unlike the core value
// objects these types are plain structs.
package analysis

import (
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// Depth is how much of the pipeline a request consumed.
type Depth string

// Analysis depth constants.
const (
	DepthQuick    Depth = "quick"
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// IsValid checks if the depth is one of the supported values.
func (d Depth) IsValid() bool {
	return d == DepthQuick || d == DepthStandard || d == DepthDeep
}

// Complexity is the classifier's difficulty estimate for a decision.
type Complexity string

// Complexity tier constants.
const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// IsValid checks if the complexity is one of the supported tiers.
func (c Complexity) IsValid() bool {
	return c == ComplexitySimple || c == ComplexityModerate || c == ComplexityComplex
}

// Phase is one pipeline stage, as recorded in result metadata.
type Phase string

// Pipeline phase names, in execution order.
const (
	PhaseFingerprinting Phase = "fingerprinting"
	PhaseSimilarity     Phase = "similarity_search"
	PhaseQuickScan      Phase = "quick_scan"
	PhaseFramework      Phase = "framework_generation"
	PhaseDeepAnalysis   Phase = "deep_analysis"
)

// FallbackConfidence is the confidence attached to a recommendation produced
// without oracle input.
const FallbackConfidence = 30

// Dominant is the quick scan's standout option, if one exists.
type Dominant struct {
	OptionID   string
	OptionName string
	Confidence int // 0-100
	Margin     int // lead over the runner-up
	Rationale  string
}

// QuickScan is the outcome of the single-call classifier.
type QuickScan struct {
	Dominant          *Dominant
	NeedsDeepAnalysis bool
	RecommendedDepth  Depth
	Signals           []string
	Complexity        Complexity
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
	OptionID   string
	OptionName string
	// Scores maps dimension name to a 0-10 score. Only dimensions present
	// in the framework appear here.
	Scores map[string]int
	// WeightedTotal is the locally recomputed 0-100 weighted score.
	WeightedTotal int
	Summary       string
}

// Insights summarizes what similar past decisions suggest. Derived
// deterministically from corpus matches, never from the oracle.
type Insights struct {
	Observations []string
	Lessons      []string
}

// Meta describes how the pipeline ran.
type Meta struct {
	RequestID string
	// Backend names the generation backend that served the request, or
	// "fallback" when no oracle call succeeded.
	Backend   string
	Phases    []Phase
	StartedAt time.Time
	Elapsed   time.Duration
}

// Result is the terminal artifact of one analysis. Every valid request
// produces a structurally complete Result, whatever failed along the way.
type Result struct {
	Depth       Depth
	QuickScan   *QuickScan
	Fingerprint *fingerprint.Fingerprint
	Matches     []record.Match
	Framework   *framework.Framework
	// Recommendation is always present.
	Recommendation Recommendation
	// Evaluations is empty when the quick path short-circuits.
	Evaluations []OptionEvaluation
	Insights    Insights
	Meta        Meta
}

// CompletedPhase reports whether the named phase ran for this result.
func (r *Result) CompletedPhase(p Phase) bool {
	for _, got := range r.Meta.Phases {
		if got == p {
			return true
		}
	}
	return false
}
