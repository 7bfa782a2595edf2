// Package framework models the per-request evaluation plan: a small set of
// weighted dimensions the deep analysis scores options against. Frameworks
// are disposable; they are built for one request and never persisted.
package framework

import "fmt"

// Framework shape bounds.
const (
	MinDimensions = 4
	MaxDimensions = 6
	MinWeight     = 1
	MaxWeight     = 10
)

// Source records which path produced a framework.
type Source string

// Framework source constants.
const (
	// SourceOracle marks a framework proposed by the oracle.
	SourceOracle Source = "oracle"
	// SourceTemplate marks the deterministic domain-template fallback.
	SourceTemplate Source = "template"
)

// Dimension is one weighted evaluation axis.
type Dimension struct {
	name        string
	weight      int
	description string
	rubric      string
	relevance   string
}

// NewDimension validates and creates a Dimension.
// Weights outside [MinWeight, MaxWeight] are clamped, not rejected.
func NewDimension(name string, weight int, description, rubric, relevance string) (Dimension, error) {
	if name == "" {
		return Dimension{}, fmt.Errorf("dimension name is required")
	}
	if weight < MinWeight {
		weight = MinWeight
	}
	if weight > MaxWeight {
		weight = MaxWeight
	}
	return Dimension{
		name:        name,
		weight:      weight,
		description: description,
		rubric:      rubric,
		relevance:   relevance,
	}, nil
}

// Name returns the dimension name.
func (d *Dimension) Name() string { return d.name }

// Weight returns the dimension weight in [1,10].
func (d *Dimension) Weight() int { return d.weight }

// Description returns what the dimension measures.
func (d *Dimension) Description() string { return d.description }

// Rubric returns how to score options on this dimension.
func (d *Dimension) Rubric() string { return d.rubric }

// Relevance returns why this dimension matters for the decision at hand.
func (d *Dimension) Relevance() string { return d.relevance }

// Framework is a validated evaluation plan (immutable value object).
type Framework struct {
	dimensions  []Dimension
	rationale   string
	contextHash string
	source      Source
}

// New validates and creates a Framework.
func New(dimensions []Dimension, rationale, contextHash string, source Source) (Framework, error) {
	if len(dimensions) < MinDimensions || len(dimensions) > MaxDimensions {
		return Framework{}, fmt.Errorf(
			"framework needs %d to %d dimensions, got %d", MinDimensions, MaxDimensions, len(dimensions))
	}
	dims := make([]Dimension, len(dimensions))
	copy(dims, dimensions)
	return Framework{
		dimensions:  dims,
		rationale:   rationale,
		contextHash: contextHash,
		source:      source,
	}, nil
}

// Dimensions returns the evaluation dimensions in presentation order.
func (f *Framework) Dimensions() []Dimension { return f.dimensions }

// Rationale returns why this framework fits the decision.
func (f *Framework) Rationale() string { return f.rationale }

// ContextHash returns the fingerprint hash of the request the framework was built for.
func (f *Framework) ContextHash() string { return f.contextHash }

// Source returns which path produced the framework.
func (f *Framework) Source() Source { return f.source }

// Dimension looks up a dimension by name.
func (f *Framework) Dimension(name string) (Dimension, bool) {
	for _, d := range f.dimensions {
		if d.name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

// TotalWeight sums the dimension weights.
func (f *Framework) TotalWeight() int {
	total := 0
	for _, d := range f.dimensions {
		total += d.weight
	}
	return total
}
