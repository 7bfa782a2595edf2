package framework

import (
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	domfw "github.com/arbiterhq/arbiter/internal/domain/framework"
)

// mustDimension converts a static table entry; a bad entry is a programming
// error caught at package init.
func mustDimension(name string, weight int, description, rubric, relevance string) domfw.Dimension {
	d, err := domfw.NewDimension(name, weight, description, rubric, relevance)
	if err != nil {
		panic("invalid fallback dimension table: " + err.Error())
	}
	return d
}

// domainDimensions maps decision domains to their leading fallback
// dimensions. Domains without a row start from the generic pads alone.
var domainDimensions = map[decision.Domain][]domfw.Dimension{
	decision.DomainUX:       uxDimensions,
	decision.DomainFrontend: uxDimensions,

	decision.DomainArchitecture: architectureDimensions,
	decision.DomainBackend:      architectureDimensions,
	decision.DomainInfra:        architectureDimensions,
	decision.DomainData:         architectureDimensions,
}

var uxDimensions = []domfw.Dimension{
	mustDimension("user task efficiency", 9,
		"How quickly and reliably users complete their primary tasks with this option",
		"10 means the primary flow takes fewer steps and less time than every alternative; 0 means it adds friction",
		"User-facing decisions live or die by task completion"),
	mustDimension("cognitive load", 8,
		"How much users must learn, remember, or keep in mind to use this option",
		"10 means behavior matches existing habits and conventions; 0 means heavy relearning",
		"Interface changes tax attention before they pay off"),
}

var architectureDimensions = []domfw.Dimension{
	mustDimension("implementation effort", 8,
		"Engineering work needed to ship this option to production",
		"10 means days with the current team and stack; 0 means quarters or new hires",
		"Effort bounds what can actually be delivered"),
	mustDimension("system evolution", 8,
		"How well this option accommodates growth and future requirements",
		"10 means extension points are obvious and cheap; 0 means a rewrite at the next shift",
		"Structural decisions outlive their original requirements"),
}

var constraintDimension = mustDimension("constraint satisfaction", 9,
	"How fully this option honors the stated technical constraints",
	"10 means every constraint holds without workarounds; 0 means a hard constraint is violated",
	"The context names constraints the choice must respect")

var goalDimension = mustDimension("goal alignment", 8,
	"How directly this option advances the stated business goals",
	"10 means it measurably moves the primary goal; 0 means it is orthogonal or opposed",
	"The context names goals the choice should serve")

// padDimensions fill the framework up to the minimum size, in order.
var padDimensions = []domfw.Dimension{
	mustDimension("fit for purpose", 7,
		"How well this option solves the specific problem described",
		"10 means it addresses the need exactly; 0 means it solves a different problem",
		"Every evaluation needs a grounding in the actual requirement"),
	mustDimension("risk level", 6,
		"Likelihood and blast radius of this option going wrong",
		"10 means failure modes are known and contained; 0 means unproven with wide impact",
		"Comparable options often differ most in their downside"),
	mustDimension("adoption effort", 5,
		"Work required for the team and users to absorb the change",
		"10 means no retraining or migration; 0 means significant disruption",
		"Switching costs are paid even when the destination is better"),
	mustDimension("reversibility", 5,
		"How cheaply this decision can be undone if it proves wrong",
		"10 means an easy rollback; 0 means a one-way door",
		"Reversible choices tolerate uncertainty better"),
}

const fallbackRationale = "Framework synthesized from domain templates; the generation service was unavailable"

// fallbackFramework builds the deterministic framework used when the oracle
// path fails. Domain dimensions lead, constraint and goal dimensions are
// added when the context states them, and generic pads fill up to the
// minimum of four.
func fallbackFramework(dc decision.Context, contextHash string) domfw.Framework {
	dims := make([]domfw.Dimension, 0, domfw.MaxDimensions)
	dims = append(dims, domainDimensions[dc.Domain()]...)

	if len(dc.Technical().Constraints) > 0 {
		dims = append(dims, constraintDimension)
	}
	if len(dc.Business().Goals) > 0 {
		dims = append(dims, goalDimension)
	}

	for _, pad := range padDimensions {
		if len(dims) >= domfw.MinDimensions {
			break
		}
		dims = append(dims, pad)
	}
	if len(dims) > domfw.MaxDimensions {
		dims = dims[:domfw.MaxDimensions]
	}

	fw, err := domfw.New(dims, fallbackRationale, contextHash, domfw.SourceTemplate)
	if err != nil {
		// Unreachable: the assembly above always lands between 4 and 6.
		panic("fallback framework out of bounds: " + err.Error())
	}
	return fw
}
