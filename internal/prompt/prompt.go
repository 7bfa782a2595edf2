// Package prompt renders the engine's oracle prompts. Each builder takes
// explicit typed fields and produces the final text in one pass; callers
// never patch placeholders into half-built strings.
package prompt

import (
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// Prompt kinds label oracle calls for metrics and cache keys.
const (
	KindQuickScan    = "quick_scan"
	KindFramework    = "framework"
	KindDeepAnalysis = "deep_analysis"
)

const quickScanSystem = `You are a pragmatic solution architect triaging a decision.
Judge whether one option is so clearly superior that deep analysis is unnecessary.
Be conservative: when in doubt, request deep analysis.
Respond with a single JSON object and nothing else.`

const frameworkSystem = `You are a solution architect designing an evaluation framework.
Propose decision-specific dimensions; never generic ones like "pros and cons".
Weights express relative importance for this particular decision.
Respond with a single JSON object and nothing else.`

const deepAnalysisSystem = `You are a solution architect conducting a rigorous comparison.
Score options only on the dimensions you are given; do not invent new ones.
Ground every score in the stated context and constraints.
Respond with a single JSON object and nothing else.`

// QuickScan renders the single-call classifier prompt.
type QuickScan struct {
	Decision decision.Context
}

// System returns the classifier system instruction.
func (p QuickScan) System() string { return quickScanSystem }

// Render produces the user prompt.
func (p QuickScan) Render() string {
	var b strings.Builder
	writeDecision(&b, p.Decision)
	b.WriteString(`
Reply with exactly this JSON shape:
{
  "dominant_option": {"id": "", "name": "", "confidence": 0, "margin": 0, "rationale": ""},
  "needs_deep_analysis": true,
  "recommended_depth": "quick|standard|deep",
  "signals": [""],
  "complexity": "simple|moderate|complex"
}
Set "dominant_option" to null unless one option wins with confidence >= 85
and a margin of at least 20 points over the runner-up.
`)
	return b.String()
}

// Framework renders the dimension-proposal prompt.
type Framework struct {
	Decision  decision.Context
	TradeOffs []string
}

// System returns the framework system instruction.
func (p Framework) System() string { return frameworkSystem }

// Render produces the user prompt.
func (p Framework) Render() string {
	var b strings.Builder
	writeDecision(&b, p.Decision)
	if len(p.TradeOffs) > 0 {
		fmt.Fprintf(&b, "\nDetected trade-off tensions: %s\n", strings.Join(p.TradeOffs, ", "))
	}
	fmt.Fprintf(&b, `
Propose between %d and %d evaluation dimensions tailored to this decision.
Reply with exactly this JSON shape:
{
  "rationale": "",
  "dimensions": [
    {"name": "", "weight": 1, "description": "", "rubric": "", "relevance": ""}
  ]
}
Weights are integers from 1 to 10.
`, framework.MinDimensions, framework.MaxDimensions)
	return b.String()
}

// DeepAnalysis renders the full comparison prompt.
type DeepAnalysis struct {
	Decision  decision.Context
	Framework framework.Framework
	Matches   []record.Match
}

// System returns the deep-analysis system instruction.
func (p DeepAnalysis) System() string { return deepAnalysisSystem }

// Render produces the user prompt.
func (p DeepAnalysis) Render() string {
	var b strings.Builder
	writeDecision(&b, p.Decision)

	b.WriteString("\nEvaluation dimensions (score options only on these):\n")
	for _, d := range p.Framework.Dimensions() {
		fmt.Fprintf(&b, "- %s (weight %d): %s. Rubric: %s\n", d.Name(), d.Weight(), d.Description(), d.Rubric())
	}

	if len(p.Matches) > 0 {
		b.WriteString("\nSimilar past decisions:\n")
		for _, m := range p.Matches {
			r := m.Record()
			fmt.Fprintf(&b, "- [similarity %d] %q chose %q, outcome %s\n",
				m.Score(), r.Summary(), r.ChosenOption(), r.Outcome())
		}
	}

	b.WriteString(`
Reply with exactly this JSON shape:
{
  "recommendation": {
    "option_id": "", "option_name": "", "confidence": 0, "rationale": "",
    "key_factors": [""], "next_steps": [""], "caveats": [""]
  },
  "evaluations": [
    {"option_id": "", "option_name": "", "scores": {"<dimension name>": 0}, "summary": ""}
  ]
}
Scores are integers from 0 to 10, one entry per dimension, for every option.
`)
	return b.String()
}

// writeDecision renders the shared decision block every prompt starts with.
func writeDecision(b *strings.Builder, dc decision.Context) {
	fmt.Fprintf(b, "Decision: %s\n", dc.Summary())
	fmt.Fprintf(b, "Domain: %s, project scale: %s\n", dc.Domain(), dc.Technical().Scale)

	b.WriteString("\nOptions:\n")
	for _, o := range dc.Options() {
		fmt.Fprintf(b, "- id=%s %q", o.ID(), o.Name())
		if o.Description() != "" {
			fmt.Fprintf(b, ": %s", o.Description())
		}
		b.WriteString("\n")
		if len(o.Pros()) > 0 {
			fmt.Fprintf(b, "  pros: %s\n", strings.Join(o.Pros(), "; "))
		}
		if len(o.Cons()) > 0 {
			fmt.Fprintf(b, "  cons: %s\n", strings.Join(o.Cons(), "; "))
		}
		if o.Notes() != "" {
			fmt.Fprintf(b, "  notes: %s\n", o.Notes())
		}
	}

	user := dc.User()
	if user.Persona != "" || user.Experience != "" {
		fmt.Fprintf(b, "\nAsking: %s %s\n", user.Persona, user.Experience)
	}
	if len(user.Stakeholders) > 0 {
		fmt.Fprintf(b, "Stakeholders: %s\n", strings.Join(user.Stakeholders, ", "))
	}

	tech := dc.Technical()
	if len(tech.Constraints) > 0 {
		fmt.Fprintf(b, "Technical constraints: %s\n", strings.Join(tech.Constraints, "; "))
	}
	if len(tech.Stack) > 0 {
		fmt.Fprintf(b, "Current stack: %s\n", strings.Join(tech.Stack, ", "))
	}

	biz := dc.Business()
	if len(biz.Goals) > 0 {
		fmt.Fprintf(b, "Business goals: %s\n", strings.Join(biz.Goals, "; "))
	}
	fmt.Fprintf(b, "Urgency: %s", biz.Urgency)
	if biz.Budget != "" {
		fmt.Fprintf(b, ", budget: %s", biz.Budget)
	}
	b.WriteString("\n")
}
