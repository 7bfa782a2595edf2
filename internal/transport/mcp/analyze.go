package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	analyzeuc "github.com/arbiterhq/arbiter/internal/usecase/analyze"
)

// AnalyzeTool handles the analyze_decision MCP tool. It runs the full
// pipeline and renders the result as markdown for the calling agent.
type AnalyzeTool struct {
	analyze *analyzeuc.Service
}

// NewAnalyzeTool creates an AnalyzeTool over the pipeline orchestrator.
func NewAnalyzeTool(analyze *analyzeuc.Service) *AnalyzeTool {
	return &AnalyzeTool{analyze: analyze}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_decision",
		mcp.WithDescription(
			"Analyze a structured decision between competing options. "+
				"Runs fingerprinting, similar-decision lookup, a quick dominance scan "+
				"and, when needed, full framework-based scoring. Always returns a "+
				"recommendation, even when the generation backend is unavailable.",
		),
		mcp.WithString("decision",
			mcp.Required(),
			mcp.Description("Decision context as JSON: "+decisionSchema),
		),
		mcp.WithBoolean("skip_similar_search",
			mcp.Description("Skip the lookup of similar past decisions."),
		),
		mcp.WithBoolean("force_deep_analysis",
			mcp.Description("Bypass the quick scan and run the full scoring pipeline."),
		),
	)
}

// Handle processes the analyze_decision tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("decision", "")
	if raw == "" {
		return mcp.NewToolResultError("'decision' is required"), nil
	}

	dc, err := parseDecision(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	flags := analysis.Flags{
		SkipSimilar: boolArg(req, "skip_similar_search", false),
		ForceDeep:   boolArg(req, "force_deep_analysis", false),
	}

	res, err := t.analyze.Analyze(ctx, analysis.NewRequest(dc, flags))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(renderResult(&res)), nil
}

func renderResult(res *analysis.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Recommendation: %s\n\n", res.Recommendation.OptionName)
	fmt.Fprintf(&b, "**Confidence:** %d/100\n", res.Recommendation.Confidence)
	fmt.Fprintf(&b, "**Analysis depth:** %s\n", res.Depth)
	fmt.Fprintf(&b, "**Backend:** %s\n", res.Meta.Backend)

	if res.Recommendation.Rationale != "" {
		fmt.Fprintf(&b, "\n%s\n", res.Recommendation.Rationale)
	}

	writeList(&b, "Key factors", res.Recommendation.KeyFactors)

	if len(res.Evaluations) > 0 {
		b.WriteString("\n## Option scores\n\n")
		for _, e := range res.Evaluations {
			fmt.Fprintf(&b, "- **%s**: %d/100", e.OptionName, e.WeightedTotal)
			if e.Summary != "" {
				fmt.Fprintf(&b, ": %s", e.Summary)
			}
			b.WriteString("\n")
		}
	}

	if len(res.Matches) > 0 {
		b.WriteString("\n## Similar past decisions\n\n")
		for i := range res.Matches {
			m := &res.Matches[i]
			rec := m.Record()
			fmt.Fprintf(&b, "- [score %d] %q chose **%s** (outcome: %s)\n",
				m.Score(), rec.Summary(), rec.ChosenOption(), rec.Outcome())
		}
	}

	writeList(&b, "Historical observations", res.Insights.Observations)
	writeList(&b, "Lessons from history", res.Insights.Lessons)
	writeList(&b, "Next steps", res.Recommendation.NextSteps)
	writeList(&b, "Caveats", res.Recommendation.Caveats)

	fmt.Fprintf(&b, "\n---\nRequest %s completed in %s (phases: %s).\n",
		res.Meta.RequestID, res.Meta.Elapsed.Round(time.Millisecond), joinPhases(res.Meta.Phases))

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func joinPhases(phases []analysis.Phase) string {
	parts := make([]string, len(phases))
	for i, p := range phases {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
