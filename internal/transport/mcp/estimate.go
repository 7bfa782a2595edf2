package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	analyzeuc "github.com/arbiterhq/arbiter/internal/usecase/analyze"
)

// EstimateTool handles the estimate_analysis_time MCP tool.
type EstimateTool struct{}

// NewEstimateTool creates an EstimateTool.
func NewEstimateTool() *EstimateTool {
	return &EstimateTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *EstimateTool) Definition() mcp.Tool {
	return mcp.NewTool("estimate_analysis_time",
		mcp.WithDescription(
			"Estimate how long a full decision analysis will take, "+
				"from the option count and constraint presence. Use it to set "+
				"expectations before calling analyze_decision on a large decision.",
		),
		mcp.WithNumber("option_count",
			mcp.Required(),
			mcp.Description("Number of competing options."),
		),
		mcp.WithBoolean("has_constraints",
			mcp.Description("Whether the decision context lists technical constraints."),
		),
	)
}

// Handle processes the estimate_analysis_time tool call.
func (t *EstimateTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	optionCount := int(req.GetFloat("option_count", 0))
	hasConstraints := boolArg(req, "has_constraints", false)

	est := analyzeuc.Estimate(optionCount, hasConstraints)

	constraintNote := "no constraints"
	if hasConstraints {
		constraintNote = "with constraints"
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Estimated analysis time: %d seconds (%d options, %s).",
		int(est.Seconds()), optionCount, constraintNote,
	)), nil
}
