// Package mcp exposes the decision engine over the Model Context Protocol
// so agent tooling can analyze decisions and record outcomes directly.
//
// Each tool follows the same pattern:
//   - a struct with dependencies injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() processes the request and returns a result
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	analyzeuc "github.com/arbiterhq/arbiter/internal/usecase/analyze"
	corpusuc "github.com/arbiterhq/arbiter/internal/usecase/corpus"
	"github.com/arbiterhq/arbiter/internal/version"
)

// NewServer assembles the MCP server with every decision tool registered.
func NewServer(analyze *analyzeuc.Service, corpus *corpusuc.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"arbiter",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	analyzeTool := NewAnalyzeTool(analyze)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	estimateTool := NewEstimateTool()
	s.AddTool(estimateTool.Definition(), estimateTool.Handle)

	recordTool := NewRecordTool(corpus)
	s.AddTool(recordTool.Definition(), recordTool.Handle)

	return s
}

func serverInstructions() string {
	return "Arbiter analyzes structured decisions: give it competing options plus " +
		"context and it returns a scored recommendation. Use analyze_decision for the " +
		"full pipeline, estimate_analysis_time to set expectations before a long run, " +
		"and record_decision_outcome once a decision's real-world outcome is known so " +
		"future analyses can learn from it."
}

// boolArg extracts a boolean argument from a tool request, returning
// defaultVal if the key is missing or not a boolean.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
