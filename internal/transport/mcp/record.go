package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/arbiterhq/arbiter/internal/domain/record"
	corpusuc "github.com/arbiterhq/arbiter/internal/usecase/corpus"
)

// RecordTool handles the record_decision_outcome MCP tool.
type RecordTool struct {
	corpus *corpusuc.Service
}

// NewRecordTool creates a RecordTool backed by the corpus service.
func NewRecordTool(corpus *corpusuc.Service) *RecordTool {
	return &RecordTool{corpus: corpus}
}

// Definition returns the MCP tool definition for registration.
func (t *RecordTool) Definition() mcp.Tool {
	return mcp.NewTool("record_decision_outcome",
		mcp.WithDescription(
			"Store a decided decision in the corpus, or update the outcome of "+
				"a stored one. Pass record_id to update an existing record; "+
				"otherwise pass decision and chosen_option to create a new one. "+
				"Recorded decisions feed similarity search in later analyses.",
		),
		mcp.WithString("record_id",
			mcp.Description("ID of an existing record to update. Omit when creating."),
		),
		mcp.WithString("decision",
			mcp.Description("Decision context as JSON (create only): "+decisionSchema),
		),
		mcp.WithString("chosen_option",
			mcp.Description("ID or name of the option that was chosen (create only)."),
		),
		mcp.WithString("outcome",
			mcp.Required(),
			mcp.Description("How the decision worked out."),
			mcp.Enum("success", "partial", "failed", "pending"),
		),
		mcp.WithString("lessons_learned",
			mcp.Description("Lessons from living with the decision, one per line."),
		),
	)
}

// Handle processes the record_decision_outcome tool call.
func (t *RecordTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outcome := record.Outcome(req.GetString("outcome", ""))
	if !outcome.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown outcome %q, expected one of: success, partial, failed, pending", outcome)), nil
	}
	lessons := splitLessons(req.GetString("lessons_learned", ""))

	if id := strings.TrimSpace(req.GetString("record_id", "")); id != "" {
		rec, err := t.corpus.UpdateOutcome(ctx, id, outcome, lessons)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(renderRecord("Updated record", rec)), nil
	}

	rawDecision := req.GetString("decision", "")
	if rawDecision == "" {
		return mcp.NewToolResultError("either record_id or decision is required"), nil
	}
	chosen := strings.TrimSpace(req.GetString("chosen_option", ""))
	if chosen == "" {
		return mcp.NewToolResultError("chosen_option is required when creating a record"), nil
	}

	dc, err := parseDecision(rawDecision)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := t.corpus.Add(ctx, dc, chosen, outcome, lessons)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderRecord("Recorded decision", rec)), nil
}

func renderRecord(title string, rec record.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", title, rec.ID())
	fmt.Fprintf(&b, "- Decision: %s\n", rec.Summary())
	fmt.Fprintf(&b, "- Chosen option: %s\n", rec.ChosenOption())
	fmt.Fprintf(&b, "- Outcome: %s\n", rec.Outcome())
	writeList(&b, "Lessons", rec.Lessons())
	return b.String()
}
