package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

func TestRecordTool_Create(t *testing.T) {
	tools := newTestTools(t, dominantScan())

	req := callReq(map[string]interface{}{
		"decision":        decisionJSON,
		"chosen_option":   "graphql",
		"outcome":         "success",
		"lessons_learned": "schema versioning needed a policy\nclients loved the flexibility",
	})
	result, err := tools.record.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(t, result))
	}

	text := getResultText(t, result)
	if !strings.Contains(text, "Recorded decision") {
		t.Errorf("unexpected result text: %s", text)
	}
	if !strings.Contains(text, "GraphQL API") {
		t.Errorf("expected chosen option display name, got: %s", text)
	}

	records, err := tools.repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(records))
	}
	rec := records[0]
	if rec.ChosenOption() != "GraphQL API" {
		t.Errorf("ChosenOption = %q, want %q", rec.ChosenOption(), "GraphQL API")
	}
	if rec.Outcome() != record.OutcomeSuccess {
		t.Errorf("Outcome = %q, want success", rec.Outcome())
	}
	if len(rec.Lessons()) != 2 {
		t.Errorf("Lessons = %v, want 2 entries", rec.Lessons())
	}
}

func TestRecordTool_Update(t *testing.T) {
	tools := newTestTools(t, dominantScan())

	dc := mustDecision(t)
	seeded, err := tools.corpus.Add(context.Background(), dc, "rest", record.OutcomePending, nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	req := callReq(map[string]interface{}{
		"record_id":       seeded.ID(),
		"outcome":         "failed",
		"lessons_learned": "over-fetching hurt mobile clients",
	})
	result, err := tools.record.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(t, result))
	}
	if text := getResultText(t, result); !strings.Contains(text, "Updated record") {
		t.Errorf("unexpected result text: %s", text)
	}

	got, err := tools.repo.Get(context.Background(), seeded.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Outcome() != record.OutcomeFailed {
		t.Errorf("Outcome = %q, want failed", got.Outcome())
	}
	if len(got.Lessons()) != 1 || got.Lessons()[0] != "over-fetching hurt mobile clients" {
		t.Errorf("Lessons = %v", got.Lessons())
	}
}

func TestRecordTool_UpdateUnknownRecord(t *testing.T) {
	tools := newTestTools(t, dominantScan())

	req := callReq(map[string]interface{}{
		"record_id": "no-such-record",
		"outcome":   "success",
	})
	result, err := tools.record.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result for unknown record")
	}
	if text := getResultText(t, result); !strings.Contains(text, "not found") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestRecordTool_InvalidOutcome(t *testing.T) {
	tools := newTestTools(t, dominantScan())

	req := callReq(map[string]interface{}{
		"decision":      decisionJSON,
		"chosen_option": "rest",
		"outcome":       "triumph",
	})
	result, err := tools.record.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result for invalid outcome")
	}
	if text := getResultText(t, result); !strings.Contains(text, "unknown outcome") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestRecordTool_CreateWithoutDecision(t *testing.T) {
	tools := newTestTools(t, dominantScan())

	result, err := tools.record.Handle(context.Background(), callReq(map[string]interface{}{
		"outcome": "success",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result without record_id or decision")
	}
	if text := getResultText(t, result); !strings.Contains(text, "either record_id or decision") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestRecordTool_CreateWithoutChosenOption(t *testing.T) {
	tools := newTestTools(t, dominantScan())

	result, err := tools.record.Handle(context.Background(), callReq(map[string]interface{}{
		"decision": decisionJSON,
		"outcome":  "success",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result without chosen_option")
	}
	if text := getResultText(t, result); !strings.Contains(text, "chosen_option is required") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func mustDecision(t *testing.T) decision.Context {
	t.Helper()
	dc, err := parseDecision(decisionJSON)
	if err != nil {
		t.Fatalf("parseDecision: %v", err)
	}
	return dc
}
