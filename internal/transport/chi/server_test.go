package chi

import (
	"encoding/json"
	"net/http"
	"testing"
)

func decodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, body)
	}
	return v
}

func TestAnalyzeEndpoint_QuickPath(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 25)

	rr := doRequest(t, stack.handler, "POST", "/v1/analyze", decisionJSON)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d\nbody: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeJSON[analyzeResponse](t, rr.Body.Bytes())
	if resp.Depth != "quick" {
		t.Errorf("analysis_depth: got %q, want %q", resp.Depth, "quick")
	}
	if resp.Recommendation.OptionID != "rest" || resp.Recommendation.Confidence != 92 {
		t.Errorf("unexpected recommendation: %+v", resp.Recommendation)
	}
	if len(resp.Evaluations) != 0 {
		t.Errorf("quick path must not carry evaluations, got %d", len(resp.Evaluations))
	}
	if resp.Framework != nil {
		t.Error("quick path must not carry a framework")
	}

	wantPhases := []string{"fingerprinting", "similarity_search", "quick_scan"}
	if len(resp.Meta.PhasesCompleted) != len(wantPhases) {
		t.Fatalf("phases: got %v, want %v", resp.Meta.PhasesCompleted, wantPhases)
	}
	for i, p := range wantPhases {
		if resp.Meta.PhasesCompleted[i] != p {
			t.Errorf("phase %d: got %q, want %q", i, resp.Meta.PhasesCompleted[i], p)
		}
	}

	if resp.Meta.Backend != "openai/test-model" {
		t.Errorf("backend: got %q", resp.Meta.Backend)
	}
	if got := rr.Header().Get("X-Oracle-Calls"); got != "1" {
		t.Errorf("X-Oracle-Calls: got %q, want %q", got, "1")
	}
	if got := rr.Header().Get("X-Oracle-Tokens"); got != "25" {
		t.Errorf("X-Oracle-Tokens: got %q, want %q", got, "25")
	}
}

func TestAnalyzeEndpoint_FullRun(t *testing.T) {
	stack := newTestStack(t, needsDeepScan(), 25)

	rr := doRequest(t, stack.handler, "POST", "/v1/analyze", decisionJSON)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d\nbody: %s", rr.Code, rr.Body.String())
	}

	resp := decodeJSON[analyzeResponse](t, rr.Body.Bytes())
	if resp.Depth != "standard" {
		t.Errorf("analysis_depth: got %q, want %q", resp.Depth, "standard")
	}
	if resp.Recommendation.OptionID != "graphql" {
		t.Errorf("recommendation: got %q, want %q", resp.Recommendation.OptionID, "graphql")
	}
	if len(resp.Evaluations) != 2 {
		t.Fatalf("evaluations: got %d, want 2", len(resp.Evaluations))
	}
	if resp.Framework == nil || len(resp.Framework.Dimensions) != 4 {
		t.Fatalf("expected a 4-dimension framework, got %+v", resp.Framework)
	}
	if resp.Fingerprint == nil || resp.Fingerprint.OptionCount != 2 {
		t.Fatalf("expected a fingerprint over 2 options, got %+v", resp.Fingerprint)
	}
	if len(resp.Meta.PhasesCompleted) != 5 {
		t.Errorf("phases: got %v", resp.Meta.PhasesCompleted)
	}
}

func TestAnalyzeEndpoint_NoOracleUse_FallbackBackend(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	rr := doRequest(t, stack.handler, "POST", "/v1/analyze", decisionJSON)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	resp := decodeJSON[analyzeResponse](t, rr.Body.Bytes())
	if resp.Meta.Backend != "fallback" {
		t.Errorf("backend: got %q, want %q", resp.Meta.Backend, "fallback")
	}
	if got := rr.Header().Get("X-Oracle-Calls"); got != "" {
		t.Errorf("X-Oracle-Calls must be absent without oracle use, got %q", got)
	}
}

func TestAnalyzeEndpoint_SingleOption_400(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	body := `{
		"decision_summary": "Only one way forward",
		"options": [{"id": "only", "name": "Only choice"}]
	}`
	rr := doRequest(t, stack.handler, "POST", "/v1/analyze", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	errResp := decodeJSON[ErrorResponse](t, rr.Body.Bytes())
	if errResp.Code != codeValidationFailed {
		t.Errorf("code: got %q, want %q", errResp.Code, codeValidationFailed)
	}
}

func TestAnalyzeEndpoint_MalformedBody_400(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	rr := doRequest(t, stack.handler, "POST", "/v1/analyze", "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	errResp := decodeJSON[ErrorResponse](t, rr.Body.Bytes())
	if errResp.Code != codeBadRequest {
		t.Errorf("code: got %q, want %q", errResp.Code, codeBadRequest)
	}
}

func TestEstimateEndpoint(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	rr := doRequest(t, stack.handler, "POST", "/v1/estimate",
		`{"option_count": 4, "has_constraints": true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	resp := decodeJSON[estimateResponse](t, rr.Body.Bytes())
	if resp.EstimatedSeconds != 57 {
		t.Errorf("estimated_seconds: got %d, want 57", resp.EstimatedSeconds)
	}
}

func TestCreateRecordEndpoint(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	body := `{"decision": ` + decisionJSON + `,
		"chosen_option": "graphql", "outcome": "success",
		"lessons_learned": ["schema-first worked well"]}`
	rr := doRequest(t, stack.handler, "POST", "/v1/corpus/records", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d\nbody: %s", rr.Code, rr.Body.String())
	}

	created := decodeJSON[recordResponse](t, rr.Body.Bytes())
	if created.ID == "" {
		t.Fatal("expected a generated record id")
	}
	if created.ChosenOption != "GraphQL API" {
		t.Errorf("chosen_option: got %q, want display name", created.ChosenOption)
	}
	if created.Outcome != "success" {
		t.Errorf("outcome: got %q", created.Outcome)
	}
	if created.Fingerprint.Hash == "" {
		t.Error("expected a fingerprint hash")
	}
	if got := rr.Header().Get("Location"); got != "/v1/corpus/records/"+created.ID {
		t.Errorf("Location: got %q", got)
	}

	rr = doRequest(t, stack.handler, "GET", "/v1/corpus/records/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status: got %d", rr.Code)
	}
	fetched := decodeJSON[recordResponse](t, rr.Body.Bytes())
	if fetched.ID != created.ID {
		t.Errorf("fetched id: got %q, want %q", fetched.ID, created.ID)
	}

	rr = doRequest(t, stack.handler, "GET", "/v1/corpus/records", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status: got %d", rr.Code)
	}
	list := decodeJSON[recordListResponse](t, rr.Body.Bytes())
	if list.Total != 1 || len(list.Items) != 1 {
		t.Errorf("list: got total %d, items %d", list.Total, len(list.Items))
	}
}

func TestCreateRecordEndpoint_UnknownChosenOption(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	body := `{"decision": ` + decisionJSON + `, "chosen_option": "soap"}`
	rr := doRequest(t, stack.handler, "POST", "/v1/corpus/records", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	errResp := decodeJSON[ErrorResponse](t, rr.Body.Bytes())
	if errResp.Code != codeValidationFailed {
		t.Errorf("code: got %q, want %q", errResp.Code, codeValidationFailed)
	}
}

func TestGetRecordEndpoint_NotFound(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	rr := doRequest(t, stack.handler, "GET", "/v1/corpus/records/no-such-id", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}

	errResp := decodeJSON[ErrorResponse](t, rr.Body.Bytes())
	if errResp.Code != codeRecordNotFound {
		t.Errorf("code: got %q, want %q", errResp.Code, codeRecordNotFound)
	}
}

func TestUpdateRecordOutcomeEndpoint(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	body := `{"decision": ` + decisionJSON + `, "chosen_option": "rest"}`
	rr := doRequest(t, stack.handler, "POST", "/v1/corpus/records", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status: got %d", rr.Code)
	}
	created := decodeJSON[recordResponse](t, rr.Body.Bytes())
	if created.Outcome != "pending" {
		t.Fatalf("outcome before update: got %q, want %q", created.Outcome, "pending")
	}

	rr = doRequest(t, stack.handler, "PATCH", "/v1/corpus/records/"+created.ID,
		`{"outcome": "failed", "lessons_learned": ["versioning was painful"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status: got %d\nbody: %s", rr.Code, rr.Body.String())
	}

	updated := decodeJSON[recordResponse](t, rr.Body.Bytes())
	if updated.Outcome != "failed" {
		t.Errorf("outcome: got %q, want %q", updated.Outcome, "failed")
	}
	if len(updated.Lessons) != 1 || updated.Lessons[0] != "versioning was painful" {
		t.Errorf("lessons: got %v", updated.Lessons)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed on update: %q -> %q", created.ID, updated.ID)
	}
}

func TestUpdateRecordOutcomeEndpoint_InvalidOutcome(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	rr := doRequest(t, stack.handler, "PATCH", "/v1/corpus/records/some-id",
		`{"outcome": "triumph"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	errResp := decodeJSON[ErrorResponse](t, rr.Body.Bytes())
	if errResp.Code != codeValidationFailed {
		t.Errorf("code: got %q, want %q", errResp.Code, codeValidationFailed)
	}
}

func TestUsageEndpoint(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	rr := doRequest(t, stack.handler, "GET", "/v1/usage?period=month", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	resp := decodeJSON[usageResponse](t, rr.Body.Bytes())
	if resp.Period != "month" {
		t.Errorf("period: got %q, want %q", resp.Period, "month")
	}
	if resp.Provider != "openai" {
		t.Errorf("provider: got %q", resp.Provider)
	}
	if resp.PeriodStartAt == nil || resp.PeriodEndAt == nil {
		t.Error("expected period boundaries")
	}
	if resp.Budget.IsExhausted {
		t.Error("an unconfigured budget must not be exhausted")
	}
}

func TestHealthEndpoint(t *testing.T) {
	stack := newTestStack(t, dominantScan(), 0)

	rr := doRequest(t, stack.handler, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	resp := decodeJSON[healthResponse](t, rr.Body.Bytes())
	if resp.Status != "ok" {
		t.Errorf("status: got %q", resp.Status)
	}
	if resp.Checks["corpus"] != "ok" {
		t.Errorf("corpus check: got %q", resp.Checks["corpus"])
	}
}
