package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
)

// decisionSchema documents the JSON expected in the "decision" argument.
// Shared by analyze_decision and record_decision_outcome.
const decisionSchema = `{"decision_summary": "...", "options": [{"id": "...", "name": "...", ` +
	`"description"?, "pros"?, "cons"?, "notes"?}, ...], "domain"?, ` +
	`"user_context"?: {"persona", "experience", "stakeholders"}, ` +
	`"technical_context"?: {"scale", "constraints", "stack"}, ` +
	`"business_context"?: {"goals", "urgency", "budget"}}`

type optionPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	Notes       string   `json:"notes"`
}

type decisionPayload struct {
	Summary string          `json:"decision_summary"`
	Domain  string          `json:"domain"`
	Options []optionPayload `json:"options"`
	User    *struct {
		Persona      string   `json:"persona"`
		Experience   string   `json:"experience"`
		Stakeholders []string `json:"stakeholders"`
	} `json:"user_context"`
	Technical *struct {
		Scale       string   `json:"scale"`
		Constraints []string `json:"constraints"`
		Stack       []string `json:"stack"`
	} `json:"technical_context"`
	Business *struct {
		Goals   []string `json:"goals"`
		Urgency string   `json:"urgency"`
		Budget  string   `json:"budget"`
	} `json:"business_context"`
}

// parseDecision turns the "decision" argument into a validated context.
func parseDecision(raw string) (decision.Context, error) {
	var p decisionPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return decision.Context{}, fmt.Errorf("'decision' must be a JSON object: %w", err)
	}

	opts := make([]decision.Option, 0, len(p.Options))
	for _, o := range p.Options {
		opt, err := decision.NewOption(o.ID, o.Name, o.Description, o.Pros, o.Cons, o.Notes)
		if err != nil {
			return decision.Context{}, err
		}
		opts = append(opts, opt)
	}

	var user decision.UserContext
	if p.User != nil {
		user = decision.UserContext{
			Persona:      p.User.Persona,
			Experience:   p.User.Experience,
			Stakeholders: p.User.Stakeholders,
		}
	}
	var technical decision.TechnicalContext
	if p.Technical != nil {
		technical = decision.TechnicalContext{
			Scale:       scale.Scale(p.Technical.Scale),
			Constraints: p.Technical.Constraints,
			Stack:       p.Technical.Stack,
		}
	}
	var business decision.BusinessContext
	if p.Business != nil {
		business = decision.BusinessContext{
			Goals:   p.Business.Goals,
			Urgency: p.Business.Urgency,
			Budget:  p.Business.Budget,
		}
	}

	return decision.New(p.Summary, decision.Domain(p.Domain), opts, user, technical, business)
}

// splitLessons turns a newline-separated lessons argument into a list.
func splitLessons(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var lessons []string
	for _, line := range strings.Split(raw, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lessons = append(lessons, l)
		}
	}
	return lessons
}
