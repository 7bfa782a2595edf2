package domain

import "context"

// TextGenerator is the shared text generation contract between layers.
// One call carries one rendered prompt; the reply is free text from which
// callers extract structured content themselves.
type TextGenerator interface {
	Generate(ctx context.Context, req PromptRequest) (GenerateResult, error)
}

// HealthChecker verifies generation provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// PromptRequest is a single generation request.
type PromptRequest struct {
	// Kind labels the pipeline phase issuing the request (metrics, cache keys).
	Kind        string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// GenerateResult carries the raw reply text and token usage through the decorator chain.
type GenerateResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
