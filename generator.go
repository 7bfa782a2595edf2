package arbiter

import "context"

// Generator produces free-text replies for analysis prompts. Implement it
// to plug in a generation backend other than the built-in OpenAI client.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

// GenerateRequest is one prompt sent to the generation backend.
type GenerateRequest struct {
	// Kind labels the pipeline phase issuing the request:
	// "quick_scan", "framework" or "deep_analysis".
	Kind        string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// GenerateResponse carries the reply text and token usage.
type GenerateResponse struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
