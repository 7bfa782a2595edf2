// Package openai implements the text generation contract over the
// OpenAI-compatible chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/metrics"
)

// Generator is a generation client for an OpenAI-compatible provider.
type Generator struct {
	client      *openai.Client
	model       string
	user        string
	provider    string
	timeout     time.Duration
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// Config holds the generation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	User    string
	// Provider labels metrics, e.g. "openai".
	Provider string
	// Timeout bounds one generation call. Zero disables the client-side bound.
	Timeout time.Duration
	// MaxTokens and Temperature apply when the request leaves them unset.
	MaxTokens   int
	Temperature float32
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible generation client.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		user:        cfg.User,
		provider:    cfg.Provider,
		timeout:     cfg.Timeout,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Generate implements domain.TextGenerator. One chat completion per call;
// retries and backoff are deliberately absent, callers degrade instead.
func (g *Generator) Generate(ctx context.Context, req domain.PromptRequest) (domain.GenerateResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = g.temperature
	}

	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		User:        g.user,
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)

	duration := time.Since(start)

	if err != nil {
		metrics.OracleRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		metrics.OracleErrorsTotal.WithLabelValues(g.provider, g.model, "api_error").Inc()
		return domain.GenerateResult{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.OracleRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		metrics.OracleErrorsTotal.WithLabelValues(g.provider, g.model, "empty_response").Inc()
		return domain.GenerateResult{}, fmt.Errorf("empty oracle reply: %w", domain.ErrOracleUnavailable)
	}

	metrics.OracleRequestsTotal.WithLabelValues(g.provider, g.model, "success").Inc()
	metrics.OracleRequestDuration.WithLabelValues(g.provider, g.model).Observe(duration.Seconds())

	usage := resp.Usage
	if usage.TotalTokens > 0 {
		metrics.OracleTokensTotal.WithLabelValues(g.provider, g.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.OracleTokensTotal.WithLabelValues(g.provider, g.model, "completion").Add(float64(usage.CompletionTokens))
		metrics.OracleTokensTotal.WithLabelValues(g.provider, g.model, "total").Add(float64(usage.TotalTokens))
	}

	g.logger.Debug("Oracle call complete",
		zap.String("kind", req.Kind),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", usage.TotalTokens))

	return domain.GenerateResult{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError maps provider failures onto domain sentinels so upstream
// fallbacks and status mapping work on errors.Is alone.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 {
			return fmt.Errorf("oracle API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrRateLimited)
		}
		return fmt.Errorf("oracle API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrOracleUnavailable)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("oracle API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrOracleUnavailable)
	}

	return fmt.Errorf("oracle request failed: %w", domain.ErrOracleUnavailable)
}
