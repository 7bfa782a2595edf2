package framework

import (
	"context"

	"github.com/arbiterhq/arbiter/internal/domain"
)

// Generator is the oracle contract for framework generation (ISP).
type Generator interface {
	Generate(ctx context.Context, req domain.PromptRequest) (domain.GenerateResult, error)
}
