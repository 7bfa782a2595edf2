package deepdive

import (
	"context"

	"github.com/arbiterhq/arbiter/internal/domain"
)

// Generator is the oracle contract for deep analysis (ISP).
type Generator interface {
	Generate(ctx context.Context, req domain.PromptRequest) (domain.GenerateResult, error)
}
