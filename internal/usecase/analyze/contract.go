package analyze

import (
	"context"

	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	domfw "github.com/arbiterhq/arbiter/internal/domain/framework"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// SimilarFinder retrieves corpus matches for a fingerprint.
type SimilarFinder interface {
	FindSimilar(ctx context.Context, fp fingerprint.Fingerprint, limit int) []record.Match
}

// Scanner runs the quick dominance classifier.
type Scanner interface {
	Scan(ctx context.Context, dc decision.Context) analysis.QuickScan
}

// FrameworkBuilder produces the per-request evaluation framework.
type FrameworkBuilder interface {
	Build(ctx context.Context, dc decision.Context, fp fingerprint.Fingerprint) domfw.Framework
}

// DeepAnalyzer scores options against the framework.
type DeepAnalyzer interface {
	Analyze(
		ctx context.Context,
		dc decision.Context,
		fw domfw.Framework,
		matches []record.Match,
	) (analysis.Recommendation, []analysis.OptionEvaluation, error)
}
