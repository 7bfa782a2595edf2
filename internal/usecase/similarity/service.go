// Package similarity matches a decision fingerprint against the corpus of
// past decisions. Scoring is a fixed additive rubric over fingerprint
// fields; no oracle call is involved.
package similarity

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// DefaultLimit is the match count returned when the caller does not set one.
const DefaultLimit = 5

// MinScore is the relevance floor. Candidates scoring below it are dropped.
const MinScore = 50

// Service ranks corpus records by similarity to a query fingerprint.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a similarity service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// FindSimilar returns up to limit corpus matches scoring at least MinScore,
// best first. Ties go to the more recent record. An unreachable or empty
// corpus yields an empty list; corpus trouble never fails an analysis.
func (s *Service) FindSimilar(ctx context.Context, fp fingerprint.Fingerprint, limit int) []record.Match {
	if limit <= 0 {
		limit = DefaultLimit
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("Corpus scan failed, continuing without matches", zap.Error(err))
		return nil
	}

	matches := make([]record.Match, 0, len(records))
	for _, rec := range records {
		score := scoreFingerprints(fp, rec.Fingerprint())
		if score < MinScore {
			continue
		}
		matches = append(matches, record.NewMatch(rec, score))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score() != matches[j].Score() {
			return matches[i].Score() > matches[j].Score()
		}
		ri, rj := matches[i].Record(), matches[j].Record()
		return ri.DecidedAt().After(rj.DecidedAt())
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
