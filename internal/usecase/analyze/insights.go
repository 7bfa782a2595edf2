package analyze

import (
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// highSimilarityFloor marks a match close enough to call out on its own.
const highSimilarityFloor = 85

// maxLessons caps how many past lessons a result carries.
const maxLessons = 5

// deriveInsights summarizes what the corpus matches suggest. Deterministic
// rules over match data only; the oracle is never consulted here.
func deriveInsights(matches []record.Match) analysis.Insights {
	if len(matches) == 0 {
		return analysis.Insights{}
	}

	var obs []string

	top := matches[0]
	if top.Score() >= highSimilarityFloor {
		r := top.Record()
		obs = append(obs, fmt.Sprintf(
			"a highly similar past decision (score %d) chose %q", top.Score(), r.ChosenOption()))
	}

	if choice, n := frequentChoice(matches); n >= 2 {
		obs = append(obs, fmt.Sprintf(
			"%d of %d similar decisions chose %q", n, len(matches), choice))
	}

	if success, known := outcomeTally(matches); known > 0 {
		obs = append(obs, fmt.Sprintf(
			"%d of %d recorded outcomes were successful", success, known))
	}

	return analysis.Insights{
		Observations: obs,
		Lessons:      collectLessons(matches),
	}
}

// frequentChoice finds the most commonly chosen option across matches.
// Ties go to the earlier (better ranked) first appearance.
func frequentChoice(matches []record.Match) (string, int) {
	counts := make(map[string]int, len(matches))
	var order []string
	for _, m := range matches {
		r := m.Record()
		if counts[r.ChosenOption()] == 0 {
			order = append(order, r.ChosenOption())
		}
		counts[r.ChosenOption()]++
	}

	best, bestN := "", 0
	for _, choice := range order {
		if counts[choice] > bestN {
			best, bestN = choice, counts[choice]
		}
	}
	return best, bestN
}

// outcomeTally counts successful outcomes among matches with a known
// (non-pending) outcome.
func outcomeTally(matches []record.Match) (success, known int) {
	for _, m := range matches {
		r := m.Record()
		switch r.Outcome() {
		case record.OutcomeSuccess:
			success++
			known++
		case record.OutcomePartial, record.OutcomeFailed:
			known++
		case record.OutcomePending:
		}
	}
	return success, known
}

// collectLessons gathers distinct lessons in match rank order.
func collectLessons(matches []record.Match) []string {
	var lessons []string
	seen := make(map[string]bool)
	for _, m := range matches {
		r := m.Record()
		for _, l := range r.Lessons() {
			l = strings.TrimSpace(l)
			if l == "" || seen[l] {
				continue
			}
			seen[l] = true
			lessons = append(lessons, l)
			if len(lessons) == maxLessons {
				return lessons
			}
		}
	}
	return lessons
}
