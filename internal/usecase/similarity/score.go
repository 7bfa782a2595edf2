package similarity

import (
	"math"

	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
)

// Rubric weights. The five contributions sum to 100 on a perfect match.
const (
	weightDomain        = 25
	weightScaleExact    = 15
	weightScaleAdjacent = 8
	weightOptionsEqual  = 10
	weightOptionsClose  = 5
	weightKeywords      = 30
	weightTradeOffs     = 20
)

// optionCloseRange is how far apart option counts may be to still count as close.
const optionCloseRange = 2

// scoreFingerprints rates a candidate against the query fingerprint in [0,100].
// Structural fields contribute fixed amounts; keyword and trade-off overlap
// contribute proportionally. The sum is rounded to the nearest integer.
func scoreFingerprints(query, candidate fingerprint.Fingerprint) int {
	var score float64

	if query.Domain() == candidate.Domain() {
		score += weightDomain
	}

	switch {
	case query.Scale() == candidate.Scale():
		score += weightScaleExact
	case query.Scale().Adjacent(candidate.Scale()):
		score += weightScaleAdjacent
	}

	diff := query.OptionCount() - candidate.OptionCount()
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		score += weightOptionsEqual
	case diff <= optionCloseRange:
		score += weightOptionsClose
	}

	score += weightKeywords * overlapRatio(query.Keywords(), candidate.Keywords())
	score += weightTradeOffs * overlapRatio(tradeOffNames(query), tradeOffNames(candidate))

	return int(math.Round(score))
}

// overlapRatio is |intersection| / max(|a|, |b|, 1).
// The max(..., 1) floor keeps two empty sets at ratio 0 instead of dividing by zero.
func overlapRatio(a, b []string) float64 {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	inter := 0
	for _, s := range b {
		if seen[s] {
			inter++
			seen[s] = false
		}
	}

	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	if denom < 1 {
		denom = 1
	}
	return float64(inter) / float64(denom)
}

func tradeOffNames(f fingerprint.Fingerprint) []string {
	ts := f.TradeOffs()
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = string(t)
	}
	return names
}
