package fingerprint

import (
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords is the cap on keywords carried by a fingerprint.
const MaxKeywords = 10

// minTokenLength filters out tokens too short to carry signal.
const minTokenLength = 4

// stopwords are common words excluded from keyword ranking.
// Words shorter than minTokenLength never reach the check.
var stopwords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true, "have": true,
	"will": true, "would": true, "should": true, "could": true, "about": true,
	"there": true, "their": true, "which": true, "when": true, "what": true,
	"where": true, "been": true, "being": true, "more": true, "most": true,
	"some": true, "such": true, "than": true, "then": true, "them": true,
	"they": true, "these": true, "those": true, "into": true, "over": true,
	"under": true, "between": true, "after": true, "before": true, "because": true,
	"while": true, "does": true, "doing": true, "each": true, "other": true,
	"only": true, "very": true, "just": true, "also": true, "need": true,
	"needs": true, "want": true, "wants": true, "using": true, "used": true,
	"make": true, "makes": true, "like": true, "well": true, "much": true,
	"your": true, "ours": true, "both": true, "either": true, "versus": true,
}

// tokenize lowercases text, splits on every non-alphanumeric rune, and drops
// short tokens and stopwords. Order of the surviving tokens is preserved.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLength || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

type tokenStat struct {
	token string
	count int
	first int // index of first occurrence, the tie-breaker
}

// topKeywords ranks tokens by frequency and returns up to k distinct words.
// Ties are broken by first-encounter order, so earlier text wins at equal
// frequency regardless of map iteration order.
func topKeywords(tokens []string, k int) []string {
	if k <= 0 || len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]*tokenStat, len(tokens))
	stats := make([]*tokenStat, 0, len(tokens))
	for i, tok := range tokens {
		s, ok := seen[tok]
		if !ok {
			s = &tokenStat{token: tok, first: i}
			seen[tok] = s
			stats = append(stats, s)
		}
		s.count++
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].first < stats[j].first
	})

	if k > len(stats) {
		k = len(stats)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = stats[i].token
	}
	return out
}
