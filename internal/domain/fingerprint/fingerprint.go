// Package fingerprint derives compact decision signatures used for corpus
// matching. Generation is deterministic, does no I/O, and never fails.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
)

// HashLength is the length of the hex fingerprint hash.
const HashLength = 12

// hashKeywordCount is how many top keywords participate in the hash.
// The remaining keywords still travel with the fingerprint for similarity
// scoring, but do not affect identity.
const hashKeywordCount = 5

// Fingerprint is a compact signature of a decision context (immutable value object).
type Fingerprint struct {
	domainTag        decision.Domain
	projectScale     scale.Scale
	stakeholderCount int
	constraintCount  int
	optionCount      int
	keywords         []string
	tradeOffs        []Type
	hash             string
	createdAt        time.Time
}

// Generate derives a fingerprint from a validated decision context.
// Keywords come from the domain tag plus every free-text field, ranked by
// frequency with ties broken by first-encounter order.
func Generate(dc decision.Context) Fingerprint {
	text := string(dc.Domain()) + " " + dc.FreeText()
	keywords := topKeywords(tokenize(text), MaxKeywords)
	tradeOffs := DetectTradeOffs(text)

	f := Fingerprint{
		domainTag:        dc.Domain(),
		projectScale:     dc.Technical().Scale,
		stakeholderCount: len(dc.User().Stakeholders),
		constraintCount:  len(dc.Technical().Constraints),
		optionCount:      len(dc.Options()),
		keywords:         keywords,
		tradeOffs:        tradeOffs,
		createdAt:        time.Now().UTC(),
	}
	f.hash = computeHash(f)
	return f
}

// Reconstruct creates a Fingerprint without recomputation (storage hydration).
func Reconstruct(
	domainTag decision.Domain, projectScale scale.Scale,
	stakeholderCount, constraintCount, optionCount int,
	keywords []string, tradeOffs []Type,
	hash string, createdAt time.Time,
) Fingerprint {
	return Fingerprint{
		domainTag:        domainTag,
		projectScale:     projectScale,
		stakeholderCount: stakeholderCount,
		constraintCount:  constraintCount,
		optionCount:      optionCount,
		keywords:         keywords,
		tradeOffs:        tradeOffs,
		hash:             hash,
		createdAt:        createdAt,
	}
}

// computeHash builds the canonical identity tuple and hashes it.
// Only the structural fields, the sorted top-5 keywords, and the sorted
// trade-off set participate; free text and timestamps do not.
func computeHash(f Fingerprint) string {
	kw := make([]string, 0, hashKeywordCount)
	for i, k := range f.keywords {
		if i == hashKeywordCount {
			break
		}
		kw = append(kw, k)
	}
	sort.Strings(kw)

	to := make([]string, len(f.tradeOffs))
	for i, t := range f.tradeOffs {
		to[i] = string(t)
	}
	sort.Strings(to)

	tuple := strings.Join([]string{
		string(f.domainTag),
		string(f.projectScale),
		strconv.Itoa(f.stakeholderCount),
		strconv.Itoa(f.constraintCount),
		strconv.Itoa(f.optionCount),
		strings.Join(kw, ","),
		strings.Join(to, ","),
	}, "|")

	sum := sha256.Sum256([]byte(tuple))
	return hex.EncodeToString(sum[:])[:HashLength]
}

// Domain returns the decision domain tag.
func (f *Fingerprint) Domain() decision.Domain { return f.domainTag }

// Scale returns the project scale.
func (f *Fingerprint) Scale() scale.Scale { return f.projectScale }

// StakeholderCount returns the number of stakeholders named by the context.
func (f *Fingerprint) StakeholderCount() int { return f.stakeholderCount }

// ConstraintCount returns the number of technical constraints.
func (f *Fingerprint) ConstraintCount() int { return f.constraintCount }

// OptionCount returns the number of candidate options.
func (f *Fingerprint) OptionCount() int { return f.optionCount }

// Keywords returns up to MaxKeywords frequency-ranked keywords.
func (f *Fingerprint) Keywords() []string { return f.keywords }

// TradeOffs returns the detected trade-off categories, never empty.
func (f *Fingerprint) TradeOffs() []Type { return f.tradeOffs }

// Hash returns the 12-char identity hash.
func (f *Fingerprint) Hash() string { return f.hash }

// CreatedAt returns the generation timestamp.
func (f *Fingerprint) CreatedAt() time.Time { return f.createdAt }
