package fingerprint

import "regexp"

// Type is a recognized trade-off category.
type Type string

// Trade-off category constants.
const (
	SpeedVsQuality    Type = "speed_vs_quality"
	Scalability       Type = "scalability"
	CostVsCapability  Type = "cost_vs_capability"
	Security          Type = "security"
	Usability         Type = "usability"
	Maintainability   Type = "maintainability"
	Performance       Type = "performance"
	Flexibility       Type = "flexibility"
	Integration       Type = "integration"
	SimplicityVsPower Type = "simplicity_vs_power"
	// General is the catch-all when no probe matches.
	General Type = "general"
)

// tradeOffRule pairs a category with its detection probe.
type tradeOffRule struct {
	category Type
	pattern  *regexp.Regexp
}

func compileProbe(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + expr + `)`)
}

// tradeOffRules is evaluated in declaration order against the raw context
// text; every matching category is kept. Extending the taxonomy means adding
// a row, not another branch.
var tradeOffRules = []tradeOffRule{
	{SpeedVsQuality, compileProbe(`deadline|time to market|ship (it |fast|quick)|quick win|velocity|speed|rapid|tech(nical)? debt`)},
	{Scalability, compileProbe(`scal(e|es|ing|ab)|growth|concurrent|high load|traffic|horizontal|sharding`)},
	{CostVsCapability, compileProbe(`cost|budget|pric(e|ing)|licens|cheap|expensive|afford|vendor lock`)},
	{Security, compileProbe(`secur|auth(entication|orization)?|encrypt|complian|privacy|vulnerab|gdpr|audit`)},
	{Usability, compileProbe(`usabilit|user experience|\bux\b|accessib|learning curve|intuitive|onboard|friction`)},
	{Maintainability, compileProbe(`maintain|legacy|refactor|readab|long[- ]term support|code health|upkeep`)},
	{Performance, compileProbe(`performan|latenc|response time|benchmark|memory|cpu|throughput|slow`)},
	{Flexibility, compileProbe(`flexib|extensib|customiz|plugin|adaptab|configur|future[- ]proof`)},
	{Integration, compileProbe(`integrat|interop|third[- ]party|ecosystem|webhook|compatib|migration path`)},
	{SimplicityVsPower, compileProbe(`simpl|complex|minimal|lightweight|feature[- ]rich|powerful|overkill|bloat`)},
}

// DetectTradeOffs classifies the text against the rule table and returns the
// matched categories in table order, or [general] when nothing matches.
func DetectTradeOffs(text string) []Type {
	var found []Type
	for _, rule := range tradeOffRules {
		if rule.pattern.MatchString(text) {
			found = append(found, rule.category)
		}
	}
	if len(found) == 0 {
		return []Type{General}
	}
	return found
}
