package decision

import (
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
)

// Decision context limits.
const (
	MaxSummaryLength  = 4096
	MaxOptions        = 25
	MaxOptionIDLength = 128
)

// UrgencyNormal is the neutral urgency assumed when the context states none.
const UrgencyNormal = "normal"

// UserContext describes who is asking and who is affected.
type UserContext struct {
	Persona      string
	Experience   string
	Stakeholders []string
}

// TechnicalContext describes the technical shape of the project.
type TechnicalContext struct {
	Scale       scale.Scale
	Constraints []string
	Stack       []string
}

// BusinessContext describes the business frame around the decision.
type BusinessContext struct {
	Goals   []string
	Urgency string
	Budget  string
}

// Context is a validated decision request (immutable value object).
// Option order is preserved as given; the first option is the fallback
// recommendation when every analysis phase fails.
type Context struct {
	summary   string
	domainTag Domain
	options   []Option
	user      UserContext
	technical TechnicalContext
	business  BusinessContext
}

// New validates and normalizes a decision context.
// Unknown domain tags fall back to general, unknown scales to medium,
// and an unset urgency to normal.
func New(
	summary string,
	domainTag Domain,
	options []Option,
	user UserContext,
	technical TechnicalContext,
	business BusinessContext,
) (Context, error) {
	if strings.TrimSpace(summary) == "" {
		return Context{}, domain.ErrMissingSummary
	}
	if len(summary) > MaxSummaryLength {
		return Context{}, fmt.Errorf("decision summary too long (max %d chars)", MaxSummaryLength)
	}
	if len(options) < 2 {
		return Context{}, domain.ErrTooFewOptions
	}
	if len(options) > MaxOptions {
		return Context{}, fmt.Errorf("too many options (max %d)", MaxOptions)
	}

	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if seen[o.ID()] {
			return Context{}, domain.NewDuplicateOption(o.ID())
		}
		seen[o.ID()] = true
	}

	technical.Scale = scale.Normalize(technical.Scale)
	technical.Constraints = cloneStrings(technical.Constraints)
	technical.Stack = cloneStrings(technical.Stack)
	user.Stakeholders = cloneStrings(user.Stakeholders)
	business.Goals = cloneStrings(business.Goals)
	if business.Urgency == "" {
		business.Urgency = UrgencyNormal
	}

	opts := make([]Option, len(options))
	copy(opts, options)

	return Context{
		summary:   summary,
		domainTag: NormalizeDomain(domainTag),
		options:   opts,
		user:      user,
		technical: technical,
		business:  business,
	}, nil
}

// Summary returns the decision summary text.
func (c *Context) Summary() string { return c.summary }

// Domain returns the normalized domain tag.
func (c *Context) Domain() Domain { return c.domainTag }

// Options returns the candidate options in their original order.
func (c *Context) Options() []Option { return c.options }

// User returns the user context block.
func (c *Context) User() UserContext { return c.user }

// Technical returns the technical context block.
func (c *Context) Technical() TechnicalContext { return c.technical }

// Business returns the business context block.
func (c *Context) Business() BusinessContext { return c.business }

// Option looks up an option by id.
func (c *Context) Option(id string) (Option, bool) {
	for _, o := range c.options {
		if o.ID() == id {
			return o, true
		}
	}
	return Option{}, false
}

// OptionByName looks up an option by exact name (case-insensitive).
func (c *Context) OptionByName(name string) (Option, bool) {
	for _, o := range c.options {
		if strings.EqualFold(o.Name(), name) {
			return o, true
		}
	}
	return Option{}, false
}

// FreeText concatenates every free-form text field of the context.
// Fingerprinting derives keywords and trade-off signals from it.
func (c *Context) FreeText() string {
	var b strings.Builder
	b.WriteString(c.summary)
	for _, o := range c.options {
		b.WriteString(" ")
		b.WriteString(o.Name())
		b.WriteString(" ")
		b.WriteString(o.Description())
	}
	b.WriteString(" ")
	b.WriteString(c.user.Persona)
	b.WriteString(" ")
	b.WriteString(c.user.Experience)
	for _, s := range c.technical.Constraints {
		b.WriteString(" ")
		b.WriteString(s)
	}
	for _, s := range c.technical.Stack {
		b.WriteString(" ")
		b.WriteString(s)
	}
	for _, s := range c.business.Goals {
		b.WriteString(" ")
		b.WriteString(s)
	}
	// The defaulted urgency is a knob, not a signal; only an explicit one
	// contributes keywords.
	if c.business.Urgency != UrgencyNormal {
		b.WriteString(" ")
		b.WriteString(c.business.Urgency)
	}
	b.WriteString(" ")
	b.WriteString(c.business.Budget)
	return b.String()
}
