package decision

import "fmt"

// Option is one candidate solution under consideration (immutable value object).
type Option struct {
	id          string
	name        string
	description string
	pros        []string
	cons        []string
	notes       string
}

// NewOption validates and creates an Option.
// ID and name are required; everything else is advisory detail for the oracle.
func NewOption(id, name, description string, pros, cons []string, notes string) (Option, error) {
	if id == "" {
		return Option{}, fmt.Errorf("option id is required")
	}
	if len(id) > MaxOptionIDLength {
		return Option{}, fmt.Errorf("option id too long (max %d)", MaxOptionIDLength)
	}
	if name == "" {
		return Option{}, fmt.Errorf("option %q: name is required", id)
	}
	return Option{
		id:          id,
		name:        name,
		description: description,
		pros:        cloneStrings(pros),
		cons:        cloneStrings(cons),
		notes:       notes,
	}, nil
}

// ID returns the option identifier, unique within one decision context.
func (o *Option) ID() string { return o.id }

// Name returns the human-readable option name.
func (o *Option) Name() string { return o.name }

// Description returns the option description.
func (o *Option) Description() string { return o.description }

// Pros returns the stated advantages.
func (o *Option) Pros() []string { return o.pros }

// Cons returns the stated drawbacks.
func (o *Option) Cons() []string { return o.cons }

// Notes returns free-form implementation notes.
func (o *Option) Notes() string { return o.notes }

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
