package domain

import "context"

type oracleUsageKey struct{}

// OracleUsage collects token usage for a single analysis request.
// The handler puts a mutable pointer into the context before calling the
// engine; pipeline services write after each oracle call; the handler
// reads it for response headers.
type OracleUsage struct {
	Calls       int
	TotalTokens int
}

// NewContextWithUsage returns a context with an attached usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *OracleUsage) {
	u := &OracleUsage{}
	return context.WithValue(ctx, oracleUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *OracleUsage {
	u, _ := ctx.Value(oracleUsageKey{}).(*OracleUsage)
	return u
}

// AddTokens records one completed oracle call.
func (u *OracleUsage) AddTokens(n int) {
	if u != nil {
		u.Calls++
		u.TotalTokens += n
	}
}
