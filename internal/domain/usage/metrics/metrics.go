package metrics

// Metrics holds oracle usage for a time period.
type Metrics struct {
	oracleCalls int
	tokens      int
}

// New creates a Metrics snapshot.
func New(calls, tokens int) Metrics {
	return Metrics{oracleCalls: calls, tokens: tokens}
}

// OracleCalls returns the number of generation calls.
func (m Metrics) OracleCalls() int { return m.oracleCalls }

// Tokens returns the total tokens consumed.
func (m Metrics) Tokens() int { return m.tokens }
