package arbiter

import (
	"context"
	"time"

	domusage "github.com/arbiterhq/arbiter/internal/domain/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
	PeriodTotal UsagePeriod = "total"
)

// UsageReport contains oracle usage statistics for a time period.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Provider    string
	Metrics     UsageMetrics
	Budget      BudgetStatus
}

// UsageMetrics tracks generation resource consumption.
type UsageMetrics struct {
	OracleCalls int
	Tokens      int
}

// BudgetStatus tracks token quota state. A zero TokensLimit means no
// budget is configured.
type BudgetStatus struct {
	TokensLimit     int
	TokensRemaining int
	IsExhausted     bool
	ResetsAt        time.Time
}

// Usage returns an oracle usage report for the given period. Unknown
// periods normalize to day; the total period has no boundaries.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, domusage.Period(period))
	m := report.Metrics()
	b := report.Budget()

	return UsageReport{
		Period:      UsagePeriod(report.Period()),
		PeriodStart: msToTime(report.PeriodStart()),
		PeriodEnd:   msToTime(report.PeriodEnd()),
		Provider:    report.Provider(),
		Metrics: UsageMetrics{
			OracleCalls: m.OracleCalls(),
			Tokens:      m.Tokens(),
		},
		Budget: BudgetStatus{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
			ResetsAt:        msToTime(b.ResetsAt()),
		},
	}
}

// msToTime converts unix millis to UTC time, mapping 0 to the zero time.
func msToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
