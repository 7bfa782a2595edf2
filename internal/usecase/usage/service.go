// Package usage reports oracle token consumption against the configured
// budget. Read-only over the tracker; nothing here mutates counters.
package usage

import (
	"context"
	"time"

	domusage "github.com/arbiterhq/arbiter/internal/domain/usage"
	"github.com/arbiterhq/arbiter/internal/domain/usage/budget"
	"github.com/arbiterhq/arbiter/internal/domain/usage/metrics"
)

// Service handles usage reporting.
type Service struct {
	br       BudgetReader
	provider string
}

// New creates a Service. br can be nil (unlimited mode, zero counters).
func New(br BudgetReader, provider string) *Service {
	return &Service{br: br, provider: provider}
}

// GetReport builds a usage report for the given period. Unknown periods
// normalize to day.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	period = domusage.Normalize(period)

	now := time.Now().UTC()
	var start, end int64
	var limit, used, remaining, calls int64

	switch period {
	case domusage.PeriodDay:
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(24 * time.Hour)
		start = dayStart.UnixMilli()
		end = dayEnd.UnixMilli()
		if s.br != nil {
			limit = s.br.DailyLimit()
			used = s.br.DailyUsed()
			calls = s.br.DailyCalls()
			remaining = s.br.RemainingDaily()
		}
	case domusage.PeriodMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0)
		start = monthStart.UnixMilli()
		end = monthEnd.UnixMilli()
		if s.br != nil {
			limit = s.br.MonthlyLimit()
			used = s.br.MonthlyUsed()
			calls = s.br.MonthlyCalls()
			remaining = s.br.RemainingMonthly()
		}
	case domusage.PeriodTotal:
		// No period boundaries; the monthly window is the widest tracked.
		if s.br != nil {
			limit = s.br.MonthlyLimit()
			used = s.br.MonthlyUsed()
			calls = s.br.MonthlyCalls()
			remaining = s.br.RemainingMonthly()
		}
	}

	exhausted := limit > 0 && remaining == 0

	b := budget.New(int(limit), int(remaining), exhausted, end)
	m := metrics.New(int(calls), int(used))

	return domusage.NewReport(period, start, end, s.provider, m, b)
}
