package analyze

import "time"

// Estimate cost model. Rough per-phase figures for UI progress display;
// nothing in the pipeline consumes these.
const (
	estimateBase          = 15 * time.Second
	estimatePerOption     = 8 * time.Second
	estimateConstraintAdd = 10 * time.Second
	estimateCap           = 120 * time.Second
)

// Estimate predicts how long an analysis will take from the option count and
// constraint presence. Pure function, no I/O.
func Estimate(optionCount int, hasConstraints bool) time.Duration {
	if optionCount < 0 {
		optionCount = 0
	}
	d := estimateBase + time.Duration(optionCount)*estimatePerOption
	if hasConstraints {
		d += estimateConstraintAdd
	}
	if d > estimateCap {
		d = estimateCap
	}
	return d
}
