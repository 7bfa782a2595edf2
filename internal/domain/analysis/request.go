package analysis

import "github.com/arbiterhq/arbiter/internal/domain/decision"

// Flags tune how much of the pipeline runs for one request.
type Flags struct {
	// SkipFingerprint drops the fingerprinting phase. Similarity search
	// depends on the fingerprint, so it is skipped too.
	SkipFingerprint bool
	// SkipSimilar drops the corpus lookup.
	SkipSimilar bool
	// ForceDeep bypasses the quick scan and runs the full pipeline.
	ForceDeep bool
}

// Request binds a validated decision context to pipeline flags.
type Request struct {
	decision decision.Context
	flags    Flags
}

// NewRequest creates a pipeline request. The context is expected to come
// from decision.New; the orchestrator still guards against zero values.
func NewRequest(dc decision.Context, flags Flags) Request {
	return Request{decision: dc, flags: flags}
}

// Decision returns the decision context.
func (r *Request) Decision() decision.Context { return r.decision }

// Flags returns the pipeline flags.
func (r *Request) Flags() Flags { return r.flags }
