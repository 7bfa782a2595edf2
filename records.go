package arbiter

import (
	"context"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// RecordOutcome stores a decided decision in the corpus. chosenOption may
// name the option by id or display name. Recorded decisions feed
// similarity search in later analyses.
func (c *Client) RecordOutcome(
	ctx context.Context, d Decision, chosenOption string, outcome Outcome, lessons []string,
) (Record, error) {
	start := time.Now()

	dc, err := decisionToDomain(d)
	if err != nil {
		c.obs.observe("record_outcome", start, err)
		return Record{}, err
	}

	rec, err := c.corpusSvc.Add(ctx, dc, chosenOption, record.Outcome(outcome), lessons)
	c.obs.observe("record_outcome", start, err)
	if err != nil {
		return Record{}, err
	}
	return recordFromDomain(rec), nil
}

// UpdateOutcome rewrites the outcome of a stored record. Nil lessons keep
// the stored ones; an empty slice clears them.
func (c *Client) UpdateOutcome(
	ctx context.Context, id string, outcome Outcome, lessons []string,
) (Record, error) {
	start := time.Now()

	rec, err := c.corpusSvc.UpdateOutcome(ctx, id, record.Outcome(outcome), lessons)
	c.obs.observe("update_outcome", start, err)
	if err != nil {
		return Record{}, err
	}
	return recordFromDomain(rec), nil
}

// GetRecord retrieves one stored decision by id.
func (c *Client) GetRecord(ctx context.Context, id string) (Record, error) {
	start := time.Now()

	rec, err := c.corpusSvc.Get(ctx, id)
	c.obs.observe("get_record", start, err)
	if err != nil {
		return Record{}, err
	}
	return recordFromDomain(rec), nil
}

// Records lists all stored decisions, oldest first.
func (c *Client) Records(ctx context.Context) ([]Record, error) {
	start := time.Now()

	recs, err := c.corpusSvc.List(ctx)
	c.obs.observe("list_records", start, err)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recordFromDomain(rec))
	}
	return out, nil
}
