package corpus

import (
	"context"
	"sort"
	"sync"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// MemoryRepo is an in-process corpus used by tests and as the SDK default.
type MemoryRepo struct {
	mu      sync.RWMutex
	records map[string]record.Record
}

// NewMemory creates an empty in-memory corpus.
func NewMemory() *MemoryRepo {
	return &MemoryRepo{records: make(map[string]record.Record)}
}

// Save stores a record, replacing any previous version with the same id.
func (r *MemoryRepo) Save(_ context.Context, rec record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID()] = rec
	return nil
}

// Get retrieves a record by id.
func (r *MemoryRepo) Get(_ context.Context, id string) (record.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return record.Record{}, domain.ErrRecordNotFound
	}
	return rec, nil
}

// List returns all records ordered by decision time.
func (r *MemoryRepo) List(_ context.Context) ([]record.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]record.Record, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].DecidedAt().Equal(records[j].DecidedAt()) {
			return records[i].ID() < records[j].ID()
		}
		return records[i].DecidedAt().Before(records[j].DecidedAt())
	})

	return records, nil
}

// Ping always succeeds.
func (r *MemoryRepo) Ping(_ context.Context) error { return nil }
