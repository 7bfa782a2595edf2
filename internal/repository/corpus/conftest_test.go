package corpus

import (
	"context"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// mockStore implements the key-value consumer interface for tests.
type mockStore struct {
	getFn  func(ctx context.Context, key string) ([]byte, error)
	setFn  func(ctx context.Context, key string, value []byte) error
	scanFn func(ctx context.Context, pattern string) ([]string, error)
	pingFn func(ctx context.Context) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func testFingerprint(t *testing.T) fingerprint.Fingerprint {
	t.Helper()
	return fingerprint.Reconstruct(
		decision.DomainArchitecture, scale.Medium,
		2, 1, 2,
		[]string{"cache", "latency", "redis"},
		[]fingerprint.Type{fingerprint.Performance},
		"abc123def456",
		time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	)
}

func testRecord(t *testing.T, id string, decidedAt time.Time) record.Record {
	t.Helper()
	rec, err := record.New(
		id, testFingerprint(t),
		"Pick a cache layer for the read path", "opt-redis",
		record.OutcomeSuccess,
		[]string{"warm the cache before cutover"},
		decidedAt,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}
