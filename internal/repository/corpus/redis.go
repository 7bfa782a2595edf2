package corpus

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/arbiterhq/arbiter/internal/db"
	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

var recordKeyPrefix = domain.KeyPrefix + "record:"

// store is the consumer interface for the redis corpus (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Ping(ctx context.Context) error
}

// RedisRepo keeps corpus records as JSON values in a key-value store.
// Valkey instances work unchanged through the same client.
type RedisRepo struct {
	store store
}

// NewRedis creates a key-value backed corpus.
func NewRedis(s store) *RedisRepo {
	return &RedisRepo{store: s}
}

// Save stores a record, replacing any previous version with the same id.
func (r *RedisRepo) Save(ctx context.Context, rec record.Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, recordKey(rec.ID()), data); err != nil {
		return fmt.Errorf("set record %s: %w", rec.ID(), err)
	}
	return nil
}

// Get retrieves a record by id.
func (r *RedisRepo) Get(ctx context.Context, id string) (record.Record, error) {
	data, err := r.store.Get(ctx, recordKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return record.Record{}, domain.ErrRecordNotFound
		}
		return record.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return record.Record{}, fmt.Errorf("parse record %s: %w", id, err)
	}
	return rec, nil
}

// List returns all parseable records ordered by decision time.
// Keys that vanish between scan and read, and values that fail to parse,
// are skipped.
func (r *RedisRepo) List(ctx context.Context) ([]record.Record, error) {
	keys, err := r.store.Scan(ctx, recordKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	records := make([]record.Record, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get record %s: %w", key, err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			continue
		}
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

// Ping checks the backing store is reachable.
func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func recordKey(id string) string {
	return recordKeyPrefix + id
}
