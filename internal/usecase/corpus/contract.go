package corpus

import (
	"context"

	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// Repository defines the storage contract for decision records.
type Repository interface {
	Save(ctx context.Context, rec record.Record) error
	Get(ctx context.Context, id string) (record.Record, error)
	List(ctx context.Context) ([]record.Record, error)
}
