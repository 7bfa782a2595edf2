package similarity

import (
	"context"

	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// Repository defines the corpus contract for similarity search.
type Repository interface {
	List(ctx context.Context) ([]record.Record, error)
}
