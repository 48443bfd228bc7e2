package battle

import (
	"context"
	"time"
)

// FactRepository describes fact-store access needs from the pipeline.
// The destination enforces no key constraint; every dedup guarantee is
// the caller's responsibility.
type FactRepository interface {
	// ExistingGameIDs reports which of the candidate game ids already
	// exist among rows with battle_time >= since. The time bound keeps
	// the scan inside recent partitions.
	ExistingGameIDs(ctx context.Context, gameIDs []string, since time.Time) (map[string]struct{}, error)
	// InsertRows appends rows in a single atomic batch and returns the
	// number written. Inserting zero rows is a no-op, not an error.
	InsertRows(ctx context.Context, rows []FactRow) (int, error)
}
