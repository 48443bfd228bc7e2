package usecase

import (
	"context"
	"time"

	"github.com/degplus/brawl-collector/internal/domain/battle"
	"github.com/degplus/brawl-collector/internal/platform/logging"
)

// Deduplicator removes duplicate fact rows produced within one run and
// rows whose match the fact store already holds. The destination table
// enforces no key constraint, so these two stages are the only thing
// standing between the pipeline and duplicate facts.
type Deduplicator struct {
	factRepo battle.FactRepository
	schema   RowSchema
	lookback time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

func NewDeduplicator(factRepo battle.FactRepository, schema RowSchema, lookback time.Duration, logger *logging.Logger) *Deduplicator {
	if logger == nil {
		logger = logging.Default()
	}
	if lookback <= 0 {
		lookback = 7 * 24 * time.Hour
	}
	return &Deduplicator{
		factRepo: factRepo,
		schema:   schema,
		lookback: lookback,
		logger:   logger,
		now:      time.Now,
	}
}

// IntraRun collapses duplicates caused by the same match appearing in
// several tracked players' logs. Per game id the canonical source is
// the lowest tracked-player tag, chosen so the survivor set does not
// depend on fetch completion order; within the canonical source's rows,
// the first row per schema dedup key wins. Running IntraRun on its own
// output is a no-op.
func (d *Deduplicator) IntraRun(rows []battle.FactRow) []battle.FactRow {
	if len(rows) == 0 {
		return rows
	}

	canonicalSource := make(map[string]string, len(rows))
	for _, row := range rows {
		current, ok := canonicalSource[row.GameID]
		if !ok || row.SourcePlayerTag < current {
			canonicalSource[row.GameID] = row.SourcePlayerTag
		}
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]battle.FactRow, 0, len(rows))
	for _, row := range rows {
		if row.SourcePlayerTag != canonicalSource[row.GameID] {
			continue
		}
		key := d.schema.DedupKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}

	return out
}

// FilterExisting drops rows whose game id already exists in the fact
// store within the bounded lookback window. An existence-check failure
// is recovered optimistically: better an occasional duplicate row than
// an aborted run.
func (d *Deduplicator) FilterExisting(ctx context.Context, rows []battle.FactRow) ([]battle.FactRow, int) {
	if len(rows) == 0 {
		return rows, 0
	}

	distinct := make(map[string]struct{}, len(rows))
	gameIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := distinct[row.GameID]; ok {
			continue
		}
		distinct[row.GameID] = struct{}{}
		gameIDs = append(gameIDs, row.GameID)
	}

	since := d.now().UTC().Add(-d.lookback)
	existing, err := d.factRepo.ExistingGameIDs(ctx, gameIDs, since)
	if err != nil {
		d.logger.WarnContext(ctx, "existence check failed, assuming no matches are stored yet",
			"candidate_game_ids", len(gameIDs),
			"error", err,
		)
		return rows, 0
	}
	if len(existing) == 0 {
		return rows, 0
	}

	out := make([]battle.FactRow, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if _, ok := existing[row.GameID]; ok {
			dropped++
			continue
		}
		out = append(out, row)
	}

	return out, dropped
}
