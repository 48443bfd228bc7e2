package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"

	"github.com/degplus/brawl-collector/internal/domain/battle"
	"github.com/degplus/brawl-collector/internal/domain/roster"
	"github.com/degplus/brawl-collector/internal/platform/logging"
)

// CollectConfig is the per-run pipeline policy.
type CollectConfig struct {
	AllowedBattleTypes []string      `validate:"min=1,dive,required"`
	ExcludedModes      []string      `validate:"dive,required"`
	DedupLookback      time.Duration `validate:"gt=0"`
	FetchWorkers       int           `validate:"min=1"`
	SchemaVariant      string        `validate:"oneof=classic extended"`
}

// RunResult carries per-stage counts for the run summary.
type RunResult struct {
	Players         int
	FetchFailures   int
	RawRows         int
	AfterIntraRun   int
	ExistingSkipped int
	LoadedRows      int
}

// CollectService runs one full ingestion pass: roster, per-player battle
// logs, normalization, dedup, append-only load. It owns no state between
// runs beyond what the fact store holds.
type CollectService struct {
	rosterRepo roster.Repository
	provider   BattleLogProvider
	factRepo   battle.FactRepository
	cfg        CollectConfig

	enrichment *EnrichmentResolver
	normalizer *Normalizer
	dedup      *Deduplicator
	logger     *logging.Logger
	now        func() time.Time
}

var collectValidator = validator.New()

func NewCollectService(
	rosterRepo roster.Repository,
	provider BattleLogProvider,
	factRepo battle.FactRepository,
	cfg CollectConfig,
	logger *logging.Logger,
) (*CollectService, error) {
	if rosterRepo == nil || provider == nil || factRepo == nil {
		return nil, fmt.Errorf("%w: roster repository, battle log provider and fact repository are required", ErrInvalidInput)
	}
	if err := collectValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: validate collect config: %v", ErrInvalidInput, err)
	}
	if logger == nil {
		logger = logging.Default()
	}

	enrichment := NewEnrichmentResolver()
	schema := SchemaForVariant(cfg.SchemaVariant, enrichment)
	rules := NewEligibilityRules(cfg.AllowedBattleTypes, cfg.ExcludedModes)

	return &CollectService{
		rosterRepo: rosterRepo,
		provider:   provider,
		factRepo:   factRepo,
		cfg:        cfg,
		enrichment: enrichment,
		normalizer: NewNormalizer(rules, schema),
		dedup:      NewDeduplicator(factRepo, schema, cfg.DedupLookback, logger),
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Run executes one collection pass. Roster and load failures abort the
// run; everything in between recovers per-item and keeps going.
func (s *CollectService) Run(ctx context.Context) (RunResult, error) {
	ctx, span := startRunSpan(ctx, "usecase.CollectService.Run")
	defer span.End()

	var result RunResult

	players, err := s.rosterRepo.ListActive(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: list active players: %v", ErrRosterUnavailable, err)
	}
	result.Players = len(players)
	if len(players) == 0 {
		s.logger.InfoContext(ctx, "no active players in roster, nothing to collect")
		return result, nil
	}
	s.logger.InfoContext(ctx, "active players loaded", "players", len(players))

	s.loadEnrichment(ctx)

	// Dedup's first-seen policy needs a reproducible iteration order, so
	// players are pinned to tag order before the fan-out and results are
	// reassembled by index afterwards.
	sort.SliceStable(players, func(i, j int) bool { return players[i].Tag < players[j].Tag })

	battlesByPlayer, fetchFailures, err := s.fetchAll(ctx, players)
	if err != nil {
		return result, err
	}
	result.FetchFailures = fetchFailures

	collectedAt := s.now().UTC()
	rows := make([]battle.FactRow, 0, 64)
	for i, p := range players {
		for _, item := range battlesByPlayer[i] {
			rows = append(rows, s.normalizer.Normalize(item, p, collectedAt)...)
		}
	}
	result.RawRows = len(rows)
	s.logger.InfoContext(ctx, "battles normalized",
		"players", len(players),
		"fetch_failures", fetchFailures,
		"raw_rows", len(rows),
	)

	deduped := s.dedup.IntraRun(rows)
	result.AfterIntraRun = len(deduped)

	fresh, skipped := s.dedup.FilterExisting(ctx, deduped)
	result.ExistingSkipped = skipped
	s.logger.InfoContext(ctx, "rows deduplicated",
		"raw_rows", len(rows),
		"after_intra_run", len(deduped),
		"already_stored", skipped,
		"new_rows", len(fresh),
	)

	if len(fresh) == 0 {
		s.logger.InfoContext(ctx, "no new battles to load")
		return result, nil
	}

	loaded, err := s.factRepo.InsertRows(ctx, fresh)
	if err != nil {
		return result, fmt.Errorf("%w: append %d rows: %v", ErrLoadFailed, len(fresh), err)
	}
	result.LoadedRows = loaded
	s.logger.InfoContext(ctx, "fact rows loaded", "rows", loaded)

	return result, nil
}

// loadEnrichment snapshots the full roster for participant enrichment.
// Best effort: a failed read leaves enrichment fields empty rather than
// aborting the run.
func (s *CollectService) loadEnrichment(ctx context.Context) {
	all, err := s.rosterRepo.ListAll(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "roster enrichment load failed, rows will carry no enrichment", "error", err)
		return
	}
	s.enrichment.Load(all)
	s.logger.DebugContext(ctx, "enrichment snapshot loaded", "entries", s.enrichment.Size())
}

// fetchAll retrieves every player's battle log through a bounded worker
// pool. A per-player failure is recovered: that player contributes zero
// battles and the run continues.
func (s *CollectService) fetchAll(ctx context.Context, players []roster.SourcePlayer) ([][]ExternalBattle, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectService.FetchAll")
	defer span.End()

	battlesByPlayer := make([][]ExternalBattle, len(players))

	workerCount := s.cfg.FetchWorkers
	if workerCount > len(players) {
		workerCount = len(players)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, 0, fmt.Errorf("create fetch worker pool: %w", err)
	}
	defer pool.Release()

	var failures atomic.Int32
	var wg sync.WaitGroup
	for i := range players {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			tag := players[i].Tag
			items, fetchErr := s.provider.FetchBattleLog(ctx, tag)
			if fetchErr != nil {
				failures.Add(1)
				s.logger.WarnContext(ctx, "battle log fetch failed, skipping player",
					"player_tag", tag,
					"error", fetchErr,
				)
				return
			}
			battlesByPlayer[i] = items
		}); err != nil {
			wg.Done()
			return nil, 0, fmt.Errorf("submit fetch task: %w", err)
		}
	}
	wg.Wait()

	return battlesByPlayer, int(failures.Load()), nil
}
