package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/degplus/brawl-collector/external/brawlapi"
	"github.com/degplus/brawl-collector/internal/config"
	"github.com/degplus/brawl-collector/internal/infrastructure/repository/postgres"
	"github.com/degplus/brawl-collector/internal/platform/logging"
	"github.com/degplus/brawl-collector/internal/platform/resilience"
	"github.com/degplus/brawl-collector/internal/usecase"
)

// Collector bundles the wired pipeline with the resources it owns.
type Collector struct {
	Service *usecase.CollectService
	DB      *sqlx.DB
}

// NewCollector wires the collection pipeline against Postgres and the
// battle log API. The returned cleanup closes owned resources and must
// run after the final Run call.
func NewCollector(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Collector, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	rosterRepo := postgres.NewRosterRepository(db)
	factRepo := postgres.NewBattleFactRepository(db)

	apiClient := brawlapi.NewClient(brawlapi.ClientConfig{
		BaseURL:    cfg.BrawlAPIBaseURL,
		Token:      cfg.BrawlAPIToken,
		Timeout:    cfg.BrawlAPITimeout,
		MaxRetries: cfg.BrawlAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.BrawlAPICircuitEnabled,
			FailureThreshold: cfg.BrawlAPICircuitFailureCount,
			OpenTimeout:      cfg.BrawlAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BrawlAPICircuitHalfOpenReq,
		},
	})

	svc, err := usecase.NewCollectService(rosterRepo, apiClient, factRepo, usecase.CollectConfig{
		AllowedBattleTypes: cfg.AllowedBattleTypes,
		ExcludedModes:      cfg.ExcludedModes,
		DedupLookback:      cfg.DedupLookback,
		FetchWorkers:       cfg.FetchWorkers,
		SchemaVariant:      cfg.SchemaVariant,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("build collect service: %w", err)
	}

	cleanup := func(context.Context) error {
		return db.Close()
	}

	return &Collector{Service: svc, DB: db}, cleanup, nil
}

func connectDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.ConnectContext(ctx, "postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
