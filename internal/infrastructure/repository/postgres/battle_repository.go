package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/degplus/brawl-collector/internal/domain/battle"
)

// insertChunkSize keeps multi-row inserts under the wire protocol's
// parameter limit; each fact row binds 28 parameters.
const insertChunkSize = 500

type BattleFactRepository struct {
	db *sqlx.DB
}

func NewBattleFactRepository(db *sqlx.DB) *BattleFactRepository {
	return &BattleFactRepository{db: db}
}

const insertFactRowsQuery = `INSERT INTO fact_battle_players (
	game_id, battle_time,
	player_tag, player_name, brawler_id, brawler_name, brawler_power, brawler_trophies,
	map_id, map_name, game_mode, battle_type, battle_duration, battle_rank, trophy_change,
	team_num, outcome, player_place,
	star_player_tag, star_player_name, is_star_player,
	player_team, player_image_url,
	source_player_tag, source_player_name, source_player_team, source_player_region,
	collected_at
) VALUES (
	:game_id, :battle_time,
	:player_tag, :player_name, :brawler_id, :brawler_name, :brawler_power, :brawler_trophies,
	:map_id, :map_name, :game_mode, :battle_type, :battle_duration, :battle_rank, :trophy_change,
	:team_num, :outcome, :player_place,
	:star_player_tag, :star_player_name, :is_star_player,
	:player_team, :player_image_url,
	:source_player_tag, :source_player_name, :source_player_team, :source_player_region,
	:collected_at
)`

// ExistingGameIDs reports which of the candidate game ids already have
// fact rows with battle_time at or after the lookback cutoff. The time
// bound keeps the probe on the recent partition instead of the full
// fact history.
func (r *BattleFactRepository) ExistingGameIDs(ctx context.Context, gameIDs []string, since time.Time) (map[string]struct{}, error) {
	if len(gameIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	query, args, err := sqlx.In(`SELECT DISTINCT game_id FROM fact_battle_players
		WHERE game_id IN (?) AND battle_time >= ?`, gameIDs, since)
	if err != nil {
		return nil, fmt.Errorf("build existing game ids query: %w", err)
	}
	query = r.db.Rebind(query)

	var existing []string
	if err := r.db.SelectContext(ctx, &existing, query, args...); err != nil {
		return nil, fmt.Errorf("select existing game ids: %w", err)
	}

	out := make(map[string]struct{}, len(existing))
	for _, gameID := range existing {
		out[gameID] = struct{}{}
	}

	return out, nil
}

// InsertRows appends fact rows in chunks inside one transaction, so a
// run either lands completely or not at all. Returns the number of rows
// written.
func (r *BattleFactRepository) InsertRows(ctx context.Context, rows []battle.FactRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	models := make([]factRowTableModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, factRowToTableModel(row))
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert fact rows tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(models); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(models) {
			end = len(models)
		}
		if _, err := tx.NamedExecContext(ctx, insertFactRowsQuery, models[start:end]); err != nil {
			return 0, fmt.Errorf("insert fact rows chunk [%d:%d]: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert fact rows tx: %w", err)
	}

	return len(models), nil
}
