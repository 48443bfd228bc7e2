package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/degplus/brawl-collector/internal/domain/roster"
)

type RosterRepository struct {
	db *sqlx.DB
}

var sourcePlayerSelectColumns = []string{
	"id",
	"player_tag",
	"name",
	"team",
	"region",
	"nation",
	"image_url",
	"is_active",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListActive returns the tracked players whose battle logs should be
// collected this run, ordered by tag for deterministic fan-out.
func (r *RosterRepository) ListActive(ctx context.Context) ([]roster.SourcePlayer, error) {
	query := fmt.Sprintf(`SELECT %s FROM dim_source_players
		WHERE is_active = TRUE AND deleted_at IS NULL
		ORDER BY player_tag`, strings.Join(sourcePlayerSelectColumns, ", "))

	var rows []sourcePlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select active source players: %w", err)
	}

	return sourcePlayersFromRows(rows), nil
}

// ListAll returns every non-deleted roster entry, active or not. The
// enrichment pass uses it so rows keep team and image data even for
// players whose collection has been paused.
func (r *RosterRepository) ListAll(ctx context.Context) ([]roster.SourcePlayer, error) {
	query := fmt.Sprintf(`SELECT %s FROM dim_source_players
		WHERE deleted_at IS NULL
		ORDER BY player_tag`, strings.Join(sourcePlayerSelectColumns, ", "))

	var rows []sourcePlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select source players: %w", err)
	}

	return sourcePlayersFromRows(rows), nil
}

func sourcePlayersFromRows(rows []sourcePlayerTableModel) []roster.SourcePlayer {
	out := make([]roster.SourcePlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.SourcePlayer{
			Tag:      row.PlayerTag,
			Name:     row.Name,
			Team:     row.Team,
			Region:   row.Region,
			Nation:   row.Nation,
			ImageURL: row.ImageURL,
			Active:   row.IsActive,
		})
	}

	return out
}
