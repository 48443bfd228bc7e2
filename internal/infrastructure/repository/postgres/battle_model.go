package postgres

import (
	"time"

	"github.com/degplus/brawl-collector/internal/domain/battle"
)

type factRowTableModel struct {
	GameID     string    `db:"game_id"`
	BattleTime time.Time `db:"battle_time"`

	PlayerTag       string `db:"player_tag"`
	PlayerName      string `db:"player_name"`
	BrawlerID       *int64 `db:"brawler_id"`
	BrawlerName     string `db:"brawler_name"`
	BrawlerPower    *int64 `db:"brawler_power"`
	BrawlerTrophies *int64 `db:"brawler_trophies"`

	MapID          *int64 `db:"map_id"`
	MapName        string `db:"map_name"`
	GameMode       string `db:"game_mode"`
	BattleType     string `db:"battle_type"`
	BattleDuration *int64 `db:"battle_duration"`
	BattleRank     *int64 `db:"battle_rank"`
	TrophyChange   *int64 `db:"trophy_change"`

	TeamNum     int    `db:"team_num"`
	Outcome     string `db:"outcome"`
	PlayerPlace *int64 `db:"player_place"`

	StarPlayerTag  string `db:"star_player_tag"`
	StarPlayerName string `db:"star_player_name"`
	IsStarPlayer   bool   `db:"is_star_player"`

	PlayerTeam     string `db:"player_team"`
	PlayerImageURL string `db:"player_image_url"`

	SourcePlayerTag    string `db:"source_player_tag"`
	SourcePlayerName   string `db:"source_player_name"`
	SourcePlayerTeam   string `db:"source_player_team"`
	SourcePlayerRegion string `db:"source_player_region"`

	CollectedAt time.Time `db:"collected_at"`
}

func factRowToTableModel(row battle.FactRow) factRowTableModel {
	return factRowTableModel{
		GameID:             row.GameID,
		BattleTime:         row.BattleTime,
		PlayerTag:          row.PlayerTag,
		PlayerName:         row.PlayerName,
		BrawlerID:          row.BrawlerID,
		BrawlerName:        row.BrawlerName,
		BrawlerPower:       row.BrawlerPower,
		BrawlerTrophies:    row.BrawlerTrophies,
		MapID:              row.MapID,
		MapName:            row.MapName,
		GameMode:           row.GameMode,
		BattleType:         row.BattleType,
		BattleDuration:     row.BattleDuration,
		BattleRank:         row.BattleRank,
		TrophyChange:       row.TrophyChange,
		TeamNum:            row.TeamNum,
		Outcome:            string(row.Outcome),
		PlayerPlace:        row.PlayerPlace,
		StarPlayerTag:      row.StarPlayerTag,
		StarPlayerName:     row.StarPlayerName,
		IsStarPlayer:       row.IsStarPlayer,
		PlayerTeam:         row.PlayerTeam,
		PlayerImageURL:     row.PlayerImageURL,
		SourcePlayerTag:    row.SourcePlayerTag,
		SourcePlayerName:   row.SourcePlayerName,
		SourcePlayerTeam:   row.SourcePlayerTeam,
		SourcePlayerRegion: row.SourcePlayerRegion,
		CollectedAt:        row.CollectedAt,
	}
}
