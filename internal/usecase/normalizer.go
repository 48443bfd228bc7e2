package usecase

import (
	"time"

	"github.com/degplus/brawl-collector/internal/domain/battle"
	"github.com/degplus/brawl-collector/internal/domain/roster"
)

const teamBattleSize = 3

// EligibilityRules is collection policy, not mechanism: which battle
// types count as competitive and which modes are excluded outright.
type EligibilityRules struct {
	AllowedTypes  map[string]struct{}
	ExcludedModes map[string]struct{}
}

func NewEligibilityRules(allowedTypes, excludedModes []string) EligibilityRules {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}
	excluded := make(map[string]struct{}, len(excludedModes))
	for _, m := range excludedModes {
		excluded[m] = struct{}{}
	}
	return EligibilityRules{AllowedTypes: allowed, ExcludedModes: excluded}
}

// Normalizer expands one raw battle into denormalized fact rows, one per
// participant. It is a pure transform: ineligible or unparseable battles
// yield zero rows and no error, per the collector's drop-and-continue
// policy for malformed input.
type Normalizer struct {
	rules  EligibilityRules
	schema RowSchema
}

func NewNormalizer(rules EligibilityRules, schema RowSchema) *Normalizer {
	return &Normalizer{rules: rules, schema: schema}
}

func (n *Normalizer) Normalize(item ExternalBattle, source roster.SourcePlayer, collectedAt time.Time) []battle.FactRow {
	battleTime, err := battle.ParseBattleTime(item.BattleTime)
	if err != nil {
		return nil
	}

	if _, ok := n.rules.AllowedTypes[item.Type]; !ok {
		return nil
	}
	mode := item.Event.Mode
	if mode == "" {
		mode = item.Mode
	}
	if _, ok := n.rules.ExcludedModes[mode]; ok {
		return nil
	}
	// Event id 0 is the API's "unknown event" sentinel; a missing event
	// key is legal and falls back to a timestamp-only game id.
	if item.Event.ID != nil && *item.Event.ID == 0 {
		return nil
	}

	result, ok := battle.ParseOutcome(item.Result)
	if !ok {
		return nil
	}

	gameID := battle.GameID(item.BattleTime, item.Event.ID)

	switch {
	case len(item.Teams) > 0:
		return n.normalizeTeams(item, source, gameID, battleTime, mode, result, collectedAt)
	case len(item.Players) > 0:
		return n.normalizeFlat(item, source, gameID, battleTime, mode, result, collectedAt)
	default:
		return nil
	}
}

func (n *Normalizer) normalizeTeams(
	item ExternalBattle,
	source roster.SourcePlayer,
	gameID string,
	battleTime time.Time,
	mode string,
	result battle.Outcome,
	collectedAt time.Time,
) []battle.FactRow {
	// Forfeits and other irregular shapes are not modeled; anything but
	// two full teams of three is dropped.
	if len(item.Teams) != 2 {
		return nil
	}
	for _, team := range item.Teams {
		if len(team) != teamBattleSize {
			return nil
		}
	}

	requesterTeam := 0
	for teamIdx, team := range item.Teams {
		for _, p := range team {
			if p.Tag == source.Tag {
				requesterTeam = teamIdx + 1
			}
		}
	}
	// A log entry can go stale if the roster tag changed; without the
	// requester there is no perspective to resolve outcomes from.
	if requesterTeam == 0 {
		return nil
	}

	rows := make([]battle.FactRow, 0, 2*teamBattleSize)
	for teamIdx, team := range item.Teams {
		for _, p := range team {
			row := n.baseRow(item, source, gameID, battleTime, mode, p, collectedAt)
			n.schema.Decorate(&row, ParticipantContext{
				TeamNum:       teamIdx + 1,
				RequesterTeam: requesterTeam,
				IsRequester:   p.Tag == source.Tag,
				MatchResult:   result,
				Rank:          item.Rank,
			})
			rows = append(rows, row)
		}
	}

	return rows
}

func (n *Normalizer) normalizeFlat(
	item ExternalBattle,
	source roster.SourcePlayer,
	gameID string,
	battleTime time.Time,
	mode string,
	result battle.Outcome,
	collectedAt time.Time,
) []battle.FactRow {
	found := false
	for _, p := range item.Players {
		if p.Tag == source.Tag {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	rows := make([]battle.FactRow, 0, len(item.Players))
	for _, p := range item.Players {
		row := n.baseRow(item, source, gameID, battleTime, mode, p, collectedAt)
		n.schema.Decorate(&row, ParticipantContext{
			IsRequester: p.Tag == source.Tag,
			MatchResult: result,
			Rank:        item.Rank,
		})
		rows = append(rows, row)
	}

	return rows
}

func (n *Normalizer) baseRow(
	item ExternalBattle,
	source roster.SourcePlayer,
	gameID string,
	battleTime time.Time,
	mode string,
	p ExternalParticipant,
	collectedAt time.Time,
) battle.FactRow {
	row := battle.FactRow{
		GameID:     gameID,
		BattleTime: battleTime,

		PlayerTag:       p.Tag,
		PlayerName:      p.Name,
		BrawlerID:       p.Brawler.ID,
		BrawlerName:     p.Brawler.Name,
		BrawlerPower:    p.Brawler.Power,
		BrawlerTrophies: p.Brawler.Trophies,

		MapID:          item.Event.ID,
		MapName:        item.Event.Map,
		GameMode:       mode,
		BattleType:     item.Type,
		BattleDuration: item.Duration,
		BattleRank:     item.Rank,
		TrophyChange:   item.TrophyChange,

		SourcePlayerTag:    source.Tag,
		SourcePlayerName:   source.Name,
		SourcePlayerTeam:   source.Team,
		SourcePlayerRegion: source.Region,

		CollectedAt: collectedAt,
	}

	if item.StarPlayer != nil {
		row.StarPlayerTag = item.StarPlayer.Tag
		row.StarPlayerName = item.StarPlayer.Name
		row.IsStarPlayer = item.StarPlayer.Tag != "" && item.StarPlayer.Tag == p.Tag
	}

	return row
}
