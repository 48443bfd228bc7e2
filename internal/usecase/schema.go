package usecase

import (
	"github.com/degplus/brawl-collector/internal/domain/battle"
)

// RowSchema is the output-schema strategy the normalizer and deduper are
// parameterized by. Two historical fact layouts share one pipeline
// skeleton: the classic layout keeps the log owner's result on every row
// and treats one source's row set per match as the unit of uniqueness,
// while the extended layout derives a participant-centric outcome, team
// numbers and roster enrichment, keyed by (game_id, player_tag).
type RowSchema interface {
	Name() string
	// DedupKey identifies one unique fact row within a run.
	DedupKey(row battle.FactRow) string
	// Decorate fills schema-specific fields on a freshly built row.
	Decorate(row *battle.FactRow, pctx ParticipantContext)
}

// ParticipantContext is the team-relative view the normalizer computes
// for one participant before schema decoration.
type ParticipantContext struct {
	// TeamNum is this participant's 1-based team, 0 in flat-list modes.
	TeamNum int
	// RequesterTeam is the source player's team, 0 in flat-list modes.
	RequesterTeam int
	IsRequester   bool
	// MatchResult is the battle result as phrased by the API, which is
	// always from the log owner's perspective.
	MatchResult battle.Outcome
	Rank        *int64
}

const (
	SchemaNameClassic  = "classic"
	SchemaNameExtended = "extended"
)

// SchemaForVariant maps a configured variant name onto its strategy.
// Unknown names fall back to the extended layout.
func SchemaForVariant(variant string, enrichment *EnrichmentResolver) RowSchema {
	if variant == SchemaNameClassic {
		return ClassicSchema{}
	}
	return ExtendedSchema{Enrichment: enrichment}
}

type ClassicSchema struct{}

func (ClassicSchema) Name() string { return "classic" }

func (ClassicSchema) DedupKey(row battle.FactRow) string {
	return row.GameID + "|" + row.SourcePlayerTag + "|" + row.PlayerTag
}

// Decorate keeps the source-centric result on every participant row, as
// the older fact layout did.
func (ClassicSchema) Decorate(row *battle.FactRow, pctx ParticipantContext) {
	row.Outcome = pctx.MatchResult
	if pctx.IsRequester {
		row.PlayerPlace = pctx.Rank
	}
}

type ExtendedSchema struct {
	Enrichment *EnrichmentResolver
}

func (ExtendedSchema) Name() string { return "extended" }

func (ExtendedSchema) DedupKey(row battle.FactRow) string {
	return row.GameID + "|" + row.PlayerTag
}

// Decorate resolves the participant-centric outcome: the requester's own
// side inherits the API result verbatim, the opposing side gets the
// logical inverse, and a draw is symmetric for everyone.
func (s ExtendedSchema) Decorate(row *battle.FactRow, pctx ParticipantContext) {
	row.TeamNum = pctx.TeamNum

	switch {
	case pctx.MatchResult == battle.OutcomeDraw:
		row.Outcome = battle.OutcomeDraw
	case pctx.TeamNum != 0 && pctx.TeamNum == pctx.RequesterTeam:
		row.Outcome = pctx.MatchResult
	case pctx.TeamNum != 0:
		row.Outcome = pctx.MatchResult.Invert()
	case pctx.IsRequester:
		row.Outcome = pctx.MatchResult
	default:
		row.Outcome = pctx.MatchResult.Invert()
	}

	if pctx.IsRequester {
		row.PlayerPlace = pctx.Rank
	}

	if e, ok := s.Enrichment.Resolve(row.PlayerTag); ok {
		row.PlayerTeam = e.Team
		row.PlayerImageURL = e.ImageURL
	}
}
